package dto

import "mime/multipart"

// File is an uploaded multipart file handed from a handler to a service.
type File struct {
	File   multipart.File
	Header *multipart.FileHeader `validate:"required,maxfilesize=10"`
}

func (f *File) Name() string {
	if f == nil || f.Header == nil {
		return ""
	}

	return f.Header.Filename
}
