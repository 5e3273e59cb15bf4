package request

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"umrahcrm/shared/constant"
	gDto "umrahcrm/shared/dto"
	"umrahcrm/shared/failure"
	"umrahcrm/shared/validator"
)

// IsMultipart reports whether the request body is a multipart form.
func IsMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get(constant.RequestHeaderContentType), constant.ContentTypeMultipartFormData)
}

// FormFile parses the multipart form and returns the optional upload under the "file" field.
// A form without a file yields nil. The caller closes the returned file.
func FormFile(r *http.Request) (*gDto.File, error) {
	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		return nil, failure.BadRequest(fmt.Errorf("failed to parse multipart form: %w", err)) //nolint:wrapcheck
	}

	file, header, err := r.FormFile(constant.FormFile)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}

	if err != nil {
		return nil, failure.BadRequest(fmt.Errorf("failed to read uploaded file: %w", err)) //nolint:wrapcheck
	}

	upload := &gDto.File{File: file, Header: header}

	if err = validator.ValidateStruct(upload); err != nil {
		file.Close()

		return nil, err
	}

	return upload, nil
}

// Close releases the upload when one was attached.
func Close(upload *gDto.File) {
	if upload != nil && upload.File != nil {
		upload.File.Close()
	}
}
