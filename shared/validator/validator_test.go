package validator_test

import (
	"mime/multipart"
	"strings"
	"testing"

	"umrahcrm/shared/validator"

	"github.com/stretchr/testify/assert"
)

type tier string

func (t tier) Valid() bool {
	return t == "Premium" || t == "Standard"
}

type guestRequest struct {
	Name     string   `json:"name"     validate:"required,max=20"`
	Email    string   `json:"email"    validate:"required,email"`
	Pax      int      `json:"pax"      validate:"gte=1,lte=50"`
	Package  tier     `json:"package"  validate:"required,enum"`
	Upgrade  *tier    `json:"upgrade"  validate:"omitempty,enum"`
	Services []string `json:"services" validate:"required,min=1"`
}

func validGuest() guestRequest {
	return guestRequest{Name: "Ahmad Khan", Email: "ahmad@example.com", Pax: 4, Package: "Premium", Services: []string{"visas"}}
}

func TestValidateStruct(t *testing.T) {
	bad := tier("Gold")
	good := tier("Standard")

	tests := []struct {
		name    string
		mutate  func(r *guestRequest)
		wantErr string
	}{
		{name: "valid", mutate: func(*guestRequest) {}},
		{name: "missing name", mutate: func(r *guestRequest) { r.Name = "" }, wantErr: "name is required"},
		{name: "invalid email", mutate: func(r *guestRequest) { r.Email = "nope" }, wantErr: "email must be a valid email address"},
		{name: "pax out of range", mutate: func(r *guestRequest) { r.Pax = 51 }, wantErr: "pax must be less than or equal to 50"},
		{name: "unknown enum", mutate: func(r *guestRequest) { r.Package = "Gold" }, wantErr: "package has an unsupported value"},
		{name: "unknown optional enum", mutate: func(r *guestRequest) { r.Upgrade = &bad }, wantErr: "upgrade has an unsupported value"},
		{name: "known optional enum", mutate: func(r *guestRequest) { r.Upgrade = &good }},
		{name: "name too long", mutate: func(r *guestRequest) { r.Name = strings.Repeat("a", 21) }, wantErr: "name must be at most 20 characters"},
		{name: "no services", mutate: func(r *guestRequest) { r.Services = []string{} }, wantErr: "services must be at least 1 items"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validGuest()
			tt.mutate(&req)

			err := validator.ValidateStruct(&req)

			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}

			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid body", body: `{"name":"Sarah","email":"sarah@example.com","pax":2,"package":"Standard","services":["visas"]}`},
		{name: "malformed json", body: `{"name":`, wantErr: true},
		{name: "fails validation", body: `{"name":"Sarah","email":"sarah@example.com","pax":0,"package":"Standard","services":["visas"]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req guestRequest

			err := validator.Validate(strings.NewReader(tt.body), &req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("test@example.com", "email"))
	assert.Error(t, validator.ValidateVar("", "required"))
	assert.Error(t, validator.ValidateVar(tier("Gold"), "enum"))
}

func TestMaxFileSize(t *testing.T) {
	type upload struct {
		Header *multipart.FileHeader `json:"file" validate:"required,maxfilesize=1"`
	}

	assert.NoError(t, validator.ValidateStruct(&upload{Header: &multipart.FileHeader{Size: 1 << 20}}))
	assert.EqualError(t, validator.ValidateStruct(&upload{Header: &multipart.FileHeader{Size: 1<<20 + 1}}), "file must not exceed 1 MB")
	assert.EqualError(t, validator.ValidateStruct(&upload{}), "file is required")
}
