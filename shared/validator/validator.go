// Package validator decodes request bodies and checks them against `validate` tags,
// turning the first violation into a 400 failure.
package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"reflect"
	"strconv"
	"strings"

	"umrahcrm/shared/failure"

	val "github.com/go-playground/validator/v10"
)

// Enum is implemented by closed string vocabularies.
type Enum interface {
	Valid() bool
}

const megabyte = 1 << 20

var validate = newValidate()

func newValidate() *val.Validate {
	v := val.New(val.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)

	rules := map[string]val.Func{
		"enum":        enumRule,
		"maxfilesize": maxFileSizeRule,
	}

	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}

	return v
}

func enumRule(fl val.FieldLevel) bool {
	enum, ok := fl.Field().Interface().(Enum)

	return ok && enum.Valid()
}

// maxFileSizeRule takes its limit in megabytes.
func maxFileSizeRule(fl val.FieldLevel) bool {
	limit, err := strconv.ParseFloat(fl.Param(), 64)
	if err != nil {
		return false
	}

	var size int64

	switch header := fl.Field().Interface().(type) {
	case multipart.FileHeader:
		size = header.Size
	case *multipart.FileHeader:
		size = header.Size
	default:
		return false
	}

	return float64(size) <= limit*megabyte
}

// fieldName reports the json name so messages match what the client sent.
func fieldName(field reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name, _, _ := strings.Cut(field.Tag.Get(key), ",")
		if name != "" && name != "-" {
			return name
		}
	}

	return field.Name
}

// Validate decodes a JSON body into data and validates it.
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	return check(validate.Struct(data))
}

func ValidateVar(field any, tag string) error {
	return check(validate.Var(field, tag))
}

func check(err error) error {
	if err == nil {
		return nil
	}

	return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
}
