package validator

import (
	"errors"
	"fmt"
	"reflect"

	val "github.com/go-playground/validator/v10"
)

// message describes the first violation. Length rules read differently for text, lists and numbers.
func message(err error) string {
	var fieldErrs val.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err.Error()
	}

	fe := fieldErrs[0]
	field, param := fe.Field(), fe.Param()
	unit := lengthUnit(fe.Kind())

	switch fe.Tag() {
	case "required", "required_if", "required_unless":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "url":
		return field + " must be a valid URL"
	case "enum":
		return field + " has an unsupported value"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, param)
	case "max":
		if unit != "" {
			return fmt.Sprintf("%s must be at most %s %s", field, param, unit)
		}

		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "min":
		if unit != "" {
			return fmt.Sprintf("%s must be at least %s %s", field, param, unit)
		}

		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "maxfilesize":
		return fmt.Sprintf("%s must not exceed %s MB", field, param)
	default:
		return fe.Error()
	}
}

func lengthUnit(kind reflect.Kind) string {
	switch kind {
	case reflect.String:
		return "characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		return "items"
	default:
		return ""
	}
}
