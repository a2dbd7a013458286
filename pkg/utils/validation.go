package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"uptime-monitor/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

// ValidationError turns validator output into an InvalidInput error with one
// message per json field.
func ValidationError(op string, err error) *apperror.Error {
	fields := map[string]string{}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fe.Field()] = fieldMessage(fe)
		}
	}

	return &apperror.Error{
		Kind:    apperror.InvalidInput,
		Op:      op,
		Message: "request validation failed",
		Fields:  fields,
		Err:     err,
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "url", "http_url":
		return "must be a valid url"
	case "email":
		return "must be a valid email"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "gte", "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte", "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}

// NewValidator returns a validator that reports json tag names as field names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonTagName)
	return v
}

func jsonTagName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}
