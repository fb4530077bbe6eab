package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their JSON names so paths match request bodies
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return field.Name
		}
		return name
	})
	return v
}

// tagMessages renders a failed rule; %[1]s is the field path, %[2]s the rule parameter
var tagMessages = map[string]string{
	"required": "%[1]s is required",
	"min":      "%[1]s must be at least %[2]s",
	"max":      "%[1]s must be at most %[2]s",
	"gt":       "%[1]s must be greater than %[2]s",
	"gte":      "%[1]s must be greater than or equal to %[2]s",
	"oneof":    "%[1]s must be one of: %[2]s",
}

// ValidationError lists failed rules keyed by field path, e.g. "recipe[0].parts"
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateStruct runs the struct's validate tags. Rule failures come back as
// *ValidationError; anything else, such as a non-struct argument, is returned
// as the validator reported it.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	var failed validator.ValidationErrors
	if !errors.As(err, &failed) {
		return err
	}
	return NewValidationError(failed)
}

// NewValidationError converts validator output into field messages
func NewValidationError(errs validator.ValidationErrors) *ValidationError {
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		path := fe.Namespace()
		if _, rest, ok := strings.Cut(path, "."); ok {
			path = rest
		}

		format, known := tagMessages[fe.Tag()]
		if !known {
			format = "%[1]s validation failed on '" + fe.Tag() + "' tag"
		}
		fields[path] = fmt.Sprintf(format, path, fe.Param())
	}
	return &ValidationError{Message: "Validation failed", Fields: fields}
}

// IsValidationError reports whether err carries a *ValidationError
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// GetValidationFields returns the field messages of a *ValidationError, or nil
func GetValidationFields(err error) map[string]string {
	var target *ValidationError
	if !errors.As(err, &target) {
		return nil
	}
	return target.Fields
}
