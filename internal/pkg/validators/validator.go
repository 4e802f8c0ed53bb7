package validators

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NonFieldErrors is the key for errors not bound to a single field
const NonFieldErrors = "non_field_errors"

// New returns a validator that reports fields by their json name and knows the custom tags
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	// registration only fails for empty tags or nil funcs
	_ = v.RegisterValidation("username", UsernameValidation)
	return v
}

// ValidationError maps field names to human readable messages
type ValidationError struct {
	Fields map[string][]string
}

// Error implements error
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msgs := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(msgs, " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a message for field and returns the receiver
func (e *ValidationError) Add(field, msg string) *ValidationError {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
	return e
}

// Empty reports whether no messages were collected
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// OrNil returns nil when no messages were collected
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

// NewFieldError builds a ValidationError with a single message
func NewFieldError(field, msg string) *ValidationError {
	return (&ValidationError{}).Add(field, msg)
}

// NewNonFieldError builds a ValidationError not bound to a field
func NewNonFieldError(msg string) *ValidationError {
	return NewFieldError(NonFieldErrors, msg)
}

// Struct validates s and converts failures into a ValidationError
func Struct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validation error: %w", err)
	}

	out := &ValidationError{}
	for _, fieldErr := range validationErrors {
		out.Add(fieldErr.Field(), message(fieldErr))
	}
	return out
}

func message(fe validator.FieldError) string {
	numeric := false
	switch fe.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		numeric = true
	}

	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "username":
		return "Username may contain only letters, digits and @/./+/-/_ characters."
	case "oneof":
		return fmt.Sprintf("\"%v\" is not a valid choice.", fe.Value())
	case "min", "gte":
		if numeric {
			return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
		}
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "max", "lte":
		if numeric {
			return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
		}
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	default:
		return "Invalid value."
	}
}
