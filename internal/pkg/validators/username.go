package validators

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

// UsernameValidation accepts letters, digits and the characters @ . + - _
func UsernameValidation(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}
