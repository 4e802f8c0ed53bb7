//go:build unit
// +build unit

package validators

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Username string `json:"username" validate:"required,min=4,username"`
	Age      int    `json:"age" validate:"min=1"`
	Secret   string `json:"-" validate:"required"`
}

func TestStruct_FieldMessages(t *testing.T) {
	err := Struct(New(), &sample{Username: "a b", Age: 0})
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	assert.Equal(t, []string{"Ensure this field has at least 4 characters."}, verr.Fields["username"])
	assert.Equal(t, []string{"Ensure this value is greater than or equal to 1."}, verr.Fields["age"])
	assert.Contains(t, err.Error(), "validation failed")
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(New(), &sample{Username: "john.doe+1@x", Age: 3, Secret: "s"}))
}

func TestUsernameValidation(t *testing.T) {
	v := New()
	tests := []struct {
		name  string
		value string
		ok    bool
	}{
		{"ascii", "john_doe", true},
		{"symbols", "j.d@x+y-z", true},
		{"unicode letters", "Иван", true},
		{"space", "john doe", false},
		{"slash", "john/doe", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Var(tt.value, "username")
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidationError_Builders(t *testing.T) {
	e := NewNonFieldError("Task already completed.")
	assert.Equal(t, []string{"Task already completed."}, e.Fields[NonFieldErrors])

	assert.Nil(t, (&ValidationError{}).OrNil())
	assert.NotNil(t, NewFieldError("task", "Invalid pk").OrNil())
}
