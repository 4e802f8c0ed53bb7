//go:build unit
// +build unit

package users

import (
	"errors"
	"testing"

	"github.com/ShiroyamaY/tms/internal/pkg/validators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistration_Validate(t *testing.T) {
	tests := []struct {
		name      string
		reg       Registration
		wantField string
	}{
		{"valid", Registration{Username: "johndoe", Email: "john@example.com", Password: "s3cretpass"}, ""},
		{"short username", Registration{Username: "joe", Email: "john@example.com", Password: "s3cretpass"}, "username"},
		{"bad username chars", Registration{Username: "john doe", Email: "john@example.com", Password: "s3cretpass"}, "username"},
		{"bad email", Registration{Username: "johndoe", Email: "not-an-email", Password: "s3cretpass"}, "email"},
		{"short password", Registration{Username: "johndoe", Email: "john@example.com", Password: "short"}, "password"},
		{"numeric password", Registration{Username: "johndoe", Email: "john@example.com", Password: "12345678"}, "password"},
		{"password equals username", Registration{Username: "johndoe1", Email: "john@example.com", Password: "JohnDoe1"}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.reg.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var verr *validators.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Fields, tt.wantField)
		})
	}
}

func TestUser_FullName(t *testing.T) {
	u := &User{FirstName: "Jane", LastName: "Doe"}
	assert.Equal(t, "Jane Doe", u.FullName())

	assert.Equal(t, " ", (&User{}).FullName())
}
