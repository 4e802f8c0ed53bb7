//go:build unit
// +build unit

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServerSettingsValidation(t *testing.T) {
	tests := []struct {
		name          string
		settings      *ServerSettings
		expectedError bool
	}{
		{"defaults", &ServerSettings{Bind: DefaultServerBind, Workers: 10, Timeout: 300}, false},
		{"with health bind", &ServerSettings{Bind: ":8000", Workers: 1, Timeout: 1, HealthBind: ":8081"}, false},
		{"zero workers", &ServerSettings{Bind: DefaultServerBind, Workers: 0, Timeout: 300}, true},
		{"zero timeout", &ServerSettings{Bind: DefaultServerBind, Workers: 10, Timeout: 0}, true},
		{"bind without port", &ServerSettings{Bind: "0.0.0.0", Workers: 10, Timeout: 300}, true},
		{"bad health bind", &ServerSettings{Bind: DefaultServerBind, Workers: 10, Timeout: 300, HealthBind: "x"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
