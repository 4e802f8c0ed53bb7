//go:build unit
// +build unit

package v1

import (
	"net/http"
	"testing"

	"github.com/ShiroyamaY/tms/internal/domain/search"
	"github.com/ShiroyamaY/tms/internal/pkg/testutil"
	"github.com/ShiroyamaY/tms/internal/pkg/validators"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSearchHandler_Search(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		setup    func(m *MockSearchService)
		wantCode int
		wantBody string
	}{
		{
			name: "task hits",
			url:  "/search?target=task&query=login",
			setup: func(m *MockSearchService) {
				m.On("Search", mock.Anything, search.TargetTask, "login").
					Return([]search.Hit{{"id": "1", "title": "Fix login"}}, nil)
			},
			wantCode: http.StatusOK,
			wantBody: `[{"id":"1","title":"Fix login"}]`,
		},
		{
			name: "no hits",
			url:  "/search?target=comment&query=zzz",
			setup: func(m *MockSearchService) {
				m.On("Search", mock.Anything, search.TargetComment, "zzz").Return(nil, nil)
			},
			wantCode: http.StatusOK,
			wantBody: `[]`,
		},
		{
			name: "missing parameters",
			url:  "/search",
			setup: func(m *MockSearchService) {
				m.On("Search", mock.Anything, search.Target(""), "").
					Return(nil, (&validators.ValidationError{}).Add("target", "This field is required.").Add("query", "This field is required."))
			},
			wantCode: http.StatusBadRequest,
			wantBody: `{"target":["This field is required."],"query":["This field is required."]}`,
		},
		{
			name: "unknown target",
			url:  "/search?target=user&query=x",
			setup: func(m *MockSearchService) {
				m.On("Search", mock.Anything, search.Target("user"), "x").Return(nil, search.ErrInvalidTarget)
			},
			wantCode: http.StatusBadRequest,
			wantBody: `{"detail":"Invalid target parameter"}`,
		},
		{
			name: "cluster down",
			url:  "/search?target=task&query=x",
			setup: func(m *MockSearchService) {
				m.On("Search", mock.Anything, search.TargetTask, "x").Return(nil, search.ErrClusterUnavailable)
			},
			wantCode: http.StatusServiceUnavailable,
			wantBody: `{"detail":"Search is temporarily unavailable."}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSearchService := new(MockSearchService)
			tt.setup(mockSearchService)
			handler := NewSearchHandler(mockSearchService, testutil.SetupTestLogger(t))

			c, w := newJSONContext(t, http.MethodGet, tt.url, nil)
			handler.Search(c)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			mockSearchService.AssertExpectations(t)
		})
	}
}
