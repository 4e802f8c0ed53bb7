//go:build unit
// +build unit

package v1

import (
	"errors"
	"net/http"
	"testing"

	"github.com/ShiroyamaY/tms/internal/domain/users"
	"github.com/ShiroyamaY/tms/internal/pkg/testutil"
	"github.com/ShiroyamaY/tms/internal/pkg/validators"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestUserHandler_Register_Success(t *testing.T) {
	mockUserService := new(MockUserService)
	handler := NewUserHandler(mockUserService, testutil.SetupTestLogger(t))

	reg := &users.Registration{Username: "alice", Email: "alice@example.com", Password: "password123", FirstName: "Alice", LastName: "Smith"}
	mockUserService.On("Register", mock.Anything, reg).
		Return(testUser, users.TokenPair{Access: "a", Refresh: "r"}, nil)

	c, w := newJSONContext(t, http.MethodPost, "/users/register", reg)
	handler.Register(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp RegisterResponse
	decode(t, w, &resp)
	assert.Equal(t, RegisterResponse{
		User:    UserResponse{FirstName: "Alice", LastName: "Smith", Email: "alice@example.com", Username: "alice"},
		Access:  "a",
		Refresh: "r",
	}, resp)
	assert.NotContains(t, w.Body.String(), "password")
	mockUserService.AssertExpectations(t)
}

func TestUserHandler_Register_ValidationError(t *testing.T) {
	mockUserService := new(MockUserService)
	handler := NewUserHandler(mockUserService, testutil.SetupTestLogger(t))

	mockUserService.On("Register", mock.Anything, mock.Anything).
		Return(nil, users.TokenPair{}, validators.NewFieldError("username", "A user with that username already exists."))

	c, w := newJSONContext(t, http.MethodPost, "/users/register", map[string]string{"username": "alice"})
	handler.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"username":["A user with that username already exists."]}`, w.Body.String())
}

func TestUserHandler_Register_MalformedBody(t *testing.T) {
	handler := NewUserHandler(new(MockUserService), testutil.SetupTestLogger(t))

	c, w := newJSONContext(t, http.MethodPost, "/users/register", "{not json")
	handler.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "JSON parse error")
}

func TestUserHandler_ObtainToken(t *testing.T) {
	tests := []struct {
		name     string
		body     interface{}
		setup    func(m *MockUserService)
		wantCode int
		wantBody string
	}{
		{
			name: "valid credentials",
			body: map[string]string{"username": "alice", "password": "password123"},
			setup: func(m *MockUserService) {
				m.On("ObtainToken", mock.Anything, "alice", "password123").Return(users.TokenPair{Access: "a", Refresh: "r"}, nil)
			},
			wantCode: http.StatusOK,
			wantBody: `{"access":"a","refresh":"r"}`,
		},
		{
			name: "wrong password",
			body: map[string]string{"username": "alice", "password": "nope"},
			setup: func(m *MockUserService) {
				m.On("ObtainToken", mock.Anything, "alice", "nope").Return(users.TokenPair{}, users.ErrInvalidCredentials)
			},
			wantCode: http.StatusUnauthorized,
			wantBody: `{"detail":"No active account found with the given credentials"}`,
		},
		{
			name:     "missing fields",
			body:     map[string]string{},
			setup:    func(m *MockUserService) {},
			wantCode: http.StatusBadRequest,
			wantBody: `{"username":["This field is required."],"password":["This field is required."]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUserService := new(MockUserService)
			tt.setup(mockUserService)
			handler := NewUserHandler(mockUserService, testutil.SetupTestLogger(t))

			c, w := newJSONContext(t, http.MethodPost, "/users/token", tt.body)
			handler.ObtainToken(c)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			mockUserService.AssertExpectations(t)
		})
	}
}

func TestUserHandler_RefreshToken(t *testing.T) {
	mockUserService := new(MockUserService)
	handler := NewUserHandler(mockUserService, testutil.SetupTestLogger(t))

	mockUserService.On("RefreshToken", mock.Anything, "good").Return("new-access", nil)
	mockUserService.On("RefreshToken", mock.Anything, "bad").Return("", users.ErrInvalidToken)

	c, w := newJSONContext(t, http.MethodPost, "/users/token/refresh", map[string]string{"refresh": "good"})
	handler.RefreshToken(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"access":"new-access"}`, w.Body.String())

	c, w = newJSONContext(t, http.MethodPost, "/users/token/refresh", map[string]string{"refresh": "bad"})
	handler.RefreshToken(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail":"Given token not valid for any token type","code":"token_not_valid"}`, w.Body.String())
}

func TestUserHandler_List(t *testing.T) {
	mockUserService := new(MockUserService)
	handler := NewUserHandler(mockUserService, testutil.SetupTestLogger(t))

	mockUserService.On("List", mock.Anything).Return([]*users.User{
		testUser,
		{ID: 8, FirstName: "Bob", LastName: "Jones"},
	}, nil)

	c, w := newJSONContext(t, http.MethodGet, "/users", nil)
	handler.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":7,"full_name":"Alice Smith"},{"id":8,"full_name":"Bob Jones"}]`, w.Body.String())
}

func TestUserHandler_LoggedTimeLastMonth(t *testing.T) {
	mockUserService := new(MockUserService)
	handler := NewUserHandler(mockUserService, testutil.SetupTestLogger(t))

	mockUserService.On("LoggedMinutesLastMonth", mock.Anything, uint(7)).Return(145, nil).Once()
	mockUserService.On("LoggedMinutesLastMonth", mock.Anything, uint(7)).Return(0, errors.New("db down")).Once()

	c, w := newJSONContext(t, http.MethodGet, "/users/logged-time/last-month", nil)
	handler.LoggedTimeLastMonth(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total_minutes":145}`, w.Body.String())

	c, w = newJSONContext(t, http.MethodGet, "/users/logged-time/last-month", nil)
	handler.LoggedTimeLastMonth(c)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"A server error occurred."}`, w.Body.String())
}
