//go:build unit
// +build unit

package v1

import (
	"net/http"
	"testing"

	"github.com/ShiroyamaY/tms/internal/domain/tasks"
	"github.com/ShiroyamaY/tms/internal/pkg/testutil"
	"github.com/ShiroyamaY/tms/internal/pkg/validators"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCommentHandler_List(t *testing.T) {
	mockCommentService := new(MockCommentService)
	handler := NewCommentHandler(mockCommentService, testutil.SetupTestLogger(t))

	taskID := uint(3)
	mockCommentService.On("List", mock.Anything, &taskID).
		Return([]*tasks.Comment{{ID: 1, Text: "first", TaskID: 3, AuthorID: 7}}, nil)
	mockCommentService.On("List", mock.Anything, (*uint)(nil)).Return([]*tasks.Comment{}, nil)

	c, w := newJSONContext(t, http.MethodGet, "/tasks/comments?task=3", nil)
	handler.List(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"text":"first","task":3,"author":7}]`, w.Body.String())

	c, w = newJSONContext(t, http.MethodGet, "/tasks/comments", nil)
	handler.List(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCommentHandler_Create(t *testing.T) {
	mockCommentService := new(MockCommentService)
	handler := NewCommentHandler(mockCommentService, testutil.SetupTestLogger(t))

	mockCommentService.On("Create", mock.Anything, uint(7), uint(3), "nice").
		Return(&tasks.Comment{ID: 2, Text: "nice", TaskID: 3, AuthorID: 7}, nil)
	mockCommentService.On("Create", mock.Anything, uint(7), uint(3), "").
		Return(nil, validators.NewFieldError("text", "This field may not be blank."))

	c, w := newJSONContext(t, http.MethodPost, "/tasks/comments", `{"text":"nice","task":3}`)
	handler.Create(c)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"text":"nice","task":3,"author":7}`, w.Body.String())

	c, w = newJSONContext(t, http.MethodPost, "/tasks/comments", `{"text":"","task":3}`)
	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"text":["This field may not be blank."]}`, w.Body.String())

	c, w = newJSONContext(t, http.MethodPost, "/tasks/comments", `{"text":"orphan"}`)
	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"task":["This field is required."]}`, w.Body.String())
}
