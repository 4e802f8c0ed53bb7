package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ShiroyamaY/tms/internal/domain/search"
	"github.com/ShiroyamaY/tms/internal/domain/tasks"
	"github.com/ShiroyamaY/tms/internal/domain/users"
	"github.com/ShiroyamaY/tms/internal/pkg/logger"
	"github.com/ShiroyamaY/tms/internal/pkg/validators"
	"github.com/gin-gonic/gin"
)

// Messages shared by several handlers
const (
	msgNotFound        = "Not found."
	msgServerError     = "A server error occurred."
	msgNoCredentials   = "Authentication credentials were not provided."
	msgInvalidToken    = "Given token not valid for any token type"
	msgTokenCode       = "token_not_valid"
	msgAlreadyComplete = "Task already completed."
	msgNoActiveTimer   = "Active timer not found for this task."
	msgInvalidDuration = "Timelog duration must be greater than zero."
)

// respondError maps domain errors onto status codes and response bodies
func respondError(c *gin.Context, log logger.Logger, err error) {
	var verr *validators.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, verr.Fields)
	case errors.Is(err, tasks.ErrAlreadyCompleted):
		c.JSON(http.StatusBadRequest, validators.NewNonFieldError(msgAlreadyComplete).Fields)
	case errors.Is(err, tasks.ErrNoActiveTimer):
		c.JSON(http.StatusBadRequest, validators.NewNonFieldError(msgNoActiveTimer).Fields)
	case errors.Is(err, tasks.ErrInvalidDuration):
		c.JSON(http.StatusBadRequest, validators.NewNonFieldError(msgInvalidDuration).Fields)
	case errors.Is(err, users.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, DetailResponse{Detail: "No active account found with the given credentials"})
	case errors.Is(err, users.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, DetailResponse{Detail: msgInvalidToken, Code: msgTokenCode})
	case errors.Is(err, tasks.ErrTaskNotFound),
		errors.Is(err, tasks.ErrCommentNotFound),
		errors.Is(err, tasks.ErrTimeLogNotFound),
		errors.Is(err, tasks.ErrAttachmentNotFound),
		errors.Is(err, users.ErrUserNotFound):
		c.JSON(http.StatusNotFound, DetailResponse{Detail: msgNotFound})
	case errors.Is(err, search.ErrInvalidTarget):
		c.JSON(http.StatusBadRequest, DetailResponse{Detail: "Invalid target parameter"})
	case errors.Is(err, search.ErrClusterUnavailable):
		log.Error(fmt.Sprintf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err))
		c.JSON(http.StatusServiceUnavailable, DetailResponse{Detail: "Search is temporarily unavailable."})
	default:
		log.Error(fmt.Sprintf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err))
		c.JSON(http.StatusInternalServerError, DetailResponse{Detail: msgServerError})
	}
}

// respondBindError reports a body that could not be decoded
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, DetailResponse{Detail: fmt.Sprintf("JSON parse error - %v", err)})
}
