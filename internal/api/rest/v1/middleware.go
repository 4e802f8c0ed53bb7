package v1

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ShiroyamaY/tms/internal/domain/users"
	"github.com/ShiroyamaY/tms/internal/pkg/logger"
	"github.com/gin-gonic/gin"
)

// userKey stores the authenticated user on the gin context
const userKey = "tms.user"

// RequireAuth rejects requests without a valid bearer access token
func RequireAuth(userService users.UserService, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, DetailResponse{Detail: msgNoCredentials})
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, DetailResponse{Detail: msgInvalidToken, Code: msgTokenCode})
			return
		}

		user, err := userService.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			respondError(c, logger, err)
			c.Abort()
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// currentUser returns the user stored by RequireAuth
func currentUser(c *gin.Context) *users.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*users.User)
	return user
}

// RequestLogger writes one line per request to the application logger
func RequestLogger(logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		line := fmt.Sprintf("%s %s %d %s %s", c.Request.Method, c.Request.URL.RequestURI(), status, time.Since(start).Round(time.Microsecond), c.ClientIP())
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error(line)
		case status >= http.StatusBadRequest:
			logger.Warn(line)
		default:
			logger.Info(line)
		}
	}
}
