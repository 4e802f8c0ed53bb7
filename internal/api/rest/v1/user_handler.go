package v1

import (
	"net/http"

	"github.com/ShiroyamaY/tms/internal/domain/users"
	"github.com/ShiroyamaY/tms/internal/pkg/logger"
	"github.com/gin-gonic/gin"
)

// UserHandler defines the interface for handling account-related operations
type UserHandler interface {
	Register(ctx *gin.Context)
	ObtainToken(ctx *gin.Context)
	RefreshToken(ctx *gin.Context)
	List(ctx *gin.Context)
	LoggedTimeLastMonth(ctx *gin.Context)
}

type userHandler struct {
	userService users.UserService
	logger      logger.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService users.UserService, logger logger.Logger) UserHandler {
	return &userHandler{userService: userService, logger: logger}
}

// Register creates an account and returns it with a token pair
func (handler *userHandler) Register(ctx *gin.Context) {
	var reg users.Registration
	if err := ctx.ShouldBindJSON(&reg); err != nil {
		respondBindError(ctx, err)
		return
	}

	user, pair, err := handler.userService.Register(ctx.Request.Context(), &reg)
	if err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, RegisterResponse{
		User:    NewUserResponse(user),
		Access:  pair.Access,
		Refresh: pair.Refresh,
	})
}

// ObtainToken exchanges credentials for a token pair
func (handler *userHandler) ObtainToken(ctx *gin.Context) {
	var req TokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	pair, err := handler.userService.ObtainToken(ctx.Request.Context(), *req.Username, *req.Password)
	if err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, TokenPairResponse{Access: pair.Access, Refresh: pair.Refresh})
}

// RefreshToken issues a new access token
func (handler *userHandler) RefreshToken(ctx *gin.Context) {
	var req RefreshRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	access, err := handler.userService.RefreshToken(ctx.Request.Context(), *req.Refresh)
	if err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, AccessResponse{Access: access})
}

// List returns every user with their full name
func (handler *userHandler) List(ctx *gin.Context) {
	list, err := handler.userService.List(ctx.Request.Context())
	if err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	resp := make([]UserListItem, 0, len(list))
	for _, u := range list {
		resp = append(resp, UserListItem{ID: u.ID, FullName: u.FullName()})
	}
	ctx.JSON(http.StatusOK, resp)
}

// LoggedTimeLastMonth totals the caller's minutes in the previous month
func (handler *userHandler) LoggedTimeLastMonth(ctx *gin.Context) {
	minutes, err := handler.userService.LoggedMinutesLastMonth(ctx.Request.Context(), currentUser(ctx).ID)
	if err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, LoggedTimeResponse{TotalMinutes: minutes})
}
