package v1

import (
	"net/http"

	"github.com/ShiroyamaY/tms/internal/domain/tasks"
	"github.com/ShiroyamaY/tms/internal/pkg/logger"
	"github.com/gin-gonic/gin"
)

// CommentHandler defines the interface for handling comment-related operations
type CommentHandler interface {
	List(ctx *gin.Context)
	Create(ctx *gin.Context)
}

type commentHandler struct {
	commentService tasks.CommentService
	logger         logger.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentService tasks.CommentService, logger logger.Logger) CommentHandler {
	return &commentHandler{commentService: commentService, logger: logger}
}

// List returns comments, optionally of a single task
func (handler *commentHandler) List(ctx *gin.Context) {
	taskID, err := queryID(ctx, "task")
	if err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	list, err := handler.commentService.List(ctx.Request.Context(), taskID)
	if err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	resp := make([]CommentResponse, 0, len(list))
	for _, c := range list {
		resp = append(resp, NewCommentResponse(c))
	}
	ctx.JSON(http.StatusOK, resp)
}

// Create adds a comment authored by the caller
func (handler *commentHandler) Create(ctx *gin.Context) {
	var req CommentCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	comment, err := handler.commentService.Create(ctx.Request.Context(), currentUser(ctx).ID, *req.Task, req.Text)
	if err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	ctx.JSON(http.StatusCreated, NewCommentResponse(comment))
}
