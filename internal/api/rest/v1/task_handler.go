package v1

import (
	"net/http"
	"strconv"

	"github.com/ShiroyamaY/tms/internal/domain/tasks"
	"github.com/ShiroyamaY/tms/internal/pkg/logger"
	"github.com/ShiroyamaY/tms/internal/pkg/validators"
	"github.com/gin-gonic/gin"
)

// TaskHandler defines the interface for handling task-related operations
type TaskHandler interface {
	Create(ctx *gin.Context)
	List(ctx *gin.Context)
	GetByID(ctx *gin.Context)
	Update(ctx *gin.Context)
	PartialUpdate(ctx *gin.Context)
	DeleteByID(ctx *gin.Context)
	Complete(ctx *gin.Context)
	AssignUser(ctx *gin.Context)
	TopLoggedLastMonth(ctx *gin.Context)
}

type taskHandler struct {
	taskService tasks.TaskService
	logger      logger.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService tasks.TaskService, logger logger.Logger) TaskHandler {
	return &taskHandler{taskService: taskService, logger: logger}
}

// pathID parses the :id segment; a malformed id is reported as not found
func pathID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || id == 0 {
		ctx.JSON(http.StatusNotFound, DetailResponse{Detail: msgNotFound})
		return 0, false
	}
	return uint(id), true
}

// queryID parses an optional numeric query parameter
func queryID(ctx *gin.Context, name string) (*uint, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, validators.NewFieldError(name, "Select a valid choice. That choice is not one of the available choices.")
	}
	v := uint(id)
	return &v, nil
}

// Create stores a task assigned to the caller
func (handler *taskHandler) Create(ctx *gin.Context) {
	var in tasks.TaskCreate
	if err := ctx.ShouldBindJSON(&in); err != nil {
		respondBindError(ctx, err)
		return
	}

	task, err := handler.taskService.Create(ctx.Request.Context(), currentUser(ctx).ID, &in)
	if err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	ctx.JSON(http.StatusCreated, NewTaskResponse(task))
}

// List returns tasks filtered by assignee, status and title search
func (handler *taskHandler) List(ctx *gin.Context) {
	assignee, err := queryID(ctx, "assignee")
	if err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	query := &tasks.TaskQuery{
		AssigneeID: assignee,
		Status:     tasks.Status(ctx.Query("status")),
		Search:     ctx.Query("search"),
	}
	list, err := handler.taskService.List(ctx.Request.Context(), query)
	if err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	resp := make([]TaskListItem, 0, len(list))
	for _, t := range list {
		resp = append(resp, TaskListItem{ID: t.ID, Title: t.Title, TotalLoggedMinutes: t.TotalMinutes})
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetByID returns a task with its comments
func (handler *taskHandler) GetByID(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	detail, err := handler.taskService.Get(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	resp := TaskDetailResponse{
		TaskUpdateResponse: NewTaskUpdateResponse(&detail.Task),
		Comments:           make([]CommentResponse, 0, len(detail.Comments)),
	}
	for _, c := range detail.Comments {
		resp.Comments = append(resp.Comments, NewCommentResponse(c))
	}
	ctx.JSON(http.StatusOK, resp)
}

// Update replaces a task
func (handler *taskHandler) Update(ctx *gin.Context) {
	handler.update(ctx, true)
}

// PartialUpdate changes the given fields of a task
func (handler *taskHandler) PartialUpdate(ctx *gin.Context) {
	handler.update(ctx, false)
}

func (handler *taskHandler) update(ctx *gin.Context, full bool) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var req TaskUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	if full {
		if err := req.ValidateFull(); err != nil {
			respondError(ctx, handler.logger, err)
			return
		}
	}

	task, err := handler.taskService.Update(ctx.Request.Context(), id, req.ToDomain())
	if err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, NewTaskUpdateResponse(task))
}

// DeleteByID removes a task and everything attached to it
func (handler *taskHandler) DeleteByID(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	if err := handler.taskService.Delete(ctx.Request.Context(), id); err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Complete marks a task completed
func (handler *taskHandler) Complete(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	task, err := handler.taskService.Complete(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, TaskCompleteResponse{ID: task.ID, Status: task.Status})
}

// AssignUser changes the assignee of a task
func (handler *taskHandler) AssignUser(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var req AssignUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	task, err := handler.taskService.AssignUser(ctx.Request.Context(), id, *req.Assignee)
	if err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, AssignUserResponse{ID: task.ID, Title: task.Title, Assignee: task.AssigneeID})
}

// TopLoggedLastMonth ranks tasks by minutes logged last month
func (handler *taskHandler) TopLoggedLastMonth(ctx *gin.Context) {
	list, err := handler.taskService.TopLoggedLastMonth(ctx.Request.Context(), currentUser(ctx).ID)
	if err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	resp := make([]TopTaskResponse, 0, len(list))
	for _, t := range list {
		resp = append(resp, TopTaskResponse{ID: t.ID, Title: t.Title, TotalMinutes: t.TotalMinutes})
	}
	ctx.JSON(http.StatusOK, resp)
}
