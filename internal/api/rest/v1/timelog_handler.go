package v1

import (
	"net/http"
	"time"

	"github.com/ShiroyamaY/tms/internal/domain/tasks"
	"github.com/ShiroyamaY/tms/internal/pkg/logger"
	"github.com/gin-gonic/gin"
)

// TimeLogHandler defines the interface for handling time tracking operations
type TimeLogHandler interface {
	List(ctx *gin.Context)
	DeleteByID(ctx *gin.Context)
	StartTimer(ctx *gin.Context)
	StopTimer(ctx *gin.Context)
	LogDate(ctx *gin.Context)
}

type timeLogHandler struct {
	timeLogService tasks.TimeLogService
	logger         logger.Logger
	now            func() time.Time
}

// NewTimeLogHandler creates a new TimeLogHandler
func NewTimeLogHandler(timeLogService tasks.TimeLogService, logger logger.Logger) TimeLogHandler {
	return &timeLogHandler{timeLogService: timeLogService, logger: logger, now: time.Now}
}

// List returns time logs filtered by task and user
func (handler *timeLogHandler) List(ctx *gin.Context) {
	taskID, err := queryID(ctx, "task")
	if err != nil {
		respondError(ctx, handler.logger, err)
		return
	}
	userID, err := queryID(ctx, "user")
	if err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	list, err := handler.timeLogService.List(ctx.Request.Context(), &tasks.TimeLogQuery{TaskID: taskID, UserID: userID})
	if err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	resp := make([]TimeLogResponse, 0, len(list))
	for _, l := range list {
		resp = append(resp, NewTimeLogResponse(l))
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteByID removes a time log
func (handler *timeLogHandler) DeleteByID(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	if err := handler.timeLogService.Delete(ctx.Request.Context(), id); err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// StartTimer opens a timer for the caller on a task
func (handler *timeLogHandler) StartTimer(ctx *gin.Context) {
	var req TimerStartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	start := handler.now()
	if req.StartTime != nil {
		start = *req.StartTime
	}

	log, err := handler.timeLogService.StartTimer(ctx.Request.Context(), currentUser(ctx).ID, *req.Task, start)
	if err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	ctx.JSON(http.StatusCreated, TimerStartResponse{ID: log.ID, Task: log.TaskID, StartTime: log.StartTime})
}

// StopTimer closes the caller's running timer on a task
func (handler *timeLogHandler) StopTimer(ctx *gin.Context) {
	var req TimerStopRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	log, err := handler.timeLogService.StopTimer(ctx.Request.Context(), currentUser(ctx).ID, *req.Task, *req.EndTime)
	if err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, TimerStopResponse{ID: log.ID, Task: log.TaskID, DurationMinutes: log.DurationMinutes})
}

// LogDate records minutes the caller spent on a date
func (handler *timeLogHandler) LogDate(ctx *gin.Context) {
	var req LogDateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	in, err := req.ToDomain()
	if err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	log, err := handler.timeLogService.LogDate(ctx.Request.Context(), currentUser(ctx).ID, in)
	if err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	resp := LogDateResponse{Task: log.TaskID, Date: in.Date.Format(DateLayout), DurationMinutes: in.DurationMinutes}
	if log.DurationMinutes != nil {
		resp.DurationMinutes = *log.DurationMinutes
	}
	ctx.JSON(http.StatusCreated, resp)
}
