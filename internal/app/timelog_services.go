package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ShiroyamaY/tms/internal/domain/tasks"
	"github.com/ShiroyamaY/tms/internal/pkg/logger"
)

// timeLogService implements the TimeLogService interface
type timeLogService struct {
	timeLogRepo tasks.TimeLogRepository
	taskRepo    tasks.TaskRepository
	logger      logger.Logger
}

// NewTimeLogService creates a new instance of TimeLogService
func NewTimeLogService(timeLogRepo tasks.TimeLogRepository, taskRepo tasks.TaskRepository, logger logger.Logger) (tasks.TimeLogService, error) {
	return &timeLogService{
		timeLogRepo: timeLogRepo,
		taskRepo:    taskRepo,
		logger:      logger,
	}, nil
}

// StartTimer closes the user's running timers at start, then opens a timer on the task
func (s *timeLogService) StartTimer(ctx context.Context, userID, taskID uint, start time.Time) (*tasks.TimeLog, error) {
	if _, err := requireTask(ctx, s.taskRepo, "task", taskID); err != nil {
		return nil, err
	}

	closed, err := s.timeLogRepo.CloseActive(ctx, userID, start)
	if err != nil {
		return nil, fmt.Errorf("failed to stop running timers: %w", err)
	}
	if closed > 0 {
		s.logger.Info("Stopped ", closed, " running timers of user ", userID)
	}

	start = start.UTC()
	log := &tasks.TimeLog{UserID: userID, TaskID: taskID, StartTime: &start}
	if err := s.timeLogRepo.Create(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

// StopTimer closes the user's running timer on the task and stores its duration
func (s *timeLogService) StopTimer(ctx context.Context, userID, taskID uint, end time.Time) (*tasks.TimeLog, error) {
	if _, err := requireTask(ctx, s.taskRepo, "task", taskID); err != nil {
		return nil, err
	}

	log, err := s.timeLogRepo.FindActive(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if !end.After(*log.StartTime) {
		return nil, tasks.ErrInvalidDuration
	}

	end = end.UTC()
	log.EndTime = &end
	log.DurationMinutes = log.CalculateDuration()
	if err := s.timeLogRepo.Update(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

// LogDate records minutes spent by the user on a date
func (s *timeLogService) LogDate(ctx context.Context, userID uint, in *tasks.DateLog) (*tasks.TimeLog, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if _, err := requireTask(ctx, s.taskRepo, "task", in.TaskID); err != nil {
		return nil, err
	}

	date := in.Date.UTC()
	minutes := in.DurationMinutes
	log := &tasks.TimeLog{UserID: userID, TaskID: in.TaskID, Date: &date, DurationMinutes: &minutes}
	if err := s.timeLogRepo.Create(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

func (s *timeLogService) List(ctx context.Context, query *tasks.TimeLogQuery) ([]*tasks.TimeLog, error) {
	return s.timeLogRepo.List(ctx, query)
}

func (s *timeLogService) Delete(ctx context.Context, id uint) error {
	return s.timeLogRepo.DeleteByID(ctx, id)
}
