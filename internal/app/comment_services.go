package app

import (
	"context"

	"github.com/ShiroyamaY/tms/internal/domain/notifications"
	"github.com/ShiroyamaY/tms/internal/domain/search"
	"github.com/ShiroyamaY/tms/internal/domain/tasks"
	"github.com/ShiroyamaY/tms/internal/pkg/logger"
)

// commentService implements the CommentService interface
type commentService struct {
	commentRepo tasks.CommentRepository
	taskRepo    tasks.TaskRepository
	indexer     search.Indexer
	notifier    notifications.Notifier
	logger      logger.Logger
}

// NewCommentService creates a new instance of CommentService
func NewCommentService(
	commentRepo tasks.CommentRepository,
	taskRepo tasks.TaskRepository,
	indexer search.Indexer,
	notifier notifications.Notifier,
	logger logger.Logger,
) (tasks.CommentService, error) {
	return &commentService{
		commentRepo: commentRepo,
		taskRepo:    taskRepo,
		indexer:     indexer,
		notifier:    notifier,
		logger:      logger,
	}, nil
}

func (s *commentService) List(ctx context.Context, taskID *uint) ([]*tasks.Comment, error) {
	return s.commentRepo.List(ctx, taskID)
}

// Create stores the comment, indexes it and tells the task's assignee
func (s *commentService) Create(ctx context.Context, authorID, taskID uint, text string) (*tasks.Comment, error) {
	comment := &tasks.Comment{Text: text, TaskID: taskID, AuthorID: authorID}
	if err := comment.Validate(); err != nil {
		return nil, err
	}
	if _, err := requireTask(ctx, s.taskRepo, "task", taskID); err != nil {
		return nil, err
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	if err := s.indexer.IndexComment(ctx, comment); err != nil {
		s.logger.Error("Failed to index comment ", comment.ID, ": ", err)
	}
	s.notifier.TaskCommented(comment.ID)
	return comment, nil
}
