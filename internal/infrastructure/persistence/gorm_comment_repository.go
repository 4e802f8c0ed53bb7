package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/ShiroyamaY/tms/internal/domain/tasks"
	"github.com/ShiroyamaY/tms/internal/infrastructure/persistence/models"
	"github.com/ShiroyamaY/tms/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormCommentRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormCommentRepository creates a new GORM-based CommentRepository implementation
func NewGormCommentRepository(db *gorm.DB, logger logger.Logger) (tasks.CommentRepository, error) {
	return &gormCommentRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormCommentRepository) Create(ctx context.Context, comment *tasks.Comment) error {
	if err := comment.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.CommentModel{}
	model.FromDomain(comment)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	*comment = *model.ToDomain()
	r.logger.Info("Created comment with id ", comment.ID, " on task ", comment.TaskID)
	return nil
}

func (r *gormCommentRepository) GetByID(ctx context.Context, id uint) (*tasks.Comment, error) {
	var model models.CommentModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("comment with ID %d: %w", id, tasks.ErrCommentNotFound)
		}
		return nil, fmt.Errorf("failed to fetch comment: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormCommentRepository) List(ctx context.Context, taskID *uint) ([]*tasks.Comment, error) {
	dbQuery := r.db.WithContext(ctx).Order("id")
	if taskID != nil {
		dbQuery = dbQuery.Where("task_id = ?", *taskID)
	}
	return r.find(dbQuery)
}

func (r *gormCommentRepository) ListAll(ctx context.Context) ([]*tasks.Comment, error) {
	return r.find(r.db.WithContext(ctx).Order("id"))
}

func (r *gormCommentRepository) ListIDsByTask(ctx context.Context, taskID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&models.CommentModel{}).Where("task_id = ?", taskID).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch comment ids: %w", err)
	}
	return ids, nil
}

func (r *gormCommentRepository) find(dbQuery *gorm.DB) ([]*tasks.Comment, error) {
	var modelList []*models.CommentModel
	if err := dbQuery.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch comments: %w", err)
	}

	out := make([]*tasks.Comment, len(modelList))
	for i, m := range modelList {
		out[i] = m.ToDomain()
	}
	return out, nil
}
