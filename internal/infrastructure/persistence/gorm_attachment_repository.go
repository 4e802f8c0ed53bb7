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

type gormAttachmentRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormAttachmentRepository creates a new GORM-based AttachmentRepository implementation
func NewGormAttachmentRepository(db *gorm.DB, logger logger.Logger) (tasks.AttachmentRepository, error) {
	return &gormAttachmentRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormAttachmentRepository) Create(ctx context.Context, attachment *tasks.Attachment) error {
	if err := attachment.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.AttachmentModel{}
	model.FromDomain(attachment)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create attachment: %w", err)
	}

	*attachment = *model.ToDomain()
	r.logger.Info("Created attachment ", attachment.ObjectName, " with status ", attachment.Status)
	return nil
}

func (r *gormAttachmentRepository) Update(ctx context.Context, attachment *tasks.Attachment) error {
	model := &models.AttachmentModel{}
	model.FromDomain(attachment)

	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to update attachment: %w", err)
	}

	attachment.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *gormAttachmentRepository) GetByObjectName(ctx context.Context, objectName string) (*tasks.Attachment, error) {
	var model models.AttachmentModel
	if err := r.db.WithContext(ctx).Where("object_name = ?", objectName).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("attachment %s: %w", objectName, tasks.ErrAttachmentNotFound)
		}
		return nil, fmt.Errorf("failed to fetch attachment: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormAttachmentRepository) List(ctx context.Context, taskID *uint) ([]*tasks.Attachment, error) {
	dbQuery := r.db.WithContext(ctx).Order("id")
	if taskID != nil {
		dbQuery = dbQuery.Where("task_id = ?", *taskID)
	}

	var modelList []*models.AttachmentModel
	if err := dbQuery.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch attachments: %w", err)
	}

	out := make([]*tasks.Attachment, len(modelList))
	for i, m := range modelList {
		out[i] = m.ToDomain()
	}
	return out, nil
}

func (r *gormAttachmentRepository) ListObjectNamesByTask(ctx context.Context, taskID uint) ([]string, error) {
	var names []string
	if err := r.db.WithContext(ctx).Model(&models.AttachmentModel{}).Where("task_id = ?", taskID).Pluck("object_name", &names).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch attachment names: %w", err)
	}
	return names, nil
}
