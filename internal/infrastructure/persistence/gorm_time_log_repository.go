package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ShiroyamaY/tms/internal/domain/tasks"
	"github.com/ShiroyamaY/tms/internal/infrastructure/persistence/models"
	"github.com/ShiroyamaY/tms/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormTimeLogRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormTimeLogRepository creates a new GORM-based TimeLogRepository implementation
func NewGormTimeLogRepository(db *gorm.DB, logger logger.Logger) (tasks.TimeLogRepository, error) {
	return &gormTimeLogRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormTimeLogRepository) Create(ctx context.Context, log *tasks.TimeLog) error {
	if err := log.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.TimeLogModel{}
	model.FromDomain(log)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create time log: %w", err)
	}

	*log = *model.ToDomain()
	r.logger.Info("Created time log with id ", log.ID, " for task ", log.TaskID)
	return nil
}

func (r *gormTimeLogRepository) CreateBatch(ctx context.Context, list []*tasks.TimeLog) error {
	if len(list) == 0 {
		return nil
	}

	modelList := make([]*models.TimeLogModel, len(list))
	for i, l := range list {
		modelList[i] = &models.TimeLogModel{}
		modelList[i].FromDomain(l)
	}

	if err := r.db.WithContext(ctx).CreateInBatches(modelList, 1000).Error; err != nil {
		return fmt.Errorf("failed to create time logs: %w", err)
	}

	for i, m := range modelList {
		*list[i] = *m.ToDomain()
	}
	r.logger.Info("Created ", len(list), " time logs")
	return nil
}

func (r *gormTimeLogRepository) GetByID(ctx context.Context, id uint) (*tasks.TimeLog, error) {
	var model models.TimeLogModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("time log with ID %d: %w", id, tasks.ErrTimeLogNotFound)
		}
		return nil, fmt.Errorf("failed to fetch time log: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormTimeLogRepository) List(ctx context.Context, query *tasks.TimeLogQuery) ([]*tasks.TimeLog, error) {
	dbQuery := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if query != nil && query.TaskID != nil {
		dbQuery = dbQuery.Where("task_id = ?", *query.TaskID)
	}
	if query != nil && query.UserID != nil {
		dbQuery = dbQuery.Where("user_id = ?", *query.UserID)
	}

	var modelList []*models.TimeLogModel
	if err := dbQuery.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch time logs: %w", err)
	}

	out := make([]*tasks.TimeLog, len(modelList))
	for i, m := range modelList {
		out[i] = m.ToDomain()
	}
	return out, nil
}

func (r *gormTimeLogRepository) Update(ctx context.Context, log *tasks.TimeLog) error {
	if err := log.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.TimeLogModel{}
	model.FromDomain(log)

	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to update time log: %w", err)
	}

	log.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *gormTimeLogRepository) DeleteByID(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.TimeLogModel{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete time log: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("time log with ID %d: %w", id, tasks.ErrTimeLogNotFound)
	}

	r.logger.Info("Deleted time log with id ", id)
	return nil
}

func (r *gormTimeLogRepository) FindActive(ctx context.Context, userID, taskID uint) (*tasks.TimeLog, error) {
	var model models.TimeLogModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND task_id = ? AND start_time IS NOT NULL AND end_time IS NULL", userID, taskID).
		Order("start_time DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tasks.ErrNoActiveTimer
		}
		return nil, fmt.Errorf("failed to fetch active timer: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormTimeLogRepository) CloseActive(ctx context.Context, userID uint, end time.Time) (int64, error) {
	var closed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var active []*models.TimeLogModel
		if err := tx.Where("user_id = ? AND start_time IS NOT NULL AND end_time IS NULL", userID).Find(&active).Error; err != nil {
			return err
		}

		for _, m := range active {
			log := m.ToDomain()
			stop := end.UTC()
			log.EndTime = &stop
			if d := log.CalculateDuration(); d != nil && *d >= 0 {
				log.DurationMinutes = d
			} else {
				zero := 0
				log.DurationMinutes = &zero
			}
			m.FromDomain(log)
			if err := tx.Save(m).Error; err != nil {
				return err
			}
			closed++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to close active timers: %w", err)
	}
	return closed, nil
}

func (r *gormTimeLogRepository) SumMinutes(ctx context.Context, userID uint, start, end time.Time) (int, error) {
	var total int
	err := r.db.WithContext(ctx).
		Model(&models.TimeLogModel{}).
		Select("COALESCE(SUM(time_logs.duration_minutes), 0)").
		Where("time_logs.user_id = ?", userID).
		Where(rangeCondition, start.UTC(), end.UTC(), start.UTC(), end.UTC()).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum time logs: %w", err)
	}
	return total, nil
}
