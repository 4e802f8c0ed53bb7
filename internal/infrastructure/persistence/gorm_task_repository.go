package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ShiroyamaY/tms/internal/domain/tasks"
	"github.com/ShiroyamaY/tms/internal/infrastructure/persistence/models"
	"github.com/ShiroyamaY/tms/internal/pkg/logger"

	"gorm.io/gorm"
)

// rangeCondition matches time logs fully inside a window, timer or date based
const rangeCondition = "((time_logs.start_time >= ? AND time_logs.end_time <= ?) OR (time_logs.date >= ? AND time_logs.date <= ?))"

type taskSummaryRow struct {
	ID           uint
	Title        string
	TotalMinutes int
}

func (r taskSummaryRow) toDomain() *tasks.TaskSummary {
	return &tasks.TaskSummary{ID: r.ID, Title: r.Title, TotalMinutes: r.TotalMinutes}
}

type gormTaskRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormTaskRepository creates a new GORM-based TaskRepository implementation
func NewGormTaskRepository(db *gorm.DB, logger logger.Logger) (tasks.TaskRepository, error) {
	return &gormTaskRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormTaskRepository) Create(ctx context.Context, task *tasks.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.TaskModel{}
	model.FromDomain(task)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	*task = *model.ToDomain()
	r.logger.Info("Created task with id ", task.ID)
	return nil
}

func (r *gormTaskRepository) CreateBatch(ctx context.Context, list []*tasks.Task) error {
	if len(list) == 0 {
		return nil
	}

	modelList := make([]*models.TaskModel, len(list))
	for i, t := range list {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("validation error: %w", err)
		}
		modelList[i] = &models.TaskModel{}
		modelList[i].FromDomain(t)
	}

	if err := r.db.WithContext(ctx).CreateInBatches(modelList, 1000).Error; err != nil {
		return fmt.Errorf("failed to create tasks: %w", err)
	}

	for i, m := range modelList {
		*list[i] = *m.ToDomain()
	}
	r.logger.Info("Created ", len(list), " tasks")
	return nil
}

func (r *gormTaskRepository) GetByID(ctx context.Context, id uint) (*tasks.Task, error) {
	var model models.TaskModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("task with ID %d: %w", id, tasks.ErrTaskNotFound)
		}
		return nil, fmt.Errorf("failed to fetch task: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormTaskRepository) List(ctx context.Context, query *tasks.TaskQuery) ([]*tasks.TaskSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query parameters: %w", err)
	}

	dbQuery := r.db.WithContext(ctx).
		Model(&models.TaskModel{}).
		Select("tasks.id, tasks.title, COALESCE((SELECT SUM(time_logs.duration_minutes) FROM time_logs WHERE time_logs.task_id = tasks.id), 0) AS total_minutes")

	if query.AssigneeID != nil {
		dbQuery = dbQuery.Where("tasks.assignee_id = ?", *query.AssigneeID)
	}
	if query.Status != "" {
		dbQuery = dbQuery.Where("tasks.status = ?", string(query.Status))
	}
	if query.Search != "" {
		dbQuery = dbQuery.Where("LOWER(tasks.title) LIKE ?", "%"+strings.ToLower(query.Search)+"%")
	}

	var rows []taskSummaryRow
	if err := dbQuery.Order("tasks.id").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	out := make([]*tasks.TaskSummary, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *gormTaskRepository) ListAll(ctx context.Context, limit int) ([]*tasks.Task, error) {
	dbQuery := r.db.WithContext(ctx).Order("id")
	if limit > 0 {
		dbQuery = dbQuery.Limit(limit)
	}

	var modelList []*models.TaskModel
	if err := dbQuery.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}

	out := make([]*tasks.Task, len(modelList))
	for i, m := range modelList {
		out[i] = m.ToDomain()
	}
	return out, nil
}

func (r *gormTaskRepository) Update(ctx context.Context, task *tasks.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.TaskModel{}
	model.FromDomain(task)

	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	task.UpdatedAt = model.UpdatedAt
	r.logger.Info("Updated task with id ", task.ID)
	return nil
}

func (r *gormTaskRepository) DeleteByID(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dependent := range []interface{}{&models.CommentModel{}, &models.TimeLogModel{}, &models.AttachmentModel{}} {
			if err := tx.Where("task_id = ?", id).Delete(dependent).Error; err != nil {
				return err
			}
		}

		res := tx.Where("id = ?", id).Delete(&models.TaskModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("task with ID %d: %w", id, tasks.ErrTaskNotFound)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, tasks.ErrTaskNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	r.logger.Info("Deleted task with id ", id)
	return nil
}

func (r *gormTaskRepository) TopByLoggedMinutes(ctx context.Context, query *tasks.TopTasksQuery) ([]*tasks.TaskSummary, error) {
	limit := query.Limit
	if limit <= 0 || limit > tasks.TopTasksLimit {
		limit = tasks.TopTasksLimit
	}

	dbQuery := r.db.WithContext(ctx).
		Model(&models.TaskModel{}).
		Select("tasks.id, tasks.title, SUM(time_logs.duration_minutes) AS total_minutes").
		Joins("JOIN time_logs ON time_logs.task_id = tasks.id").
		Where(rangeCondition, query.Start, query.End, query.Start, query.End)

	if query.UserID != nil {
		dbQuery = dbQuery.Where("time_logs.user_id = ?", *query.UserID)
	}

	var rows []taskSummaryRow
	err := dbQuery.
		Group("tasks.id, tasks.title").
		Having("SUM(time_logs.duration_minutes) > 0").
		Order("total_minutes DESC, tasks.id").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank tasks: %w", err)
	}

	out := make([]*tasks.TaskSummary, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}
