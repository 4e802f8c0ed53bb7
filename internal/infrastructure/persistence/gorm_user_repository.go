package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/ShiroyamaY/tms/internal/domain/users"
	"github.com/ShiroyamaY/tms/internal/infrastructure/persistence/models"
	"github.com/ShiroyamaY/tms/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormUserRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormUserRepository creates a new GORM-based UserRepository implementation
func NewGormUserRepository(db *gorm.DB, logger logger.Logger) (users.UserRepository, error) {
	return &gormUserRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormUserRepository) Create(ctx context.Context, user *users.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.UserModel{}
	model.FromDomain(user)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.ID = model.ID
	user.CreatedAt = model.CreatedAt
	r.logger.Info("Created user with id ", user.ID)
	return nil
}

func (r *gormUserRepository) CreateBatch(ctx context.Context, list []*users.User) error {
	if len(list) == 0 {
		return nil
	}

	modelList := make([]*models.UserModel, len(list))
	for i, u := range list {
		modelList[i] = &models.UserModel{}
		modelList[i].FromDomain(u)
	}

	if err := r.db.WithContext(ctx).CreateInBatches(modelList, 1000).Error; err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}

	for i, m := range modelList {
		list[i].ID = m.ID
		list[i].CreatedAt = m.CreatedAt
	}
	r.logger.Info("Created ", len(list), " users")
	return nil
}

func (r *gormUserRepository) first(ctx context.Context, query string, arg interface{}) (*users.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, users.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormUserRepository) GetByID(ctx context.Context, id uint) (*users.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *gormUserRepository) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *gormUserRepository) exists(ctx context.Context, query string, arg interface{}) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.UserModel{}).Where(query, arg).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return count > 0, nil
}

func (r *gormUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", username)
}

func (r *gormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *gormUserRepository) List(ctx context.Context, limit int) ([]*users.User, error) {
	dbQuery := r.db.WithContext(ctx).Order("id")
	if limit > 0 {
		dbQuery = dbQuery.Limit(limit)
	}
	return r.find(dbQuery)
}

func (r *gormUserRepository) ListByIDs(ctx context.Context, ids []uint) ([]*users.User, error) {
	if len(ids) == 0 {
		return []*users.User{}, nil
	}
	return r.find(r.db.WithContext(ctx).Where("id IN ?", ids).Order("id"))
}

func (r *gormUserRepository) find(dbQuery *gorm.DB) ([]*users.User, error) {
	var modelList []*models.UserModel
	if err := dbQuery.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	domainList := make([]*users.User, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}
	return domainList, nil
}
