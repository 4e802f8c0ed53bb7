package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/ShiroyamaY/tms/internal/infrastructure/persistence/models"
	"github.com/ShiroyamaY/tms/internal/pkg/logger"

	"gorm.io/gorm"
)

// Migration is one versioned schema change
type Migration struct {
	Version string
	Name    string
	Up      func(tx *gorm.DB) error
}

func createTable(model interface{}) func(tx *gorm.DB) error {
	return func(tx *gorm.DB) error {
		if tx.Migrator().HasTable(model) {
			return nil
		}
		return tx.Migrator().CreateTable(model)
	}
}

// Migrations is the schema history compiled into the binary, oldest first
var Migrations = []Migration{
	{Version: "0001", Name: "create_users", Up: createTable(&models.UserModel{})},
	{Version: "0002", Name: "create_tasks", Up: createTable(&models.TaskModel{})},
	{Version: "0003", Name: "create_comments", Up: createTable(&models.CommentModel{})},
	{Version: "0004", Name: "create_time_logs", Up: createTable(&models.TimeLogModel{})},
	{Version: "0005", Name: "create_attachments", Up: createTable(&models.AttachmentModel{})},
	{Version: "0006", Name: "time_logs_user_task_index", Up: func(tx *gorm.DB) error {
		return tx.Exec("CREATE INDEX IF NOT EXISTS idx_time_logs_user_task ON time_logs (user_id, task_id)").Error
	}},
}

// Migrator applies Migrations and records them in schema_migrations
type Migrator struct {
	db         *gorm.DB
	logger     logger.Logger
	migrations []Migration
}

// NewMigrator creates a Migrator for the built-in migrations
func NewMigrator(db *gorm.DB, logger logger.Logger) *Migrator {
	return NewMigratorFor(db, logger, Migrations)
}

// NewMigratorFor creates a Migrator for an explicit migration list
func NewMigratorFor(db *gorm.DB, logger logger.Logger, migrations []Migration) *Migrator {
	return &Migrator{db: db, logger: logger, migrations: migrations}
}

func (m *Migrator) applied(ctx context.Context) (map[string]bool, error) {
	if err := m.db.WithContext(ctx).AutoMigrate(&models.SchemaMigrationModel{}); err != nil {
		return nil, fmt.Errorf("failed to prepare schema_migrations: %w", err)
	}

	var rows []models.SchemaMigrationModel
	if err := m.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read schema_migrations: %w", err)
	}

	done := make(map[string]bool, len(rows))
	for _, r := range rows {
		done[r.Version] = true
	}
	return done, nil
}

// Pending lists migrations not yet recorded as applied
func (m *Migrator) Pending(ctx context.Context) ([]Migration, error) {
	done, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}

	var pending []Migration
	for _, mig := range m.migrations {
		if !done[mig.Version] {
			pending = append(pending, mig)
		}
	}
	return pending, nil
}

// Apply runs every pending migration in its own transaction and returns how many ran
func (m *Migrator) Apply(ctx context.Context) (int, error) {
	pending, err := m.Pending(ctx)
	if err != nil {
		return 0, err
	}

	for i, mig := range pending {
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := mig.Up(tx); err != nil {
				return err
			}
			return tx.Create(&models.SchemaMigrationModel{
				Version:   mig.Version,
				Name:      mig.Name,
				AppliedAt: time.Now().UTC(),
			}).Error
		})
		if err != nil {
			return i, fmt.Errorf("migration %s_%s failed: %w", mig.Version, mig.Name, err)
		}
		m.logger.Info("Applied migration ", mig.Version, "_", mig.Name)
	}

	if len(pending) == 0 {
		m.logger.Info("No migrations to apply")
	}
	return len(pending), nil
}
