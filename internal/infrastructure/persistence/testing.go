//go:build integration
// +build integration

package persistence

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ShiroyamaY/tms/internal/domain/tasks"
	"github.com/ShiroyamaY/tms/internal/domain/users"
	"github.com/ShiroyamaY/tms/internal/pkg/config"
	"github.com/ShiroyamaY/tms/internal/pkg/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestContext holds test database and repositories
type TestContext struct {
	DB             *gorm.DB
	UserRepo       users.UserRepository
	TaskRepo       tasks.TaskRepository
	CommentRepo    tasks.CommentRepository
	TimeLogRepo    tasks.TimeLogRepository
	AttachmentRepo tasks.AttachmentRepository
}

// SetupTestDB initializes a migrated test database with automatic cleanup
func SetupTestDB(t *testing.T, dbType string) *TestContext {
	t.Helper()

	var settings config.DatabaseSettings
	cleanupFunc := func() {}

	switch dbType {
	case config.SqliteDbType:
		settings = config.DatabaseSettings{
			Type: config.SqliteDbType,
			DSN:  ":memory:",
		}

	case config.PostgresDbType:
		uniqueDBName := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
		settings = config.DatabaseSettings{
			Type: config.PostgresDbType,
			DSN:  "user=postgres password=postgres host=localhost port=5432 sslmode=disable",
			Name: uniqueDBName,
		}
		cleanupFunc = func() {
			adminDSN := "user=postgres password=postgres host=localhost port=5432 dbname=postgres sslmode=disable"
			_ = DropDatabase(adminDSN, uniqueDBName)
		}

	default:
		t.Fatalf("Unsupported database type: %s", dbType)
	}

	db, err := NewDBConnection(settings)
	require.NoError(t, err, "Failed to create database connection")

	t.Cleanup(func() {
		_ = CloseDB(db)
		cleanupFunc()
	})

	log := testutil.SetupTestLogger(t)

	_, err = NewMigrator(db, log).Apply(context.Background())
	require.NoError(t, err, "Failed to migrate schema")

	userRepo, err := NewGormUserRepository(db, log)
	require.NoError(t, err)
	taskRepo, err := NewGormTaskRepository(db, log)
	require.NoError(t, err)
	commentRepo, err := NewGormCommentRepository(db, log)
	require.NoError(t, err)
	timeLogRepo, err := NewGormTimeLogRepository(db, log)
	require.NoError(t, err)
	attachmentRepo, err := NewGormAttachmentRepository(db, log)
	require.NoError(t, err)

	return &TestContext{
		DB:             db,
		UserRepo:       userRepo,
		TaskRepo:       taskRepo,
		CommentRepo:    commentRepo,
		TimeLogRepo:    timeLogRepo,
		AttachmentRepo: attachmentRepo,
	}
}

// CreateTestUser stores a user with a unique username
func CreateTestUser(t *testing.T, ctx *TestContext, username string) *users.User {
	t.Helper()

	u := &users.User{
		Username:     username,
		Email:        username + "@example.com",
		FirstName:    "Test",
		LastName:     strings.ToUpper(username[:1]) + username[1:],
		PasswordHash: "hash",
	}
	require.NoError(t, ctx.UserRepo.Create(context.Background(), u))
	return u
}

// CreateTestTask stores an open task assigned to assignee
func CreateTestTask(t *testing.T, ctx *TestContext, assignee *users.User, title string) *tasks.Task {
	t.Helper()

	task := &tasks.Task{Title: title, Description: "description of " + title, Status: tasks.StatusOpen, AssigneeID: assignee.ID}
	require.NoError(t, ctx.TaskRepo.Create(context.Background(), task))
	return task
}

// CreateDateLog stores minutes logged on a date
func CreateDateLog(t *testing.T, ctx *TestContext, userID, taskID uint, date time.Time, minutes int) *tasks.TimeLog {
	t.Helper()

	d := date.UTC()
	log := &tasks.TimeLog{UserID: userID, TaskID: taskID, Date: &d, DurationMinutes: &minutes}
	require.NoError(t, ctx.TimeLogRepo.Create(context.Background(), log))
	return log
}
