//go:build integration
// +build integration

package app

import (
	"context"
	"testing"
	"time"

	"github.com/ShiroyamaY/tms/internal/domain/tasks"
	"github.com/ShiroyamaY/tms/internal/infrastructure/persistence"
	"github.com/ShiroyamaY/tms/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_TaskAssigned(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	alice := persistence.CreateTestUser(t, services.DBContext, "alice")
	task := persistence.CreateTestTask(t, services.DBContext, alice, "Deploy")

	require.True(t, services.NotificationService.SendTaskAssigned(ctx, task.ID))
	require.Len(t, services.Mailer.sent, 1)

	msg := services.Mailer.sent[0]
	assert.Equal(t, []string{"alice@example.com"}, msg.To)
	assert.Equal(t, "You have been assigned a task: Deploy", msg.Subject)
	assert.Contains(t, msg.HTML, "Deploy")
	assert.Contains(t, msg.Text, `You have been assigned the task "Deploy".`)

	assert.False(t, services.NotificationService.SendTaskAssigned(ctx, 999))
	assert.Len(t, services.Mailer.sent, 1)
}

func TestNotificationService_TaskCommented(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	alice := persistence.CreateTestUser(t, services.DBContext, "alice")
	bob := persistence.CreateTestUser(t, services.DBContext, "bob1")
	task := persistence.CreateTestTask(t, services.DBContext, alice, "Review")

	byBob, err := services.CommentService.Create(ctx, bob.ID, task.ID, "please check")
	require.NoError(t, err)
	byAlice, err := services.CommentService.Create(ctx, alice.ID, task.ID, "done")
	require.NoError(t, err)

	require.True(t, services.NotificationService.SendTaskCommented(ctx, byBob.ID))
	require.Len(t, services.Mailer.sent, 1)
	msg := services.Mailer.sent[0]
	assert.Equal(t, []string{"alice@example.com"}, msg.To)
	assert.Equal(t, "New comment on your task: Review", msg.Subject)
	assert.Contains(t, msg.Text, "bob1 commented")
	assert.Contains(t, msg.Text, "please check")

	// the assignee is not told about their own comment
	assert.False(t, services.NotificationService.SendTaskCommented(ctx, byAlice.ID))
	assert.Len(t, services.Mailer.sent, 1)
}

func TestNotificationService_TaskCompleted(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	alice := persistence.CreateTestUser(t, services.DBContext, "alice")
	bob := persistence.CreateTestUser(t, services.DBContext, "bob1")
	task := persistence.CreateTestTask(t, services.DBContext, alice, "Ship")

	require.True(t, services.NotificationService.SendTaskCompleted(ctx, task.ID, []uint{alice.ID, bob.ID}))
	require.Len(t, services.Mailer.sent, 1)
	assert.ElementsMatch(t, []string{"alice@example.com", "bob1@example.com"}, services.Mailer.sent[0].To)
	assert.Equal(t, "Task completed: Ship", services.Mailer.sent[0].Subject)

	assert.False(t, services.NotificationService.SendTaskCompleted(ctx, task.ID, []uint{4040}))
	assert.Len(t, services.Mailer.sent, 1)
}

func TestNotificationService_MailerFailure(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	alice := persistence.CreateTestUser(t, services.DBContext, "alice")
	task := persistence.CreateTestTask(t, services.DBContext, alice, "Deploy")
	services.Mailer.err = assert.AnError

	assert.False(t, services.NotificationService.SendTaskAssigned(context.Background(), task.ID))
}

func TestNotificationService_TopTasksReport(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	db := services.DBContext

	// nothing logged yet
	assert.False(t, services.NotificationService.SendTopTasksReport(ctx))

	alice := persistence.CreateTestUser(t, db, "alice")
	bob := persistence.CreateTestUser(t, db, "bob1")
	first := persistence.CreateTestTask(t, db, alice, "First")
	second := persistence.CreateTestTask(t, db, bob, "Second")

	start, _ := tasks.PreviousMonthRange(time.Now())
	persistence.CreateDateLog(t, db, alice.ID, first.ID, start.AddDate(0, 0, 3), 120)
	persistence.CreateDateLog(t, db, bob.ID, second.ID, start.AddDate(0, 0, 4), 45)
	// current month logs are not part of the report
	persistence.CreateDateLog(t, db, bob.ID, second.ID, time.Now(), 500)

	require.True(t, services.NotificationService.SendTopTasksReport(ctx))
	require.Len(t, services.Mailer.sent, 1)

	msg := services.Mailer.sent[0]
	assert.ElementsMatch(t, []string{"alice@example.com", "bob1@example.com"}, msg.To)
	assert.Equal(t, "Top tasks by logged time", msg.Subject)
	assert.Contains(t, msg.Text, "1. First - 120 min")
	assert.Contains(t, msg.Text, "2. Second - 45 min")
}
