//go:build integration
// +build integration

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/ShiroyamaY/tms/internal/domain/tasks"
	"github.com/ShiroyamaY/tms/internal/pkg/config"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskSqliteRepository_CRUD(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)
	owner := CreateTestUser(t, ctx, "owner")
	task := CreateTestTask(t, ctx, owner, "Write report")

	fetched, err := ctx.TaskRepo.GetByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, tasks.StatusOpen, fetched.Status)

	fetched.Status = tasks.StatusInProgress
	require.NoError(t, ctx.TaskRepo.Update(context.Background(), fetched))

	updated, err := ctx.TaskRepo.GetByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, tasks.StatusInProgress, updated.Status)
	assert.False(t, updated.UpdatedAt.Before(task.UpdatedAt))

	_, err = ctx.TaskRepo.GetByID(context.Background(), 9999)
	assert.ErrorIs(t, err, tasks.ErrTaskNotFound)
}

func TestTaskSqliteRepository_ListFilters(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)
	alice := CreateTestUser(t, ctx, "alice")
	bob := CreateTestUser(t, ctx, "bob1")

	t1 := CreateTestTask(t, ctx, alice, "Fix Login bug")
	t2 := CreateTestTask(t, ctx, bob, "Write docs")
	CreateTestTask(t, ctx, alice, "Deploy")

	CreateDateLog(t, ctx, alice.ID, t1.ID, time.Now(), 30)
	CreateDateLog(t, ctx, bob.ID, t1.ID, time.Now(), 45)

	all, err := ctx.TaskRepo.List(context.Background(), &tasks.TaskQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 75, all[0].TotalMinutes)
	assert.Equal(t, 0, all[1].TotalMinutes)

	byAssignee, err := ctx.TaskRepo.List(context.Background(), &tasks.TaskQuery{AssigneeID: &bob.ID})
	require.NoError(t, err)
	require.Len(t, byAssignee, 1)
	assert.Equal(t, t2.ID, byAssignee[0].ID)

	bySearch, err := ctx.TaskRepo.List(context.Background(), &tasks.TaskQuery{Search: "login"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, t1.ID, bySearch[0].ID)

	byStatus, err := ctx.TaskRepo.List(context.Background(), &tasks.TaskQuery{Status: tasks.StatusCompleted})
	require.NoError(t, err)
	assert.Empty(t, byStatus)

	_, err = ctx.TaskRepo.List(context.Background(), &tasks.TaskQuery{Status: "nope"})
	assert.Error(t, err)
}

func TestTaskSqliteRepository_DeleteCascades(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)
	owner := CreateTestUser(t, ctx, "owner")
	task := CreateTestTask(t, ctx, owner, "Temporary")
	keep := CreateTestTask(t, ctx, owner, "Keep")

	require.NoError(t, ctx.CommentRepo.Create(context.Background(), &tasks.Comment{Text: "hi", TaskID: task.ID, AuthorID: owner.ID}))
	require.NoError(t, ctx.CommentRepo.Create(context.Background(), &tasks.Comment{Text: "stay", TaskID: keep.ID, AuthorID: owner.ID}))
	CreateDateLog(t, ctx, owner.ID, task.ID, time.Now(), 10)
	require.NoError(t, ctx.AttachmentRepo.Create(context.Background(), &tasks.Attachment{TaskID: task.ID, ObjectName: "tasks/1/x-a.txt", Status: tasks.AttachmentPending}))

	require.NoError(t, ctx.TaskRepo.DeleteByID(context.Background(), task.ID))

	comments, err := ctx.CommentRepo.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "stay", comments[0].Text)

	logs, err := ctx.TimeLogRepo.List(context.Background(), &tasks.TimeLogQuery{TaskID: &task.ID})
	require.NoError(t, err)
	assert.Empty(t, logs)

	attachments, err := ctx.AttachmentRepo.List(context.Background(), &task.ID)
	require.NoError(t, err)
	assert.Empty(t, attachments)

	assert.ErrorIs(t, ctx.TaskRepo.DeleteByID(context.Background(), task.ID), tasks.ErrTaskNotFound)
}

func TestTaskSqliteRepository_TopByLoggedMinutes(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)
	alice := CreateTestUser(t, ctx, "alice")
	bob := CreateTestUser(t, ctx, "bob1")

	start, end := tasks.PreviousMonthRange(time.Now())
	inside := start.Add(48 * time.Hour)
	outside := end.Add(48 * time.Hour)

	big := CreateTestTask(t, ctx, alice, "Big")
	small := CreateTestTask(t, ctx, alice, "Small")
	other := CreateTestTask(t, ctx, alice, "Other user")
	late := CreateTestTask(t, ctx, alice, "Outside window")

	CreateDateLog(t, ctx, alice.ID, big.ID, inside, 120)
	CreateDateLog(t, ctx, alice.ID, big.ID, inside, 60)
	CreateDateLog(t, ctx, alice.ID, small.ID, inside, 30)
	CreateDateLog(t, ctx, bob.ID, other.ID, inside, 500)
	CreateDateLog(t, ctx, alice.ID, late.ID, outside, 999)

	timerStart := inside.Add(time.Hour)
	timerEnd := timerStart.Add(15 * time.Minute)
	minutes := 15
	require.NoError(t, ctx.TimeLogRepo.Create(context.Background(), &tasks.TimeLog{
		UserID: alice.ID, TaskID: small.ID, StartTime: &timerStart, EndTime: &timerEnd, DurationMinutes: &minutes,
	}))

	top, err := ctx.TaskRepo.TopByLoggedMinutes(context.Background(), &tasks.TopTasksQuery{UserID: &alice.ID, Start: start, End: end})
	require.NoError(t, err)

	want := []*tasks.TaskSummary{
		{ID: big.ID, Title: "Big", TotalMinutes: 180},
		{ID: small.ID, Title: "Small", TotalMinutes: 45},
	}
	if diff := cmp.Diff(want, top); diff != "" {
		t.Errorf("top tasks mismatch (-want +got):\n%s", diff)
	}

	everyone, err := ctx.TaskRepo.TopByLoggedMinutes(context.Background(), &tasks.TopTasksQuery{Start: start, End: end})
	require.NoError(t, err)
	require.Len(t, everyone, 3)
	assert.Equal(t, other.ID, everyone[0].ID)
}
