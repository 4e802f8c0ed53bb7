//go:build integration
// +build integration

package app

import (
	"context"
	"testing"
	"time"

	"github.com/ShiroyamaY/tms/internal/domain/tasks"
	"github.com/ShiroyamaY/tms/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeeder_RequiresPrerequisites(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	_, err := services.Seeder.GenerateTasks(ctx, 5)
	assert.ErrorIs(t, err, ErrNoUsers)

	_, err = services.Seeder.GenerateTimeLogs(ctx, 5)
	assert.ErrorIs(t, err, ErrNoUsersOrTasks)

	_, err = services.Seeder.GenerateUsers(ctx, 2)
	require.NoError(t, err)
	_, err = services.Seeder.GenerateTimeLogs(ctx, 5)
	assert.ErrorIs(t, err, ErrNoUsersOrTasks)
}

func TestSeeder_Generate(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	db := services.DBContext

	n, err := services.Seeder.GenerateUsers(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	list, err := db.UserRepo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 5)

	// every seeded account shares the known password
	_, err = services.UserService.ObtainToken(ctx, list[0].Username, "password123")
	require.NoError(t, err)

	n, err = services.Seeder.GenerateTasks(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	taskList, err := db.TaskRepo.ListAll(ctx, 0)
	require.NoError(t, err)
	require.Len(t, taskList, 8)
	for _, task := range taskList {
		assert.Equal(t, tasks.StatusOpen, task.Status)
		assert.NotZero(t, task.AssigneeID)
	}

	n, err = services.Seeder.GenerateTimeLogs(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, 20, n)

	logs, err := db.TimeLogRepo.List(ctx, &tasks.TimeLogQuery{})
	require.NoError(t, err)
	require.Len(t, logs, 20)

	oldest := time.Now().UTC().AddDate(0, 0, -61)
	for _, log := range logs {
		require.NotNil(t, log.Date)
		assert.True(t, log.Date.After(oldest))
		assert.Contains(t, []int{30, 60, 90, 120}, *log.DurationMinutes)
	}
}

func TestSeeder_ZeroCount(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)

	n, err := services.Seeder.GenerateUsers(context.Background(), 0)
	require.NoError(t, err)
	assert.Zero(t, n)
}
