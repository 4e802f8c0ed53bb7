//go:build integration
// +build integration

package persistence

import (
	"context"
	"testing"

	"github.com/ShiroyamaY/tms/internal/domain/users"
	"github.com/ShiroyamaY/tms/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserSqliteRepository_CreateAndGet(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)
	u := CreateTestUser(t, ctx, "alice")

	assert.NotZero(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	byID, err := ctx.UserRepo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	byName, err := ctx.UserRepo.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	_, err = ctx.UserRepo.GetByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, users.ErrUserNotFound)
}

func TestUserSqliteRepository_Exists(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)
	CreateTestUser(t, ctx, "alice")

	ok, err := ctx.UserRepo.ExistsByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ctx.UserRepo.ExistsByEmail(context.Background(), "ALICE@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ctx.UserRepo.ExistsByUsername(context.Background(), "bob")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserSqliteRepository_DuplicateUsername(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)
	CreateTestUser(t, ctx, "alice")

	dup := &users.User{Username: "alice", Email: "other@example.com", PasswordHash: "x"}
	assert.Error(t, ctx.UserRepo.Create(context.Background(), dup))
}

func TestUserSqliteRepository_ListAndBatch(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	batch := []*users.User{
		{Username: "user1", Email: "u1@example.com", PasswordHash: "x"},
		{Username: "user2", Email: "u2@example.com", PasswordHash: "x"},
		{Username: "user3", Email: "u3@example.com", PasswordHash: "x"},
	}
	require.NoError(t, ctx.UserRepo.CreateBatch(context.Background(), batch))
	for _, u := range batch {
		assert.NotZero(t, u.ID)
	}

	all, err := ctx.UserRepo.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	limited, err := ctx.UserRepo.List(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	picked, err := ctx.UserRepo.ListByIDs(context.Background(), []uint{batch[0].ID, batch[2].ID})
	require.NoError(t, err)
	require.Len(t, picked, 2)
	assert.Equal(t, "user3", picked[1].Username)
}
