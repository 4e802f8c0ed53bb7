//go:build unit
// +build unit

package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ShiroyamaY/tms/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_RunsQueuedJobs(t *testing.T) {
	d, err := NewDispatcher(2, 10, 1000, testutil.SetupTestLogger(t))
	require.NoError(t, err)
	d.Start(context.Background())

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		require.NoError(t, d.Enqueue(Job{Name: "count", Run: func(context.Context) bool {
			ran.Add(1)
			return true
		}}))
	}

	require.NoError(t, d.Stop(context.Background()))
	assert.Equal(t, int32(5), ran.Load())

	err = d.Enqueue(Job{Name: "late", Run: func(context.Context) bool { return true }})
	assert.ErrorIs(t, err, ErrStopped)
}

func TestDispatcher_QueueFull(t *testing.T) {
	d, err := NewDispatcher(1, 1, 1000, testutil.SetupTestLogger(t))
	require.NoError(t, err)

	// not started, so the single slot stays occupied
	require.NoError(t, d.Enqueue(Job{Name: "a", Run: func(context.Context) bool { return true }}))
	err = d.Enqueue(Job{Name: "b", Run: func(context.Context) bool { return true }})
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestDispatcher_RecoversPanics(t *testing.T) {
	d, err := NewDispatcher(1, 4, 1000, testutil.SetupTestLogger(t))
	require.NoError(t, err)
	d.Start(context.Background())

	var after atomic.Bool
	require.NoError(t, d.Enqueue(Job{Name: "boom", Run: func(context.Context) bool { panic("boom") }}))
	require.NoError(t, d.Enqueue(Job{Name: "after", Run: func(context.Context) bool {
		after.Store(true)
		return false
	}}))

	require.NoError(t, d.Stop(context.Background()))
	assert.True(t, after.Load())
}

func TestDispatcher_StopDeadlineCancelsJobs(t *testing.T) {
	d, err := NewDispatcher(1, 4, 1000, testutil.SetupTestLogger(t))
	require.NoError(t, err)
	d.Start(context.Background())

	started := make(chan struct{})
	var cancelled atomic.Bool
	require.NoError(t, d.Enqueue(Job{Name: "slow", Run: func(ctx context.Context) bool {
		close(started)
		<-ctx.Done()
		cancelled.Store(true)
		return false
	}}))
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err = d.Stop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, cancelled.Load())
}

func TestDispatcher_Throttles(t *testing.T) {
	d, err := NewDispatcher(3, 10, 20, testutil.SetupTestLogger(t))
	require.NoError(t, err)
	d.Start(context.Background())

	begin := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, d.Enqueue(Job{Name: "tick", Run: func(context.Context) bool { return true }}))
	}
	require.NoError(t, d.Stop(context.Background()))

	// burst of one, then 50ms per token
	assert.GreaterOrEqual(t, time.Since(begin), 150*time.Millisecond)
}

func TestNewDispatcher_InvalidArguments(t *testing.T) {
	logger := testutil.SetupTestLogger(t)

	_, err := NewDispatcher(0, 1, 1, logger)
	assert.Error(t, err)
	_, err = NewDispatcher(1, 0, 1, logger)
	assert.Error(t, err)
	_, err = NewDispatcher(1, 1, 0, logger)
	assert.Error(t, err)
}
