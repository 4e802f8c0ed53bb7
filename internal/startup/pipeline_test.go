//go:build unit
// +build unit

package startup

import (
	"context"
	"errors"
	"testing"

	"github.com/ShiroyamaY/tms/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordStep(name string, calls *[]string, err error) Step {
	return Step{Name: name, Run: func(context.Context) error {
		*calls = append(*calls, name)
		return err
	}}
}

func TestPipeline_RunsInOrder(t *testing.T) {
	var calls []string
	p, err := NewPipeline(testutil.SetupTestLogger(t),
		recordStep(StepCollectStatic, &calls, nil),
		recordStep(StepMigrate, &calls, nil),
		recordStep(StepSearchIndex, &calls, nil),
		recordStep(StepServe, &calls, nil),
	)
	require.NoError(t, err)

	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, []string{StepCollectStatic, StepMigrate, StepSearchIndex, StepServe}, calls)
	assert.Equal(t, calls, p.Names())
}

func TestPipeline_StopsAtFirstFailure(t *testing.T) {
	var calls []string
	migrateErr := errors.New("relation already exists")
	p, err := NewPipeline(testutil.SetupTestLogger(t),
		recordStep(StepCollectStatic, &calls, nil),
		recordStep(StepMigrate, &calls, migrateErr),
		recordStep(StepSearchIndex, &calls, nil),
		recordStep(StepServe, &calls, nil),
	)
	require.NoError(t, err)

	err = p.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, migrateErr)
	assert.EqualError(t, err, `startup step "migrate" failed: relation already exists`)
	assert.Equal(t, []string{StepCollectStatic, StepMigrate}, calls)
}

func TestPipeline_StopsWhenCanceled(t *testing.T) {
	var calls []string
	p, err := NewPipeline(testutil.SetupTestLogger(t), recordStep(StepServe, &calls, nil))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, p.Run(ctx), context.Canceled)
	assert.Empty(t, calls)
}

func TestNewPipeline_InvalidSteps(t *testing.T) {
	log := testutil.SetupTestLogger(t)
	noop := func(context.Context) error { return nil }

	_, err := NewPipeline(log, Step{Name: "", Run: noop})
	assert.Error(t, err)

	_, err = NewPipeline(log, Step{Name: StepServe})
	assert.Error(t, err)

	_, err = NewPipeline(log, Step{Name: StepServe, Run: noop}, Step{Name: StepServe, Run: noop})
	assert.Error(t, err)
}

func TestPrivileges(t *testing.T) {
	tests := []struct {
		name      string
		uid       int
		allowRoot bool
		wantErr   bool
	}{
		{"unprivileged user", 1000, false, false},
		{"root refused", 0, false, true},
		{"root allowed", 0, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step := Privileges(func() int { return tt.uid }, tt.allowRoot)
			assert.Equal(t, StepPrivileges, step.Name)

			err := step.Run(context.Background())
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrRunningAsRoot)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPipeline_RootNeverServes(t *testing.T) {
	var calls []string
	p, err := NewPipeline(testutil.SetupTestLogger(t),
		Privileges(func() int { return 0 }, false),
		recordStep(StepServe, &calls, nil),
	)
	require.NoError(t, err)

	assert.ErrorIs(t, p.Run(context.Background()), ErrRunningAsRoot)
	assert.Empty(t, calls)
}
