package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/ShiroyamaY/tms/internal/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler triggers functions on cron schedules evaluated in UTC
type Scheduler struct {
	cron   *cron.Cron
	logger logger.Logger
}

// NewScheduler creates a scheduler using standard five-field cron expressions
func NewScheduler(logger logger.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cronLogger{logger}),
			cron.WithChain(cron.Recover(cronLogger{logger}), cron.SkipIfStillRunning(cronLogger{logger})),
		),
		logger: logger,
	}
}

// Add registers fn under name for schedule
func (s *Scheduler) Add(name, schedule string, fn func()) error {
	if _, err := s.cron.AddFunc(schedule, fn); err != nil {
		return fmt.Errorf("invalid schedule %q for %s: %w", schedule, name, err)
	}
	s.logger.Info("Scheduled ", name, " at ", schedule, " UTC")
	return nil
}

// Next returns the next activation time of every registered entry
func (s *Scheduler) Next() []time.Time {
	var next []time.Time
	for _, e := range s.cron.Entries() {
		next = append(next, e.Next)
	}
	return next
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs or ctx, whichever ends first
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger adapts logger.Logger to cron.Logger
type cronLogger struct {
	logger logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.With(keysAndValues...).Debug("cron: ", msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.With(keysAndValues...).Error("cron: ", msg, ": ", err)
}
