// Package startup runs the ordered container start sequence: every step must
// succeed before the next one starts, and the last step serves until shutdown.
package startup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ShiroyamaY/tms/internal/pkg/logger"
)

// Step names of the default pipeline
const (
	StepPrivileges    = "privileges"
	StepCollectStatic = "collectstatic"
	StepMigratePlan   = "migrate-plan"
	StepMigrate       = "migrate"
	StepSearchIndex   = "search-index"
	StepServe         = "serve"
)

// ErrRunningAsRoot is returned by the privileges step for uid 0
var ErrRunningAsRoot = errors.New("refusing to run as root; set server.allow_root to override")

// Step is one named unit of the start sequence
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// Pipeline runs steps strictly in order and stops at the first failure
type Pipeline struct {
	steps  []Step
	logger logger.Logger
}

// NewPipeline creates a pipeline of steps
func NewPipeline(logger logger.Logger, steps ...Step) (*Pipeline, error) {
	seen := make(map[string]bool, len(steps))
	for _, s := range steps {
		if s.Name == "" || s.Run == nil {
			return nil, fmt.Errorf("startup step needs a name and a run function")
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("duplicate startup step %q", s.Name)
		}
		seen[s.Name] = true
	}
	return &Pipeline{steps: steps, logger: logger}, nil
}

// Steps returns a copy of the steps in execution order
func (p *Pipeline) Steps() []Step {
	return append([]Step(nil), p.steps...)
}

// Names lists the steps in execution order
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name
	}
	return names
}

// Run executes every step. Later steps never run once one fails.
func (p *Pipeline) Run(ctx context.Context) error {
	for i, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("startup interrupted before step %q: %w", step.Name, err)
		}

		p.logger.Info(fmt.Sprintf("[%d/%d] Running %s", i+1, len(p.steps), step.Name))
		started := time.Now()
		if err := step.Run(ctx); err != nil {
			p.logger.Error(fmt.Sprintf("Startup step %s failed: %v", step.Name, err))
			return fmt.Errorf("startup step %q failed: %w", step.Name, err)
		}
		p.logger.Info(fmt.Sprintf("Step %s finished in %s", step.Name, time.Since(started).Round(time.Millisecond)))
	}
	return nil
}

// Privileges refuses to continue when uid reports 0, unless allowRoot is set
func Privileges(uid func() int, allowRoot bool) Step {
	return Step{
		Name: StepPrivileges,
		Run: func(context.Context) error {
			if uid() == 0 && !allowRoot {
				return ErrRunningAsRoot
			}
			return nil
		},
	}
}
