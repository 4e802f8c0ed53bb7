package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/ShiroyamaY/tms/internal/pkg/config"
	"github.com/ShiroyamaY/tms/internal/pkg/logger"
	"github.com/ShiroyamaY/tms/internal/startup"

	"github.com/spf13/cobra"
)

func newStartCmd() *cobra.Command {
	flags := &serverFlags{}
	var indexMode string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Collect static files, migrate, prepare the search index and serve",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadServerConfig(cmd, flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("index-mode") {
				cfg.Search.StartupMode = indexMode
				if err := cfg.Search.Validate(); err != nil {
					return fmt.Errorf("invalid configuration: %w", err)
				}
			}

			log, err := setupLogger(&cfg.Logger)
			if err != nil {
				return err
			}

			deps := &lazyApplication{cfg: cfg, logger: log}
			defer deps.close()

			pipeline, err := newStartPipeline(cfg, deps, os.Getuid, log)
			if err != nil {
				return err
			}
			return pipeline.Run(cmd.Context())
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&indexMode, "index-mode", "", "search index startup mode (init or rebuild)")
	return cmd
}

// lazyApplication defers connecting until the first step that needs the database
type lazyApplication struct {
	cfg    *config.AppConfig
	logger logger.Logger
	app    *application
}

func (l *lazyApplication) get(ctx context.Context) (*application, error) {
	if l.app != nil {
		return l.app, nil
	}
	a, err := newApplication(ctx, l.cfg, l.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	l.app = a
	return a, nil
}

func (l *lazyApplication) close() {
	if l.app != nil {
		closeApplication(l.app, l.logger)
	}
}

// newStartPipeline builds the ordered startup steps ending in the server
func newStartPipeline(cfg *config.AppConfig, deps *lazyApplication, uid func() int, log logger.Logger) (*startup.Pipeline, error) {
	return startup.NewPipeline(log,
		startup.Privileges(uid, cfg.Server.AllowRoot),
		startup.Step{Name: startup.StepCollectStatic, Run: func(context.Context) error {
			return collectStatic(cfg, log)
		}},
		startup.Step{Name: startup.StepMigratePlan, Run: func(ctx context.Context) error {
			a, err := deps.get(ctx)
			if err != nil {
				return err
			}
			return planMigrations(ctx, a.db, log, nil)
		}},
		startup.Step{Name: startup.StepMigrate, Run: func(ctx context.Context) error {
			a, err := deps.get(ctx)
			if err != nil {
				return err
			}
			return applyMigrations(ctx, a.db, log)
		}},
		startup.Step{Name: startup.StepSearchIndex, Run: func(ctx context.Context) error {
			a, err := deps.get(ctx)
			if err != nil {
				return err
			}
			if cfg.Search.StartupMode == config.SearchModeInit {
				return a.searchService.Init(ctx)
			}
			return a.searchService.Rebuild(ctx)
		}},
		startup.Step{Name: startup.StepServe, Run: func(ctx context.Context) error {
			a, err := deps.get(ctx)
			if err != nil {
				return err
			}
			return serve(ctx, cfg, a, log)
		}},
	)
}
