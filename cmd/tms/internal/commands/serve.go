package commands

import (
	"context"
	"fmt"
	"time"

	v1 "github.com/ShiroyamaY/tms/internal/api/rest/v1"
	"github.com/ShiroyamaY/tms/internal/api/server"
	"github.com/ShiroyamaY/tms/internal/assets"
	"github.com/ShiroyamaY/tms/internal/infrastructure/jobs"
	"github.com/ShiroyamaY/tms/internal/pkg/config"
	"github.com/ShiroyamaY/tms/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// topTasksReportJob names the weekly report in the scheduler
const topTasksReportJob = "top-tasks-report"

func newServeCmd() *cobra.Command {
	flags := &serverFlags{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server without the startup steps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadServerConfig(cmd, flags)
			if err != nil {
				return err
			}
			log, err := setupLogger(&cfg.Logger)
			if err != nil {
				return err
			}

			a, err := newApplication(cmd.Context(), cfg, log)
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}
			defer closeApplication(a, log)

			return serve(cmd.Context(), cfg, a, log)
		},
	}
	flags.register(cmd)
	return cmd
}

// serve runs the API, the notification workers and the scheduler until ctx is done
func serve(ctx context.Context, cfg *config.AppConfig, a *application, log logger.Logger) error {
	metrics, err := v1.NewMetrics()
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	router := v1.NewRouter(a.services, v1.RouterOptions{
		StaticRoot:     cfg.Static.Root,
		StaticPrefix:   cfg.Static.URLPrefix,
		OpenAPI:        assets.OpenAPI,
		WebhookToken:   cfg.Storage.WebhookToken,
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
		Metrics:        metrics,
	}, log)

	runner, err := server.NewRunner(&cfg.Server, router, log)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// jobs outlive ctx so queued mail drains after the listener closes
	a.dispatcher.Start(context.WithoutCancel(ctx))

	var scheduler *jobs.Scheduler
	if cfg.Scheduler.Enabled {
		scheduler = jobs.NewScheduler(log)
		if err := scheduler.Add(topTasksReportJob, cfg.Scheduler.TopTasksReport, a.notifier.TopTasksReport); err != nil {
			return err
		}
		scheduler.Start()
	}

	runErr := runner.Run(ctx)

	grace := cfg.Server.ShutdownGrace
	if grace <= 0 {
		grace = 15 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	if scheduler != nil {
		if err := scheduler.Stop(shutdownCtx); err != nil {
			log.Warn("Scheduler did not stop in time: ", err)
		}
	}
	if err := a.dispatcher.Stop(shutdownCtx); err != nil {
		log.Warn("Job workers did not drain in time: ", err)
	}

	if runErr != nil {
		return runErr
	}
	log.Info("Server stopped gracefully")
	return nil
}

func closeApplication(a *application, log logger.Logger) {
	if err := a.close(); err != nil {
		log.Warn("Failed to close database: ", err)
	}
}
