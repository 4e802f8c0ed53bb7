package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/ShiroyamaY/tms/internal/infrastructure/persistence"
	"github.com/ShiroyamaY/tms/internal/pkg/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newMigrateCmd() *cobra.Command {
	var plan bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadToolConfig(validateDatabase)
			if err != nil {
				return err
			}
			log, err := setupLogger(&cfg.Logger)
			if err != nil {
				return err
			}

			db, err := openDatabase(cfg, log)
			if err != nil {
				return err
			}
			defer func() {
				if err := persistence.CloseDB(db); err != nil {
					log.Warn("Failed to close database: ", err)
				}
			}()

			if plan {
				return planMigrations(cmd.Context(), db, log, cmd.OutOrStdout())
			}
			return applyMigrations(cmd.Context(), db, log)
		},
	}
	cmd.Flags().BoolVar(&plan, "plan", false, "list pending migrations without applying them")
	return cmd
}

// planMigrations reports the migrations the database has not seen, printing them to out when set
func planMigrations(ctx context.Context, db *gorm.DB, log logger.Logger, out io.Writer) error {
	pending, err := persistence.NewMigrator(db, log).Pending(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pending migrations: %w", err)
	}

	if len(pending) == 0 {
		log.Info("No pending migrations")
	}
	for _, mig := range pending {
		log.Info("Pending migration ", mig.Version, "_", mig.Name)
		if out != nil {
			fmt.Fprintf(out, "%s_%s\n", mig.Version, mig.Name)
		}
	}
	return nil
}

func applyMigrations(ctx context.Context, db *gorm.DB, log logger.Logger) error {
	n, err := persistence.NewMigrator(db, log).Apply(ctx)
	if err != nil {
		return err
	}
	log.Info(fmt.Sprintf("Applied %d migrations", n))
	return nil
}
