package commands

import (
	"errors"

	"github.com/ShiroyamaY/tms/internal/infrastructure/persistence"

	"github.com/spf13/cobra"
)

// ErrReportNotSent is returned when the top tasks report could not be delivered
var ErrReportNotSent = errors.New("top tasks report was not sent")

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Send reports on demand",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "top-tasks",
		Short: "Email every user the tasks with the most time logged last month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadToolConfig(validateDatabase, validateMail)
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

			repos, err := newRepositories(db, log)
			if err != nil {
				return err
			}
			service, err := newNotificationService(cfg, repos, log)
			if err != nil {
				return err
			}

			if !service.SendTopTasksReport(cmd.Context()) {
				return ErrReportNotSent
			}
			cmd.Println("Top tasks report sent")
			return nil
		},
	})
	return cmd
}
