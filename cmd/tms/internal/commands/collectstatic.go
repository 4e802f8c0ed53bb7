package commands

import (
	"fmt"

	"github.com/ShiroyamaY/tms/internal/assets"
	"github.com/ShiroyamaY/tms/internal/infrastructure/staticfiles"
	"github.com/ShiroyamaY/tms/internal/pkg/config"
	"github.com/ShiroyamaY/tms/internal/pkg/logger"

	"github.com/spf13/cobra"
)

func newCollectStaticCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "collectstatic",
		Short: "Copy the bundled static assets into the static root",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadToolConfig()
			if err != nil {
				return err
			}
			log, err := setupLogger(&cfg.Logger)
			if err != nil {
				return err
			}
			return collectStatic(cfg, log)
		},
	}
}

func collectStatic(cfg *config.AppConfig, log logger.Logger) error {
	res, err := staticfiles.NewCollector(assets.Static(), cfg.Static.Root, log).Collect()
	if err != nil {
		return err
	}
	log.Info(fmt.Sprintf("%d static files copied to %s, %d unmodified", res.Copied, cfg.Static.Root, res.Unmodified))
	return nil
}
