package commands

import (
	"github.com/ShiroyamaY/tms/internal/domain/search"
	"github.com/ShiroyamaY/tms/internal/infrastructure/persistence"

	"github.com/spf13/cobra"
)

func newSearchIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search-index",
		Short: "Maintain the Elasticsearch indices",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create missing indices, waiting for the cluster to come up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSearchService(cmd, func(s search.SearchService) error {
				return s.Init(cmd.Context())
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rebuild",
		Short: "Drop and recreate the indices and load every task and comment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSearchService(cmd, func(s search.SearchService) error {
				return s.Rebuild(cmd.Context())
			})
		},
	})
	return cmd
}

func withSearchService(cmd *cobra.Command, fn func(s search.SearchService) error) error {
	cfg, err := loadToolConfig(validateDatabase, validateSearch)
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
	service, _, err := newSearchService(cfg, repos, log)
	if err != nil {
		return err
	}
	return fn(service)
}
