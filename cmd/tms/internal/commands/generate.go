package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/ShiroyamaY/tms/internal/app"
	"github.com/ShiroyamaY/tms/internal/infrastructure/auth"
	"github.com/ShiroyamaY/tms/internal/infrastructure/persistence"

	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	var seed uint64

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Fill the database with fake data",
	}
	cmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "random seed, 0 picks one")

	kinds := []struct {
		use   string
		short string
		run   func(s *app.Seeder, ctx context.Context, n int) (int, error)
	}{
		{"users", "Create N users with the password password123", (*app.Seeder).GenerateUsers},
		{"tasks", "Create N tasks assigned to existing users", (*app.Seeder).GenerateTasks},
		{"timelogs", "Create N time logs for existing users and tasks", (*app.Seeder).GenerateTimeLogs},
	}
	for _, kind := range kinds {
		kind := kind
		cmd.AddCommand(&cobra.Command{
			Use:   kind.use + " N",
			Short: kind.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 0 {
					return fmt.Errorf("count must be a non-negative integer, got %q", args[0])
				}
				return runSeeder(cmd, seed, kind.use, func(s *app.Seeder) (int, error) {
					return kind.run(s, cmd.Context(), n)
				})
			},
		})
	}
	return cmd
}

func runSeeder(cmd *cobra.Command, seed uint64, kind string, fn func(s *app.Seeder) (int, error)) error {
	cfg, err := loadToolConfig(validateDatabase, validateAuth)
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
	hasher, err := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to create password hasher: %w", err)
	}

	seeder := app.NewSeeder(repos.users, repos.tasks, repos.timeLogs, hasher, seed, log)
	n, err := fn(seeder)
	if errors.Is(err, app.ErrNoUsers) || errors.Is(err, app.ErrNoUsersOrTasks) {
		cmd.Println(err.Error())
		return nil
	}
	if err != nil {
		return err
	}

	cmd.Printf("Generated %d %s\n", n, kind)
	return nil
}
