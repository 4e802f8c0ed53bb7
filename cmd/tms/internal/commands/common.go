package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/ShiroyamaY/tms/internal/pkg/config"
	"github.com/ShiroyamaY/tms/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// serverFlags are the overrides accepted by start and serve
type serverFlags struct {
	workers  int
	bind     string
	timeout  int
	logLevel string
	env      []string
}

func (f *serverFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.workers, "workers", 0, "maximum number of concurrently handled requests")
	cmd.Flags().StringVar(&f.bind, "bind", "", "listen address host:port")
	cmd.Flags().IntVar(&f.timeout, "timeout", 0, "per-request timeout in seconds")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warning, error, critical)")
	cmd.Flags().StringArrayVar(&f.env, "env", nil, "set KEY=VALUE in the environment before loading configuration (repeatable)")
}

// applyEnv exports every KEY=VALUE pair
func applyEnv(pairs []string) error {
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return fmt.Errorf("invalid --env value %q, expected KEY=VALUE", pair)
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}
	return nil
}

// apply copies the flags that were given onto cfg
func (f *serverFlags) apply(cmd *cobra.Command, cfg *config.AppConfig) {
	if cmd.Flags().Changed("workers") {
		cfg.Server.Workers = f.workers
	}
	if cmd.Flags().Changed("bind") {
		cfg.Server.Bind = f.bind
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Server.Timeout = f.timeout
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logger.LogLevel = f.logLevel
	}
}

// loadServerConfig applies --env, loads and overrides the configuration and validates all of it
func loadServerConfig(cmd *cobra.Command, flags *serverFlags) (*config.AppConfig, error) {
	if err := applyEnv(flags.env); err != nil {
		return nil, err
	}

	cfg, err := config.Load(config.ResolvePath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}
	flags.apply(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadToolConfig loads the configuration for maintenance commands, validating only the blocks they touch
func loadToolConfig(validate ...func(cfg *config.AppConfig) error) (*config.AppConfig, error) {
	cfg, err := config.Load(config.ResolvePath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	checks := append([]func(cfg *config.AppConfig) error{
		func(cfg *config.AppConfig) error { return cfg.Logger.Validate() },
	}, validate...)
	for _, check := range checks {
		if err := check(cfg); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}
	return cfg, nil
}

func validateDatabase(cfg *config.AppConfig) error { return cfg.Database.Validate() }
func validateSearch(cfg *config.AppConfig) error   { return cfg.Search.Validate() }
func validateMail(cfg *config.AppConfig) error     { return cfg.Mail.Validate() }
func validateAuth(cfg *config.AppConfig) error     { return cfg.Auth.Validate() }

func setupLogger(settings *config.LoggerSettings) (logger.Logger, error) {
	if err := logger.InitLogger(settings); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	loggerInstance, err := logger.GetLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to get logger instance: %w", err)
	}

	return loggerInstance, nil
}
