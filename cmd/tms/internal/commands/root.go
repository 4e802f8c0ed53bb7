// Package commands implements the tms subcommands.
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the tms command with every subcommand registered
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tms",
		Short: "Task management service",
		Long: `tms runs the task management API and its maintenance tasks.

Every subcommand reads the YAML file named by CONFIG_PATH (default
configs/tms.yaml when present). Any key can be overridden with a TMS_
variable, e.g. TMS_SERVER_BIND. GUNICORN_BIND, GUNICORN_WORKERS and
GUNICORN_TIMEOUT are accepted as aliases for the server settings.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newStartCmd(),
		newServeCmd(),
		newMigrateCmd(),
		newCollectStaticCmd(),
		newSearchIndexCmd(),
		newGenerateCmd(),
		newReportCmd(),
		newHealthcheckCmd(),
	)
	return rootCmd
}
