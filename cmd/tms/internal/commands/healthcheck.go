package commands

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/ShiroyamaY/tms/internal/pkg/config"

	"github.com/spf13/cobra"
)

const healthcheckTimeout = 3 * time.Second

func newHealthcheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "healthcheck",
		Short: "Request /health on the configured bind address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadToolConfig(func(cfg *config.AppConfig) error { return cfg.Server.Validate() })
			if err != nil {
				return err
			}
			return checkHealth(cmd.Context(), cfg.Server.Bind)
		},
	}
}

// checkHealth requests /health on bind, dialling loopback when bind is a wildcard address
func checkHealth(ctx context.Context, bind string) error {
	host, port, err := net.SplitHostPort(bind)
	if err != nil {
		return fmt.Errorf("invalid bind address %q: %w", bind, err)
	}
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "127.0.0.1"
	}

	ctx, cancel := context.WithTimeout(ctx, healthcheckTimeout)
	defer cancel()

	url := "http://" + net.JoinHostPort(host, port) + "/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed: %s returned %d", url, res.StatusCode)
	}
	return nil
}
