// Package server runs the HTTP API with a fixed number of request slots, a
// per-request deadline and graceful shutdown, plus the optional gRPC health endpoint.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	grpcv1 "github.com/ShiroyamaY/tms/internal/api/grpc/v1"
	"github.com/ShiroyamaY/tms/internal/pkg/config"
	"github.com/ShiroyamaY/tms/internal/pkg/logger"
)

// Response bodies written by the runner itself
const (
	TimeoutBody = `{"detail":"request timed out"}`
	BusyBody    = `{"detail":"server busy"}`
)

const defaultShutdownGrace = 15 * time.Second

// Runner serves handler on the configured bind address until its context ends
type Runner struct {
	settings *config.ServerSettings
	handler  http.Handler
	health   *grpcv1.HealthServer
	logger   logger.Logger

	timeout time.Duration
	grace   time.Duration

	readyOnce sync.Once
	ready     chan struct{}
	addr      net.Addr
}

// NewRunner creates a runner for handler. The gRPC health endpoint is enabled when HealthBind is set.
func NewRunner(settings *config.ServerSettings, handler http.Handler, logger logger.Logger) (*Runner, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	r := &Runner{
		settings: settings,
		handler:  handler,
		logger:   logger,
		timeout:  settings.RequestTimeout(),
		grace:    settings.ShutdownGrace,
		ready:    make(chan struct{}),
	}
	if r.grace <= 0 {
		r.grace = defaultShutdownGrace
	}

	if settings.HealthBind != "" {
		health, err := grpcv1.NewHealthServer(logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create health server: %w", err)
		}
		r.health = health
	}
	return r, nil
}

// Ready is closed once the HTTP listener accepts connections
func (r *Runner) Ready() <-chan struct{} {
	return r.ready
}

// Addr returns the bound HTTP address, nil before Ready
func (r *Runner) Addr() net.Addr {
	select {
	case <-r.ready:
		return r.addr
	default:
		return nil
	}
}

// Handler wraps the API handler with the request slots and the deadline
func (r *Runner) Handler() http.Handler {
	return withTimeout(limitConcurrency(r.handler, r.settings.Workers), r.timeout)
}

// Run listens and serves until ctx is done, then drains in-flight requests within the shutdown grace period
func (r *Runner) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", r.settings.Bind)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", r.settings.Bind, err)
	}

	errs := make(chan error, 2)

	if r.health != nil {
		healthLis, err := net.Listen("tcp", r.settings.HealthBind)
		if err != nil {
			_ = lis.Close()
			return fmt.Errorf("failed to listen on %s: %w", r.settings.HealthBind, err)
		}
		go func() {
			if err := r.health.Serve(healthLis); err != nil {
				errs <- err
			}
		}()
	}

	srv := &http.Server{
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attack
	}

	go func() {
		r.logger.Info(fmt.Sprintf("Listening at: http://%s (%d workers, %s timeout)", lis.Addr(), r.settings.Workers, r.timeout))
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- fmt.Errorf("server failed: %w", err)
		}
	}()

	r.readyOnce.Do(func() {
		r.addr = lis.Addr()
		close(r.ready)
	})
	if r.health != nil {
		r.health.SetServing(true)
	}

	var runErr error
	select {
	case <-ctx.Done():
		r.logger.Info("Shutdown requested, draining connections")
	case runErr = <-errs:
	}

	if r.health != nil {
		r.health.SetServing(false)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), r.grace)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("server forced to shutdown: %w", err))
	}
	if r.health != nil {
		r.health.Stop()
	}

	if runErr == nil {
		r.logger.Info("Server stopped gracefully")
	}
	return runErr
}

// withTimeout answers 503 with TimeoutBody when h runs past d
func withTimeout(h http.Handler, d time.Duration) http.Handler {
	th := http.TimeoutHandler(h, d, TimeoutBody)
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		th.ServeHTTP(&timeoutWriter{ResponseWriter: w}, req)
	})
}

// timeoutWriter labels the bare 503 written by http.TimeoutHandler as JSON.
// Responses from the inner handler keep the headers it set.
type timeoutWriter struct {
	http.ResponseWriter
}

func (w *timeoutWriter) WriteHeader(code int) {
	if code == http.StatusServiceUnavailable && w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.ResponseWriter.WriteHeader(code)
}

// limitConcurrency lets at most n requests run h at once; waiting requests give up when their context ends
func limitConcurrency(h http.Handler, n int) http.Handler {
	slots := make(chan struct{}, n)
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		select {
		case slots <- struct{}{}:
			defer func() { <-slots }()
			h.ServeHTTP(w, req)
		case <-req.Context().Done():
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(BusyBody))
		}
	})
}
