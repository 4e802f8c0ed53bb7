package v1

import (
	"errors"
	"fmt"
	"net"

	"github.com/ShiroyamaY/tms/internal/pkg/logger"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health service name reported next to the empty overall name
const ServiceName = "tms"

// HealthServer exposes the standard gRPC health protocol for the HTTP server's readiness
type HealthServer struct {
	grpcServer *grpc.Server
	health     *health.Server
	logger     logger.Logger
}

// NewHealthServer creates a health server that reports NOT_SERVING until SetServing(true)
func NewHealthServer(logger logger.Logger) (*HealthServer, error) {
	grpcServer := grpc.NewServer()
	h := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, h)

	// Enable reflection for grpcurl
	reflection.Register(grpcServer)

	s := &HealthServer{grpcServer: grpcServer, health: h, logger: logger}
	s.SetServing(false)
	return s, nil
}

// SetServing switches both the overall and the tms service status
func (s *HealthServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	s.logger.Debug("Health status set to ", status.String())
}

// Serve blocks serving health checks on lis until Stop is called
func (s *HealthServer) Serve(lis net.Listener) error {
	s.logger.Info("Use 'grpcurl -plaintext ", lis.Addr().String(), " grpc.health.v1.Health/Check' to probe health")
	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("gRPC health server failed: %w", err)
	}
	return nil
}

// Stop reports NOT_SERVING to watchers and stops the server
func (s *HealthServer) Stop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
