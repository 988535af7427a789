package grpc_server

import (
	"context"
	"net"
	"time"

	"github.com/waste3d/coursehub/internal/platform/logger"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health service key reported for the API.
const ServiceName = "coursehub.api"

// ProbeServer exposes the standard gRPC health protocol for orchestrators.
type ProbeServer struct {
	srv    *grpc.Server
	health *health.Server
	log    *logger.Logger
}

func NewProbeServer(log *logger.Logger) *ProbeServer {
	s := grpc.NewServer()
	h := health.NewServer()
	healthpb.RegisterHealthServer(s, h)
	reflection.Register(s)

	h.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return &ProbeServer{srv: s, health: h, log: log.With("component", "ProbeServer")}
}

func (s *ProbeServer) Serve(lis net.Listener) error {
	s.log.Info("grpc probe server listening", "addr", lis.Addr().String())
	return s.srv.Serve(lis)
}

func (s *ProbeServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Watch runs check every interval until ctx is done and mirrors its result
// into the health status.
func (s *ProbeServer) Watch(ctx context.Context, interval time.Duration, check func(context.Context) error) {
	probe := func() {
		cctx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()
		err := check(cctx)
		if err != nil {
			s.log.Warn("health check failed", "error", err)
		}
		s.SetServing(err == nil)
	}

	probe()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probe()
		}
	}
}

// Stop reports NOT_SERVING to watchers and drains in-flight calls.
func (s *ProbeServer) Stop() {
	s.health.Shutdown()
	s.srv.GracefulStop()
}
