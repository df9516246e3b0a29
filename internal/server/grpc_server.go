package server

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/oggyb/muzz-web/internal/config"
)

// Registrar attaches one service's handlers to the gRPC server.
type Registrar interface {
	Register(s *grpc.Server)
}

// NewGRPCServer builds the internal gRPC server with every registrar's
// services plus the standard health service and reflection.
func NewGRPCServer(registrars ...Registrar) (*grpc.Server, *health.Server) {
	grpcServer := grpc.NewServer()

	// register all services
	for _, r := range registrars {
		r.Register(grpcServer)
	}

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, hs)

	// enable reflection for easier debugging with grpcurl
	reflection.Register(grpcServer)

	return grpcServer, hs
}

// ServeGRPC listens on GRPC_HOST:GRPC_PORT and blocks until ctx is done,
// then stops the server gracefully.
func ServeGRPC(ctx context.Context, cfg *config.Config, grpcServer *grpc.Server, hs *health.Server) error {
	addr := net.JoinHostPort(cfg.GRPC.Host, cfg.GRPC.Port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	go func() {
		<-ctx.Done()
		hs.Shutdown()
		grpcServer.GracefulStop()
	}()

	return grpcServer.Serve(lis)
}
