// Package grpc is the one caller-facing seam the core exposes to the RPC
// surface that spec §1 explicitly treats as out of scope: a health check.
// Everything else an RPC facade would need (cluster manager business logic,
// request decoding, authentication) lives outside this module and calls
// into internal/core/resourcemanager directly, the way
// original_source/opendut-carl/src/actions/peers/list_peer_descriptors.rs
// calls resources_manager.resources(...) from the action layer.
package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/opendut/carl/internal/core/resourcemanager"
	"github.com/opendut/carl/pkg/mlog"
)

// Server is a grpc.Server exposing only the standard health-check service,
// reporting SERVING once the given Manager is live. Future RPC services
// (cluster manager, peer registration) register themselves on Server
// alongside the health service; this module defines none, by design.
type Server struct {
	grpc   *grpc.Server
	health *health.Server
	log    mlog.Logger
}

func NewServer(manager *resourcemanager.Manager, log mlog.Logger) *Server {
	if log == nil {
		log = mlog.NoOp()
	}

	healthServer := health.NewServer()
	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	if manager != nil {
		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	}

	return &Server{grpc: grpcServer, health: healthServer, log: log}
}

// Serve blocks accepting connections on lis until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.grpc.Serve(lis) }()

	select {
	case <-ctx.Done():
		s.health.Shutdown()
		s.grpc.GracefulStop()
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}
