// Package grpc exposes the vault services over gRPC: session login, the token
// ledger, campaigns, proposals and the update log.
package grpc

import (
	"context"
	"net"

	"github.com/benbjohnson/clock"
	"github.com/dmitrijs2005/buidlvault/internal/api"
	"github.com/dmitrijs2005/buidlvault/internal/logging"
	"github.com/dmitrijs2005/buidlvault/internal/server/metrics"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Services is the set of business services the server delegates to.
type Services struct {
	Sessions  SessionService
	Tokens    TokenService
	Campaigns CampaignService
	Proposals ProposalService
	Updates   UpdateService
}

type GRPCServer struct {
	address  string
	logger   logging.Logger
	metrics  *metrics.Metrics
	services Services
	health   *health.Server
	clock    clock.Clock
}

func NewGRPCServer(address string, l logging.Logger, m *metrics.Metrics, s Services) *GRPCServer {
	return &GRPCServer{
		address:  address,
		logger:   l.With("module", "grpc_server"),
		metrics:  m,
		services: s,
		health:   health.NewServer(),
		clock:    clock.New(),
	}
}

// NewServer builds the grpc.Server with interceptors and every service
// registered.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(
		s.recoveryInterceptor,
		s.loggingInterceptor,
		s.accessTokenInterceptor,
	))
	srv := grpc.NewServer(opts...)

	api.RegisterSessionServiceServer(srv, s)
	api.RegisterVaultServiceServer(srv, s)
	healthpb.RegisterHealthServer(srv, s.health)

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(api.SessionServiceName, healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(api.VaultServiceName, healthpb.HealthCheckResponse_SERVING)
	return srv
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.NewServer()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	err := srv.Serve(lis)
	cancel()
	<-stopped
	return err
}

func (s *GRPCServer) Run(ctx context.Context) error {
	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}
