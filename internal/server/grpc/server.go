// Package grpc exposes the user service as kvauth.AuthService over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/kvauth/internal/api"
	"github.com/dmitrijs2005/kvauth/internal/logging"
	"github.com/dmitrijs2005/kvauth/internal/server/metrics"
	"github.com/dmitrijs2005/kvauth/internal/server/services"
	"google.golang.org/grpc"
)

type GRPCServer struct {
	address string
	users   *services.UserService
	logger  logging.Logger
	metrics *metrics.Metrics
}

var _ api.AuthServiceServer = (*GRPCServer)(nil)

// NewGRPCServer constructs the server. m may be nil.
func NewGRPCServer(a string, l logging.Logger, us *services.UserService, m *metrics.Metrics) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		users:   us,
		metrics: m,
	}
}

// newServer creates the grpc.Server with interceptors and the service
// registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	api.RegisterAuthServiceServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
