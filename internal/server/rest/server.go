// Package rest serves the JSON-over-HTTP surface of the authentication
// service: GET /, POST /register, POST /signin and POST /validate.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/kvauth/internal/logging"
	"github.com/dmitrijs2005/kvauth/internal/server/metrics"
	"github.com/dmitrijs2005/kvauth/internal/server/services"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 5 * time.Second
)

type HTTPServer struct {
	address string
	users   *services.UserService
	logger  logging.Logger
	metrics *metrics.Metrics
}

// NewHTTPServer constructs the server. m may be nil, in which case
// /metrics is not served.
func NewHTTPServer(a string, l logging.Logger, us *services.UserService, m *metrics.Metrics) *HTTPServer {
	return &HTTPServer{
		address: a,
		users:   us,
		logger:  l.With("module", "http_server"),
		metrics: m,
	}
}

// Handler returns the routed handler with middleware applied.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	s.handle(mux, "GET /{$}", s.root)
	s.handle(mux, "POST /register", s.register)
	s.handle(mux, "POST /signin", s.signin)
	s.handle(mux, "POST /validate", s.validate)

	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	return s.requestID(s.logRequests(mux))
}

// Run listens on the configured address and serves until ctx is done.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *HTTPServer) serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
