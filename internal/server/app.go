// Package server wires configuration, storage, services and both transports
// into a runnable application and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/kvauth/internal/common"
	"github.com/dmitrijs2005/kvauth/internal/logging"
	"github.com/dmitrijs2005/kvauth/internal/server/auth"
	"github.com/dmitrijs2005/kvauth/internal/server/config"
	"github.com/dmitrijs2005/kvauth/internal/server/metrics"
	"github.com/dmitrijs2005/kvauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/kvauth/internal/server/rest"
	"github.com/dmitrijs2005/kvauth/internal/server/services"

	gs "github.com/dmitrijs2005/kvauth/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	store       *repomanager.Manager
	metrics     *metrics.Metrics
	userService *services.UserService
}

// NewApp builds the application from c. An invalid signing seed or an
// unreachable store is fatal.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.New(os.Stdout, c.LogLevel, c.LogFormat)

	if c.SigningSeed == "" {
		return nil, fmt.Errorf("%w: KVAUTH_SIGNING_SEED is not set", common.ErrSeed)
	}
	seed, err := auth.ParseSeed(c.SigningSeed)
	if err != nil {
		return nil, err
	}
	issuer, err := auth.NewTokenIssuer(seed, c.SigningKeyID, c.TokenValidityDuration)
	if err != nil {
		return nil, err
	}

	store, err := repomanager.New(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	accounts := services.NewAccountService(auth.NewBlake2bHasher(), issuer)
	us := services.NewUserService(store.Repository(), accounts, logger)

	return &App{
		config:      c,
		logger:      logger,
		store:       store,
		metrics:     metrics.New(),
		userService: us,
	}, nil
}

// initSignalHandler cancels the app on SIGINT, SIGTERM or SIGQUIT. The
// returned channel is closed once the handler has unsubscribed.
func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) <-chan struct{} {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
	return done
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.metrics)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := rest.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.userService, app.metrics)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves both transports until ctx is cancelled, a signal arrives or
// either server fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...",
		"store", app.config.StoreBackend,
		"key_id", app.config.SigningKeyID,
	)

	sigDone := app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
	cancelFunc()
	<-sigDone

	if err := app.store.Close(); err != nil {
		app.logger.Error(ctx, "store close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
