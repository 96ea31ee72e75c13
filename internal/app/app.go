// Package app wires the store, ledger, and managed services (CLIP HTTP,
// z2m southbound, mDNS advertisement) into a single runnable application.
package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/z2hue/bridge/internal/config"
)

// App is the top-level application container, providing lifecycle
// management and dependency injection over Services.
type App struct {
	cfg      *config.Config
	services *Services
	ctx      context.Context
	cancel   context.CancelFunc
}

// New creates an App with every service wired but not started.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	runCtx, cancel := context.WithCancel(ctx)

	services, err := NewServices(runCtx, cfg)
	if err != nil {
		cancel()
		return nil, err
	}

	return &App{cfg: cfg, services: services, ctx: runCtx, cancel: cancel}, nil
}

// Start brings up every managed service.
func (a *App) Start() error {
	if err := a.services.Start(a.ctx); err != nil {
		return err
	}
	log.Info().Msg("z2hue bridge running")
	return nil
}

// Stop gracefully shuts down every managed service and persists final
// state.
func (a *App) Stop() error {
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GetShutdownTimeout())
	defer cancel()
	err := a.services.Stop(shutdownCtx)
	a.cancel()
	return err
}

// Wait blocks until the application's context is canceled.
func (a *App) Wait() {
	<-a.ctx.Done()
}

// SignalContext returns a context canceled on SIGINT or SIGTERM.
func SignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Warn().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	return ctx
}
