package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/LPTrade994/ebay-revenue-calculator/internal/config"
	"github.com/LPTrade994/ebay-revenue-calculator/internal/log"
	"github.com/LPTrade994/ebay-revenue-calculator/internal/metrics"
	"github.com/LPTrade994/ebay-revenue-calculator/internal/schedule"
	"github.com/LPTrade994/ebay-revenue-calculator/internal/server"
	"github.com/LPTrade994/ebay-revenue-calculator/internal/tracing"
)

// App wires configuration, the fee schedule and the servers together.
type App struct {
	config          *config.Config
	logger          *zap.Logger
	schedule        *schedule.Schedule
	httpServer      *server.Server
	metricsServer   *metrics.Server
	tracingShutdown func()
}

// New creates a new application instance. Loading the schedule is part of
// startup: without a schedule no calculation can proceed, so a load failure
// is fatal here rather than at request time.
func New(cfg *config.Config) (*App, error) {
	if err := log.Init(cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	ctx := context.Background()
	logger := log.L(ctx)

	logger.Info("Initializing fee calculator",
		zap.String("app_name", cfg.AppName),
		zap.String("http_address", cfg.Server.Address),
		zap.String("schedule_path", cfg.Schedule.Path))

	var tracingShutdown func()
	if cfg.Tracing.Enabled {
		tc := tracing.DefaultConfig()
		tc.ServiceName = cfg.AppName
		tc.Environment = cfg.Tracing.Environment
		tc.JaegerEndpoint = cfg.Tracing.JaegerEndpoint
		tc.SamplingRatio = cfg.Tracing.SamplingRatio
		shutdown, err := tracing.Init(tc, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
		tracingShutdown = shutdown
	}

	loader := schedule.NewLoader(cfg.Schedule.Path)
	sched, err := loader.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load fee schedule: %w", err)
	}

	app := &App{
		config:          cfg,
		logger:          logger,
		schedule:        sched,
		httpServer:      server.New(cfg, sched),
		tracingShutdown: tracingShutdown,
	}

	if cfg.Metrics.Enabled {
		app.metricsServer = metrics.NewServer(cfg.Metrics.Address, logger)
	}

	return app, nil
}

// Run starts the servers and blocks until the context is cancelled or a
// server fails.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("Starting fee calculator")

	errCh := make(chan error, 2)

	if a.metricsServer != nil {
		go func() {
			if err := a.metricsServer.Start(ctx); err != nil {
				errCh <- err
			}
		}()
	}

	go func() {
		if err := a.httpServer.Start(ctx); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down fee calculator")

	shutdownCtx, cancel := context.WithTimeout(ctx,
		time.Duration(a.config.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Failed to shut down HTTP server", zap.Error(err))
	}

	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("Failed to shut down metrics server", zap.Error(err))
		}
	}

	if a.tracingShutdown != nil {
		a.tracingShutdown()
	}

	a.logger.Info("Shutdown complete")
	return nil
}
