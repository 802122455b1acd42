// Package server initializes and runs the subscription token server.
// It opens and migrates the configured store, seeds the default tokens,
// and serves the HTTP API until a termination signal arrives.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/subcheck/internal/logging"
	"github.com/dmitrijs2005/subcheck/internal/server/config"
	"github.com/dmitrijs2005/subcheck/internal/server/httpapi"
	"github.com/dmitrijs2005/subcheck/internal/server/metrics"
	"github.com/dmitrijs2005/subcheck/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/subcheck/internal/server/services"
	"github.com/dmitrijs2005/subcheck/internal/server/tokens"
)

type App struct {
	config       *config.Config
	logger       logging.Logger
	repomanager  repomanager.RepositoryManager
	tokenService *services.TokenService
	metrics      *metrics.Metrics
}

// NewApp prepares the storage and seeds it. The HTTP listener is not
// started until Run.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, os.Stdout)
}

func newApp(ctx context.Context, c *config.Config, logOut io.Writer) (*App, error) {
	logger, err := logging.New(c.LogLevel, logOut)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	opts := repomanager.Options{Kind: c.Storage, DSN: c.DatabaseDSN, SQLitePath: c.SQLitePath}
	m, err := repomanager.Open(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	logger.Info(ctx, "Storage ready", "storage", opts.ResolveKind())

	mt := metrics.New()
	ts := services.NewTokenService(m, logger, mt)

	plan := tokens.NewSeedPlan(c.DefaultTokens, c.TokenTTLDays)
	if plan.TTLIgnored {
		logger.Warn(ctx, "Token TTL is not a positive number of days, default tokens will not expire",
			"value", c.TokenTTLDays)
	}
	if _, err := ts.Seed(ctx, plan); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("seed error: %w", err)
	}

	return &App{config: c, logger: logger, repomanager: m, tokenService: ts, metrics: mt}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) func() {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	done := make(chan struct{})
	go func() {
		select {
		case <-sigs:
			cancelFunc()
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(done)
	}
}

func (app *App) handler() http.Handler {
	return httpapi.NewRouter(app.tokenService, app.logger, httpapi.Options{
		AdminSecret:    []byte(app.config.AdminSecret),
		CheckRateLimit: app.config.CheckRateLimit,
		Metrics:        app.metrics.Handler(),
	})
}

// Run serves the HTTP API until ctx is cancelled or a termination signal
// arrives, then shuts down gracefully and closes the store.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	stop := app.initSignalHandler(cancelFunc)
	defer stop()

	defer func() {
		if err := app.repomanager.Close(); err != nil {
			app.logger.Error(ctx, "error closing storage", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting app...")

	if app.config.AdminSecret == "" {
		app.logger.Warn(ctx, "Admin secret is not configured, /add_token is disabled")
	}

	srv := httpapi.NewServer(app.config.HTTPAddr, app.handler(), app.logger)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("http server error: %w", err)
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}
