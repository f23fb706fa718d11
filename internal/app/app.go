// Package app wires configuration, adapters and usecases into the HTTP
// server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Abdurahmanit/skip2love/internal/adapter/http/handler"
	"github.com/Abdurahmanit/skip2love/internal/adapter/http/middleware"
	"github.com/Abdurahmanit/skip2love/internal/config"
	"github.com/Abdurahmanit/skip2love/internal/platform/logger"
	"github.com/Abdurahmanit/skip2love/internal/platform/metrics"
	"github.com/Abdurahmanit/skip2love/internal/platform/tracer"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	cfg     *config.Config
	log     *logger.Logger
	core    *Core
	tracer  *sdktrace.TracerProvider
	limiter *middleware.RateLimiter
	server  *http.Server
}

// NewLogger builds the process logger from cfg.
func NewLogger(cfg *config.Config) *logger.Logger {
	return logger.NewLogger(cfg.Logging())
}

func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	for _, w := range cfg.Warnings() {
		log.Warn("config: " + w)
	}

	tp := tracer.InitTracer(cfg.ServiceName, cfg.OTExporterOTLPEndpoint, log)
	m := metrics.NewMetricsManager("skip2love")

	core, err := NewCore(ctx, cfg, m, log)
	if err != nil {
		_ = tp.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to initialize core: %w", err)
	}

	limiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst, log)
	router := handler.NewRouter(&handler.RouterDeps{
		Auth:        core.Auth,
		Ads:         core.Ads,
		Profiles:    core.Profiles,
		Gate:        core.Gate,
		Metrics:     m,
		RateLimiter: limiter,
		Logger:      log,
	})

	return &App{
		cfg:     cfg,
		log:     log,
		core:    core,
		tracer:  tp,
		limiter: limiter,
		server:  newHTTPServer(":"+cfg.HTTPPort, router),
	}, nil
}

func newHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}
}

// Run serves HTTP until SIGINT/SIGTERM or ctx is done, then shuts down.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("HTTP server listening", zap.String("addr", a.server.Addr))
		errCh <- a.server.ListenAndServe()
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.log.Info("Shutdown signal received, shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("http server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.log.Error("HTTP server shutdown failed", zap.Error(err))
	}
	a.limiter.Stop()
	if err := a.core.Close(shutdownCtx); err != nil {
		a.log.Error("Closing core failed", zap.Error(err))
	}
	if err := a.tracer.Shutdown(shutdownCtx); err != nil {
		a.log.Error("Tracer shutdown failed", zap.Error(err))
	}
	_ = a.log.Sync()

	a.log.Info("Application shut down")
	return runErr
}
