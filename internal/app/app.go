package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"cleanse/internal/config"
	apierrors "cleanse/internal/errors"
	"cleanse/internal/exporter"
	"cleanse/internal/infrastructure"
	customMiddleware "cleanse/internal/middleware"
	"cleanse/internal/registry"
	"cleanse/internal/services"
	transport "cleanse/internal/transport/http"
)

// Version is the application version, overridable at build time.
var Version = "v1.0.0"

// Application wires configuration, observability, services and the HTTP
// server into one runnable unit.
type Application struct {
	Config          *config.Config
	Logger          *slog.Logger
	OTelProviders   *infrastructure.OTelProviders
	BusinessMetrics *infrastructure.BusinessMetrics
	Registry        *registry.Registry
	DatasetService  *services.DatasetService
	HealthService   *services.HealthService
	ErrorHandler    *apierrors.ErrorHandler
	Router          chi.Router
	Server          *http.Server
}

// NewApplication builds the full application from configuration.
func NewApplication(cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to prepare directories: %w", err)
	}

	providers, err := infrastructure.InitializeOTel(nil, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize opentelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	cache := registry.NewCache(cfg.Paths.CacheFile)
	if previous, err := cache.Load(); err != nil {
		logger.Warn("failed to load dataset metadata cache", slog.String("error", err.Error()))
	} else if len(previous) > 0 {
		// Rows are memory-only, so earlier datasets cannot be served again;
		// the cache exists to show what was processed before the restart.
		logger.Info("found metadata for previously processed datasets",
			slog.Int("count", len(previous)))
	}

	reg := registry.New(cache, logger)
	reports := exporter.NewReportWriter(cfg.Paths.ReportsDir, logger)

	a := &Application{
		Config:          cfg,
		Logger:          logger,
		OTelProviders:   providers,
		BusinessMetrics: metrics,
		Registry:        reg,
		DatasetService:  services.NewDatasetService(reg, reports, metrics, logger),
		HealthService:   services.NewHealthService(Version, reg, logger),
		ErrorHandler:    apierrors.NewErrorHandler(logger, false),
	}

	a.setupRouter()
	a.createServer()

	return a, nil
}

// setupRouter builds the middleware chain and mounts the API routes.
// Ordering: RequestID, OTel, Logger, Recoverer, SecurityHeaders, RateLimit.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)

	otelMiddleware := customMiddleware.NewOTelMiddleware(a.OTelProviders, a.BusinessMetrics)
	r.Use(otelMiddleware.Handler)

	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.RateLimit.RPS,
			a.Config.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		datasetHandler := transport.NewDatasetHandler(
			a.DatasetService, a.Config.Upload.MaxSizeBytes, a.Logger, a.ErrorHandler)
		r.Mount("/datasets", datasetHandler.Routes())

		healthHandler := transport.NewHealthHandler(a.HealthService, a.Logger)
		r.Mount("/health", healthHandler.Routes())
	})

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	// Prometheus endpoint stays outside the middleware chain.
	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         a.Config.Addr(),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start starts the HTTP server in the background. A server failure cancels
// the supplied context.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("version", Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	return nil
}

// Stop gracefully shuts down the server and the telemetry providers.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until interrupted.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
