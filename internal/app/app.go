// Package app wires configuration, logging, services and HTTP transport
// into a runnable application.
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
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"leadscli/internal/config"
	apierrors "leadscli/internal/errors"
	"leadscli/internal/infrastructure"
	custommiddleware "leadscli/internal/middleware"
	"leadscli/internal/services"
	handlers "leadscli/internal/transport/http"
)

// Version is the service version reported by the health endpoint.
const Version = "1.0.0"

// Application is the composed service: configuration, logger, metrics, the
// lead service with its session store, and the HTTP server.
type Application struct {
	Config  *config.Config
	Logger  *slog.Logger
	Router  *chi.Mux
	Server  *http.Server
	Store   *services.Store
	Metrics *infrastructure.Metrics
}

// NewApplication creates a new application instance with all dependencies
// wired.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := infrastructure.NewLogger(cfg.Logging)
	logger.Info("application starting",
		slog.String("version", Version),
		slog.Int("port", cfg.Server.Port))

	metrics := infrastructure.NewMetrics()
	store := services.NewStore(cfg.Processing.SessionTTL)
	leadService := services.NewLeadService(logger, metrics, cfg.Processing.Workers)

	app := &Application{
		Config:  cfg,
		Logger:  logger,
		Store:   store,
		Metrics: metrics,
	}
	app.Router = app.setupRouter(leadService)
	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return app, nil
}

// setupRouter builds the chi router with middleware and routes.
func (app *Application) setupRouter(leadService *services.LeadService) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.StructuredLogger(app.Logger))
	r.Use(custommiddleware.Recoverer(app.Logger))

	errorHandler := apierrors.NewErrorHandler(app.Logger)
	leadsHandler := handlers.NewLeadsHandler(
		leadService, app.Store, app.Logger, errorHandler,
		app.Config.Processing.MaxUploadBytes)
	healthHandler := handlers.NewHealthHandler(Version)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		if app.Config.Security.RateLimit.Enabled {
			limiter := custommiddleware.NewRateLimiter(
				app.Config.Security.RateLimit.RPS,
				app.Config.Security.RateLimit.Burst,
				app.Logger)
			r.Use(limiter.Handler)
		}
		r.Mount("/leads", leadsHandler.Routes())
	})

	r.Get("/healthz", healthHandler.Health)
	r.Method(http.MethodGet, "/metrics", app.Metrics.Handler())

	return r
}

// Run starts the HTTP server and blocks until shutdown or failure.
func (app *Application) Run() error {
	errCh := make(chan error, 1)
	go func() {
		app.Logger.Info("server listening", slog.String("addr", app.Server.Addr))
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		app.Logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer cancel()
	if err := app.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	app.Logger.Info("server stopped")
	return nil
}
