package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/julienschmidt/httprouter"

	"sitekit/pkg/config"
	"sitekit/pkg/middleware"
)

// Routes is implemented by the API handlers the application serves.
type Routes interface {
	RegisterRoutes(router *httprouter.Router)
	RegisterHealthRoutes(router *httprouter.Router)
}

type Application struct {
	cfg         *config.Config
	server      *http.Server
	rateLimiter *middleware.IPRateLimiter
	handler     http.Handler
}

func NewApplication(cfg *config.Config, routes Routes) *Application {
	a := &Application{cfg: cfg}
	healthHandler := a.healthHandler(routes)
	appHandler := a.appHandler(routes)

	mux := http.NewServeMux()
	mux.Handle("/health", healthHandler)
	mux.Handle("/", appHandler)
	a.handler = mux

	a.server = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	cfg.Log.Info("HTTP server configured", "port", cfg.Port)
	return a
}

func (a *Application) healthHandler(routes Routes) http.Handler {
	router := httprouter.New()
	routes.RegisterHealthRoutes(router)

	var h http.Handler = router
	h = middleware.RequestLogging(a.cfg.Log)(h)
	h = middleware.Recovery(a.cfg.Log)(h)
	a.cfg.Log.Info("Health endpoint configured with minimal middleware (Recovery + Logging only)")
	return h
}

func (a *Application) appHandler(routes Routes) http.Handler {
	router := httprouter.New()
	routes.RegisterRoutes(router)

	a.rateLimiter = middleware.NewIPRateLimiter(
		a.cfg.RateLimitRPS,
		a.cfg.RateLimitBurst,
		middleware.ClientIP,
		a.cfg.Log,
	)

	var h http.Handler = router
	h = middleware.RequestTimeout(a.cfg.RequestTimeout)(h)
	h = middleware.RateLimit(a.rateLimiter)(h)
	h = middleware.ContentTypeValidation(a.cfg.Log)(h)
	h = middleware.MaxRequestSize(int64(a.cfg.MaxRequestSize))(h)
	h = middleware.RequestLogging(a.cfg.Log)(h)
	h = middleware.Recovery(a.cfg.Log)(h)
	a.cfg.Log.Info("API endpoints configured with full middleware stack")
	return h
}

// Handler returns the fully wired handler, for tests and embedding.
func (a *Application) Handler() http.Handler {
	return a.handler
}

// Run serves until ctx is cancelled, a termination signal arrives, or the
// listener fails, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	serverErrors := make(chan error, 1)

	go func() {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		a.rateLimiter.Stop()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		a.cfg.Log.Error("HTTP server failed", "error", err)
		return err

	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)

	case <-ctx.Done():
		a.cfg.Log.Info("Context cancelled, shutting down")
	}

	return a.gracefulShutdown()
}

func (a *Application) gracefulShutdown() error {
	a.cfg.Log.Info("Starting graceful shutdown...")

	a.rateLimiter.Stop()
	a.cfg.Log.Info("Background workers stopped")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if closeErr := a.server.Close(); closeErr != nil {
			a.cfg.Log.Error("Could not stop server gracefully", "error", closeErr)
			return closeErr
		}
		return err
	}

	a.cfg.Log.Info("Server stopped gracefully")
	return nil
}
