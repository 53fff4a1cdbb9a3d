package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"courseapi/internal/config"
	"courseapi/internal/course"
	"courseapi/internal/database"
	qmiddleware "courseapi/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang/glog"
	"github.com/rs/cors"
)

func Routes(cfg *config.ServerConfig, manager *database.Manager) *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		qmiddleware.RequestID(),
		middleware.Logger, // Log API Request Calls
		middleware.Recoverer,
	)

	router.Route("/", func(r chi.Router) {
		r.Mount("/", HealthRoutes(cfg, manager))
	})

	router.Route("/api", func(r chi.Router) {
		r.Mount("/courses", course.Routes(course.NewDispatcher(manager), cfg.MaxBodyBytes))
	})

	return router
}

// Handler wraps the routes in the CORS policy from cfg.
func Handler(cfg *config.ServerConfig, manager *database.Manager) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedHeaders: []string{"Content-Type", qmiddleware.RequestIDHeader},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		ExposedHeaders: []string{qmiddleware.RequestIDHeader},
	})

	return c.Handler(Routes(cfg, manager))
}

// Start serves the API until the process receives SIGINT or SIGTERM, then drains in-flight requests and closes the
// store connection.
func Start(cfg *config.ServerConfig, manager *database.Manager) error {
	if cfg == nil {
		return errors.New("missing server configuration")
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%v", cfg.Port),
		Handler: Handler(cfg, manager),
	}

	errc := make(chan error, 1)
	go func() {
		glog.Infof("Server is listening on port %v\n", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case sig := <-quit:
		glog.Infof("Received %v, shutting down...", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	if err := manager.Close(ctx); err != nil {
		glog.Warningf("error closing course store: %v\n", err)
	}

	glog.Infof("Server shut down gracefully")
	return nil
}
