package server

import (
	"net/http"

	"courseapi/internal/config"
	"courseapi/internal/database"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/golang/glog"
)

type healthResponse struct {
	Status    string `json:"status"`
	Store     string `json:"store"`
	Connected bool   `json:"connected"`
	Error     string `json:"error,omitempty"`
}

func HealthRoutes(cfg *config.ServerConfig, manager *database.Manager) *chi.Mux {
	router := chi.NewRouter()

	// GET: /
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, "Course Management Server is running")
	})

	// GET: /health
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp := &healthResponse{Status: "healthy", Store: cfg.StoreDriver}

		repo, err := manager.Acquire(r.Context())
		if err == nil {
			err = repo.Ping(r.Context())
		}
		if err != nil {
			glog.Warningf("health check failed: %v\n", err)
			resp.Status = "unhealthy"
			resp.Error = "Database not initialized."
			render.Status(r, http.StatusServiceUnavailable)
		}
		resp.Connected = manager.Connected()

		render.JSON(w, r, resp)
	})

	return router
}
