package handlers

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"karya.dev/internal/assets"
	"karya.dev/internal/config"
	"karya.dev/internal/middleware"
	"karya.dev/internal/services"
	"karya.dev/internal/site"
)

// SetupRoutes configures all routes and returns the router
func SetupRoutes(cfg *config.Config, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))

	// Initialize services
	fetcher := assets.NewFSFetcher(os.DirFS(cfg.SiteDir))
	projectService := services.NewProjectService(fetcher, cfg.Site.CatalogPath)
	boot := site.NewBootstrapper(fetcher, cfg.Site.Settings(), logger)

	// Initialize handlers
	projectHandler := NewProjectHandler(projectService, logger)
	pageHandler := NewPageHandler(boot, cfg.Site, logger)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/projects", projectHandler.ListProjects)
		r.Get("/projects/{id}", projectHandler.GetProject)

		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, logger, http.StatusOK, map[string]string{"status": "ok"})
		})
	})

	// Language switch
	r.Get("/lang/{code}", pageHandler.SetLanguage)

	// Static files
	fileServer := http.FileServer(http.Dir(cfg.SiteDir))
	r.Handle("/"+cfg.Site.AssetsDir+"/*", fileServer)

	// Pages
	r.Get("/", pageHandler.Index)
	r.Get("/{page}", pageHandler.Page)

	return r
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("failed to encode JSON", zap.Error(err))
	}
}

// respondError writes an error JSON response
func respondError(w http.ResponseWriter, logger *zap.Logger, status int, message string) {
	respondJSON(w, logger, status, map[string]string{"error": message})
}
