package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"karya.dev/internal/services"
)

// ProjectHandler handles project-related endpoints
type ProjectHandler struct {
	projectService *services.ProjectService
	logger         *zap.Logger
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(ps *services.ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{projectService: ps, logger: logger.Named("api")}
}

// ListProjects handles GET /api/projects
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectService.Load(r.Context())
	if err != nil {
		h.logger.Error("failed to load catalog", zap.Error(err))
		respondError(w, h.logger, http.StatusServiceUnavailable, "Catalog unavailable")
		return
	}
	respondJSON(w, h.logger, http.StatusOK, projects)
}

// GetProject handles GET /api/projects/{id}
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid project id")
		return
	}

	if _, err := h.projectService.Load(r.Context()); err != nil {
		h.logger.Error("failed to load catalog", zap.Error(err))
		respondError(w, h.logger, http.StatusServiceUnavailable, "Catalog unavailable")
		return
	}

	project, err := h.projectService.GetByID(id)
	if err != nil {
		respondError(w, h.logger, http.StatusNotFound, "Project not found")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, project)
}
