package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"strykerscli/internal/services"
)

// HealthChecker reports service health
type HealthChecker interface {
	HealthCheck(ctx context.Context) services.HealthStatus
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	service HealthChecker
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service HealthChecker, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "health")),
	}
}

// HealthCheck handles GET /api/health. A degraded service answers 503 so
// load balancers stop routing to it until the input file appears.
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := h.service.HealthCheck(r.Context())
	if status.Status != services.StatusOK {
		h.logger.WarnContext(r.Context(), "Health check degraded", slog.String("status", status.Status))
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, status)
}

// LivenessCheck handles GET /api/health/live
func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": services.StatusOK})
}
