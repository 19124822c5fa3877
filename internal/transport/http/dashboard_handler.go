package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"strykerscli/internal/config"
	apierrors "strykerscli/internal/errors"
	api "strykerscli/pkg/contracts/api/v1"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DashboardHandler handles the dashboard page and its JSON API
type DashboardHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if errorHandler == nil {
		errorHandler = apierrors.NewErrorHandler(logger, false)
	}
	return &DashboardHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the /api routes served by the dashboard handler
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/dashboard", h.GetDashboard)
		r.Post("/dashboard", h.PostDashboard)
		r.Get("/filters", h.GetFilters)
		r.Get("/projection", h.GetProjection)
	})

	r.Get("/report", h.GetReport)
	r.Get("/export.xlsx", h.ExportXLSX)

	return r
}

// ServePage handles GET /, the interactive dashboard page
func (h *DashboardHandler) ServePage(w http.ResponseWriter, r *http.Request) {
	req := parseDashboardQuery(r.URL.Query())
	h.writeBuffered(w, r, "text/html; charset=utf-8", "", func(ctx context.Context, w io.Writer) error {
		return h.service.RenderDashboard(ctx, w, req)
	})
}

// GetDashboard handles GET /api/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	h.view(w, r, parseDashboardQuery(r.URL.Query()))
}

// PostDashboard handles POST /api/dashboard with the filter in the body
func (h *DashboardHandler) PostDashboard(w http.ResponseWriter, r *http.Request) {
	var req api.DashboardRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("body", "Invalid dashboard request format"))
		return
	}
	h.view(w, r, req)
}

func (h *DashboardHandler) view(w http.ResponseWriter, r *http.Request, req api.DashboardRequest) {
	res, err := h.service.View(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.DebugContext(r.Context(), "Dashboard view computed", slog.String("run_id", res.RunID))
	render.JSON(w, r, res)
}

// GetFilters handles GET /api/filters
func (h *DashboardHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	filters, err := h.service.Filters(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, filters)
}

// GetProjection handles GET /api/projection
func (h *DashboardHandler) GetProjection(w http.ResponseWriter, r *http.Request) {
	req := api.ProjectionRequest{Policy: strings.TrimSpace(r.URL.Query().Get("policy"))}
	projection, err := h.service.Projection(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, projection)
}

// GetReport handles GET /api/report, the static report rendered on demand
func (h *DashboardHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	req := parseDashboardQuery(r.URL.Query())
	h.writeBuffered(w, r, "text/html; charset=utf-8", "", func(ctx context.Context, w io.Writer) error {
		return h.service.RenderReport(ctx, w, req)
	})
}

// ExportXLSX handles GET /api/export.xlsx
func (h *DashboardHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	req := parseDashboardQuery(r.URL.Query())
	disposition := fmt.Sprintf("attachment; filename=%q", config.ReportXLSXName)
	h.writeBuffered(w, r, contentTypeXLSX, disposition, func(ctx context.Context, w io.Writer) error {
		return h.service.ExportXLSX(ctx, w, req)
	})
}

// writeBuffered runs render into a buffer and only then commits headers,
// so a render failure is still reported as a problem response.
func (h *DashboardHandler) writeBuffered(w http.ResponseWriter, r *http.Request, contentType, disposition string,
	renderFn func(ctx context.Context, w io.Writer) error) {
	var buf bytes.Buffer
	if err := renderFn(r.Context(), &buf); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	if disposition != "" {
		w.Header().Set("Content-Disposition", disposition)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to write response",
			slog.String("error", err.Error()),
			slog.String("path", r.URL.Path))
	}
}

// parseDashboardQuery reads repeated category and opponent parameters,
// dropping blanks.
func parseDashboardQuery(q url.Values) api.DashboardRequest {
	return api.DashboardRequest{
		Categories: nonBlank(q["category"]),
		Opponents:  nonBlank(q["opponent"]),
		Policy:     strings.TrimSpace(q.Get("policy")),
	}
}

func nonBlank(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
