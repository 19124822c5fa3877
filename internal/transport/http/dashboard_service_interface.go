package http

import (
	"context"
	"io"

	"strykerscli/internal/analytics"
	"strykerscli/internal/finance"
	"strykerscli/internal/pipeline"
	api "strykerscli/pkg/contracts/api/v1"
)

// DashboardServiceInterface defines the dashboard operations the handlers need
type DashboardServiceInterface interface {
	View(ctx context.Context, req api.DashboardRequest) (*pipeline.Result, error)
	Filters(ctx context.Context) (analytics.FilterOptions, error)
	Projection(ctx context.Context, req api.ProjectionRequest) (*finance.Projection, error)

	RenderDashboard(ctx context.Context, w io.Writer, req api.DashboardRequest) error
	RenderReport(ctx context.Context, w io.Writer, req api.DashboardRequest) error
	ExportXLSX(ctx context.Context, w io.Writer, req api.DashboardRequest) error
}
