package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"strykerscli/internal/analytics"
	"strykerscli/internal/errors"
	"strykerscli/internal/exporter"
	"strykerscli/internal/finance"
	"strykerscli/internal/infrastructure"
	"strykerscli/internal/pipeline"
	"strykerscli/internal/report"
	api "strykerscli/pkg/contracts/api/v1"
	"strykerscli/pkg/contracts/domain"
)

// RequestValidator validates tagged request structs
type RequestValidator interface {
	ValidateStruct(v interface{}) error
}

// DashboardConfig holds the fixed settings of a dashboard service
type DashboardConfig struct {
	Title      string
	Candidates []string
	Policy     domain.BuyerPolicy
	Analysis   analytics.ComparisonOptions
	Params     finance.Params
	AssetsDir  string
	AssetNames []string
}

// DashboardService serves dashboard views of the transaction data. The
// derived dataset is loaded once and shared; every view is recomputed
// from it per request.
type DashboardService struct {
	cfg       DashboardConfig
	runner    *pipeline.Runner
	renderer  *report.Renderer
	validator RequestValidator
	metrics   *infrastructure.BusinessMetrics
	logger    *slog.Logger

	loads   singleflight.Group
	mu      sync.RWMutex
	dataset *pipeline.Dataset
}

// NewDashboardService creates a dashboard service. metrics may be nil.
func NewDashboardService(cfg DashboardConfig, runner *pipeline.Runner, renderer *report.Renderer,
	validator RequestValidator, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Policy == "" {
		cfg.Policy = domain.PolicyDashboard
	}
	return &DashboardService{
		cfg:       cfg,
		runner:    runner,
		renderer:  renderer,
		validator: validator,
		metrics:   metrics,
		logger:    logger.With(slog.String("service", "dashboard")),
	}
}

// Dataset returns the memoised dataset, loading it on first use.
// Concurrent first callers share one load. A failed load is not cached, so
// a CSV placed after startup is picked up by the next request.
func (s *DashboardService) Dataset(ctx context.Context) (*pipeline.Dataset, error) {
	if ds := s.cached(); ds != nil {
		return ds, nil
	}

	v, err, shared := s.loads.Do("dataset", func() (interface{}, error) {
		if ds := s.cached(); ds != nil {
			return ds, nil
		}

		ds, err := s.runner.Prepare(context.WithoutCancel(ctx), uuid.NewString(), s.cfg.Candidates, s.cfg.Policy)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.dataset = ds
		s.mu.Unlock()
		return ds, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.DebugContext(ctx, "Shared in-flight dataset load")
	}
	return v.(*pipeline.Dataset), nil
}

// Loaded returns the memoised dataset without triggering a load
func (s *DashboardService) Loaded() (*pipeline.Dataset, bool) {
	ds := s.cached()
	return ds, ds != nil
}

func (s *DashboardService) cached() *pipeline.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

// ParseRequest validates req and converts it into a pipeline request
func (s *DashboardService) ParseRequest(req api.DashboardRequest) (pipeline.Request, error) {
	if s.validator != nil {
		if err := s.validator.ValidateStruct(req); err != nil {
			return pipeline.Request{}, err
		}
	}

	policy := s.cfg.Policy
	if req.Policy != "" {
		p, err := domain.ParseBuyerPolicy(req.Policy)
		if err != nil {
			return pipeline.Request{}, errors.NewAppValidationError(err.Error(), err)
		}
		policy = p
	}

	filter := analytics.Filter{Opponents: req.Opponents}
	for _, c := range req.Categories {
		filter.Categories = append(filter.Categories, domain.SeatingCategory(c))
	}

	return pipeline.Request{
		Policy:   policy,
		Filter:   filter,
		Analysis: s.cfg.Analysis,
		Params:   s.cfg.Params,
	}, nil
}

// View computes the dashboard for req. The result doubles as the
// websocket snapshot payload.
func (s *DashboardService) View(ctx context.Context, req api.DashboardRequest) (*pipeline.Result, error) {
	preq, err := s.ParseRequest(req)
	if err != nil {
		return nil, err
	}
	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return s.runner.Analyze(ctx, uuid.NewString(), ds, preq)
}

// Filters lists the categories and opponents present in the data
func (s *DashboardService) Filters(ctx context.Context) (analytics.FilterOptions, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return analytics.FilterOptions{}, err
	}
	return analytics.AvailableFilters(ds.Sales), nil
}

// Projection computes the season initiatives under the requested policy
func (s *DashboardService) Projection(ctx context.Context, req api.ProjectionRequest) (*finance.Projection, error) {
	res, err := s.View(ctx, api.DashboardRequest{Policy: req.Policy})
	if err != nil {
		return nil, err
	}
	return res.Projection, nil
}

// RenderDashboard writes the HTML dashboard page for req
func (s *DashboardService) RenderDashboard(ctx context.Context, w io.Writer, req api.DashboardRequest) error {
	res, err := s.View(ctx, req)
	if err != nil {
		return err
	}

	filters := analytics.AvailableFilters(res.Dataset.Sales)
	page := report.DashboardPage{
		Data:     BuildReportData(res, s.reportOptions(res)),
		Filters:  filters,
		Selected: res.Filter,
	}
	if err := s.renderer.RenderDashboard(w, page); err != nil {
		return err
	}
	infrastructure.RecordReportRendered(ctx, s.metrics, "dashboard")
	return nil
}

// RenderReport writes the static HTML report for req
func (s *DashboardService) RenderReport(ctx context.Context, w io.Writer, req api.DashboardRequest) error {
	res, err := s.View(ctx, req)
	if err != nil {
		return err
	}

	opts := s.reportOptions(res)
	opts.Assets = report.LoadAssets(s.cfg.AssetsDir, report.AssetNames(s.cfg.AssetsDir, s.cfg.AssetNames), s.logger)
	if err := s.renderer.RenderReport(w, BuildReportData(res, opts)); err != nil {
		return err
	}
	infrastructure.RecordReportRendered(ctx, s.metrics, "html")
	return nil
}

// ExportXLSX writes the aggregate tables of req as a workbook
func (s *DashboardService) ExportXLSX(ctx context.Context, w io.Writer, req api.DashboardRequest) error {
	res, err := s.View(ctx, req)
	if err != nil {
		return err
	}
	if err := exporter.WriteXLSX(w, exporter.BuildTables(res.Summary, res.Projection)); err != nil {
		return err
	}
	infrastructure.RecordReportRendered(ctx, s.metrics, "xlsx")
	return nil
}

func (s *DashboardService) reportOptions(res *pipeline.Result) report.Options {
	return report.Options{
		Title:       s.cfg.Title,
		Subtitle:    DescribeFilter(res.Filter),
		Policy:      res.Policy,
		Source:      res.Dataset.Source.Name,
		RunID:       res.RunID,
		GeneratedAt: time.Now(),
	}
}

// BuildReportData assembles the presenter input from a pipeline result
func BuildReportData(res *pipeline.Result, opts report.Options) report.Data {
	return report.Data{
		Options:    opts,
		Summary:    res.Summary,
		Projection: res.Projection,
		Stats:      res.Dataset.Stats,
	}
}

// DescribeFilter renders a filter as a subtitle, empty when it matches all
func DescribeFilter(f analytics.Filter) string {
	var parts []string
	if len(f.Categories) > 0 {
		names := make([]string, len(f.Categories))
		for i, c := range f.Categories {
			names[i] = string(c)
		}
		parts = append(parts, "Seating: "+strings.Join(names, ", "))
	}
	if len(f.Opponents) > 0 {
		parts = append(parts, "Opponents: "+strings.Join(f.Opponents, ", "))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("Filtered view (%s)", strings.Join(parts, "; "))
}
