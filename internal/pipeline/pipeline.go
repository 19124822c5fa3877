package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"strykerscli/internal/analytics"
	"strykerscli/internal/dataprocessing"
	"strykerscli/internal/files"
	"strykerscli/internal/finance"
	"strykerscli/internal/infrastructure"
	"strykerscli/pkg/contracts/domain"
)

// Dataset is the derived sales table of one input file. Sales are never
// modified after Prepare returns.
type Dataset struct {
	Source       files.FileInfo             `json:"source"`
	Sales        []domain.Sale              `json:"-"`
	Stats        dataprocessing.DeriveStats `json:"stats"`
	HasPromotion bool                       `json:"has_promotion"`
	Policy       domain.BuyerPolicy         `json:"policy"`
	LoadedAt     time.Time                  `json:"loaded_at"`
}

// Request selects the view Analyze computes. Zero fields take the
// dataset policy, the default comparison thresholds and default params.
type Request struct {
	Policy   domain.BuyerPolicy
	Filter   analytics.Filter
	Analysis analytics.ComparisonOptions
	Params   finance.Params
}

func (r Request) withDefaults(ds *Dataset) Request {
	if r.Policy == "" {
		r.Policy = ds.Policy
	}
	if r.Analysis == (analytics.ComparisonOptions{}) {
		r.Analysis = analytics.DefaultComparisonOptions()
	}
	if r.Params == (finance.Params{}) {
		r.Params = finance.DefaultParams()
	}
	return r
}

// State carries intermediate results between steps
type State struct {
	RunID      string
	Candidates []string
	Policy     domain.BuyerPolicy
	Request    Request

	Load       *dataprocessing.LoadResult
	Dataset    *Dataset
	All        []domain.Sale
	Filtered   []domain.Sale
	Summary    *analytics.Summary
	Projection *finance.Projection
	Steps      []*StepState
}

// Result is one analyzed view of a dataset
type Result struct {
	RunID      string              `json:"run_id"`
	Dataset    *Dataset            `json:"dataset"`
	Policy     domain.BuyerPolicy  `json:"policy"`
	Filter     analytics.Filter    `json:"filter"`
	Summary    *analytics.Summary  `json:"summary"`
	Projection *finance.Projection `json:"projection"`
	Steps      []*StepState        `json:"steps"`
}

// Runner executes pipeline steps sequentially
type Runner struct {
	loader  *dataprocessing.Loader
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
}

// NewRunner creates a runner. metrics may be nil.
func NewRunner(loader *dataprocessing.Loader, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if loader == nil {
		loader = dataprocessing.NewLoader(nil, logger)
	}
	return &Runner{
		loader:  loader,
		metrics: metrics,
		logger:  logger.With(slog.String("component", "pipeline")),
	}
}

// Prepare loads the first existing candidate and derives it under policy
func (r *Runner) Prepare(ctx context.Context, runID string, candidates []string, policy domain.BuyerPolicy) (*Dataset, error) {
	state := &State{RunID: runID, Candidates: candidates, Policy: policy}
	if err := r.execute(ctx, state, r.prepareSteps()); err != nil {
		return nil, err
	}
	return state.Dataset, nil
}

// Analyze aggregates ds and projects the initiatives for req
func (r *Runner) Analyze(ctx context.Context, runID string, ds *Dataset, req Request) (*Result, error) {
	if ds == nil {
		return nil, fmt.Errorf("analyze: nil dataset")
	}
	state := &State{RunID: runID, Dataset: ds, Request: req.withDefaults(ds)}
	if err := r.execute(ctx, state, r.analyzeSteps()); err != nil {
		return nil, err
	}
	return state.result(), nil
}

// Run executes every step for a one-shot batch run
func (r *Runner) Run(ctx context.Context, runID string, candidates []string, req Request) (*Result, error) {
	start := time.Now()
	policy := req.Policy
	if policy == "" {
		policy = domain.PolicyDashboard
	}
	state := &State{RunID: runID, Candidates: candidates, Policy: policy}

	steps := r.prepareSteps()
	steps = append(steps, stepFunc{StepAggregate, "Aggregation", func(ctx context.Context, s *State) error {
		s.Request = req.withDefaults(s.Dataset)
		return r.aggregate(ctx, s)
	}})
	steps = append(steps, stepFunc{StepProject, "Financial Projection", r.project})

	err := r.execute(ctx, state, steps)

	source := ""
	if state.Load != nil {
		source = state.Load.Source.Name
	}
	infrastructure.RecordPipelineRun(ctx, r.metrics, source, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	r.logger.InfoContext(infrastructure.WithRunID(ctx, runID), "Pipeline completed",
		slog.String("source", source),
		slog.String("policy", string(state.Request.Policy)),
		slog.Int("sales", len(state.Filtered)),
		slog.Duration("duration", time.Since(start)))

	return state.result(), nil
}

func (r *Runner) prepareSteps() []Step {
	return []Step{
		stepFunc{StepLoad, "Data Loading", r.load},
		stepFunc{StepDerive, "Feature Derivation", r.derive},
	}
}

func (r *Runner) analyzeSteps() []Step {
	return []Step{
		stepFunc{StepAggregate, "Aggregation", r.aggregate},
		stepFunc{StepProject, "Financial Projection", r.project},
	}
}

// execute runs steps in order. The first failure marks the remaining steps
// skipped and is returned unwrapped so callers can inspect its type.
func (r *Runner) execute(ctx context.Context, state *State, steps []Step) error {
	ctx = infrastructure.WithRunID(ctx, state.RunID)
	states := make([]*StepState, len(steps))
	for i, step := range steps {
		states[i] = NewStepState(step.ID(), step.Name())
	}
	state.Steps = append(state.Steps, states...)

	for i, step := range steps {
		st := states[i]

		if err := ctx.Err(); err != nil {
			skipRemaining(states[i:], "run cancelled")
			return err
		}

		st.Start()
		stepCtx, span := infrastructure.StartSpan(ctx, "pipeline."+step.ID(),
			attribute.String("run_id", state.RunID))
		err := step.Execute(stepCtx, state)
		if err != nil {
			infrastructure.RecordError(stepCtx, err)
		}
		span.End()

		if err != nil {
			st.Fail(err)
			skipRemaining(states[i+1:], fmt.Sprintf("previous step %s failed", step.ID()))
			r.logger.ErrorContext(ctx, "Pipeline step failed",
				slog.String("step", step.ID()),
				slog.String("error", err.Error()))
			return err
		}

		st.Complete()
		r.logger.DebugContext(ctx, "Pipeline step completed",
			slog.String("step", step.ID()),
			slog.Duration("duration", st.Duration()))
	}
	return nil
}

func skipRemaining(states []*StepState, reason string) {
	for _, st := range states {
		st.Skip(reason)
	}
}

func (r *Runner) load(ctx context.Context, s *State) error {
	res, err := r.loader.Load(ctx, s.Candidates)
	if err != nil {
		return err
	}
	s.Load = res
	return nil
}

// derive logs the exclusion counts once per load; rows are never reported
// individually.
func (r *Runner) derive(ctx context.Context, s *State) error {
	policy := s.Policy
	if policy == "" {
		policy = domain.PolicyDashboard
	}

	sales, stats := dataprocessing.Derive(s.Load.Rows, policy)
	s.Dataset = &Dataset{
		Source:       s.Load.Source,
		Sales:        sales,
		Stats:        stats,
		HasPromotion: s.Load.HasPromotion,
		Policy:       policy,
		LoadedAt:     time.Now(),
	}

	infrastructure.RecordRows(ctx, r.metrics, stats.Input, stats.ByReason())

	attrs := []any{
		slog.String("source", s.Load.Source.Name),
		slog.Int("input", stats.Input),
		slog.Int("kept", stats.Kept),
		slog.Int("excluded", stats.Excluded()),
	}
	for reason, n := range stats.ByReason() {
		attrs = append(attrs, slog.Int("excluded_"+reason, n))
	}
	r.logger.InfoContext(ctx, "Derived sales", attrs...)
	return nil
}

func (r *Runner) aggregate(_ context.Context, s *State) error {
	all := s.Dataset.Sales
	if s.Request.Policy != s.Dataset.Policy {
		all = dataprocessing.Reclassify(all, s.Request.Policy)
	}

	s.All = all
	s.Filtered = s.Request.Filter.Apply(all)
	s.Summary = analytics.Summarize(s.Filtered, s.All, analytics.Options{
		Comparison:   s.Request.Analysis,
		HasPromotion: s.Dataset.HasPromotion,
	})
	return nil
}

// project models the initiatives on the whole season rather than the
// filtered view
func (r *Runner) project(_ context.Context, s *State) error {
	p, err := finance.Project(finance.Segments(s.All), s.Request.Params)
	if err != nil {
		return err
	}
	s.Projection = p
	return nil
}

func (s *State) result() *Result {
	return &Result{
		RunID:      s.RunID,
		Dataset:    s.Dataset,
		Policy:     s.Request.Policy,
		Filter:     s.Request.Filter,
		Summary:    s.Summary,
		Projection: s.Projection,
		Steps:      s.Steps,
	}
}
