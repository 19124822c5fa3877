package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strykerscli/internal/analytics"
	"strykerscli/internal/dataprocessing"
	"strykerscli/internal/errors"
	"strykerscli/internal/files"
	"strykerscli/internal/finance"
	"strykerscli/internal/shared/testutil"
	"strykerscli/pkg/contracts/domain"
)

func newTestRunner(t *testing.T) (*Runner, *testutil.BufferedSlogHandler, string) {
	t.Helper()

	dir := t.TempDir()
	testutil.WriteTransactionsCSV(t, dir, "data.csv", testutil.SampleTransactionsCSV)

	logger, logs := testutil.NewTestLogger(t)
	loader := dataprocessing.NewLoader(files.NewDiscovery(dir), logger)
	return NewRunner(loader, nil, logger), logs, dir
}

func TestRun(t *testing.T) {
	runner, logs, _ := newTestRunner(t)

	res, err := runner.Run(context.Background(), "run-1", []string{"missing.csv", "data.csv"}, Request{})
	require.NoError(t, err)

	assert.Equal(t, "run-1", res.RunID)
	assert.Equal(t, domain.PolicyDashboard, res.Policy)
	assert.Equal(t, "data.csv", res.Dataset.Source.Name)
	assert.Equal(t, 10, res.Dataset.Stats.Input)
	assert.Equal(t, 7, res.Dataset.Stats.Kept)
	assert.Equal(t, 3, res.Dataset.Stats.Excluded())
	assert.True(t, res.Dataset.HasPromotion)

	require.NotNil(t, res.Summary)
	assert.Equal(t, 7, res.Summary.Overview.Transactions)
	assert.NotEmpty(t, res.Summary.ByPromotion)

	require.NotNil(t, res.Projection)
	assert.True(t, res.Projection.Total.Valid)
	assert.Equal(t, finance.DefaultParams(), res.Projection.Params)

	require.Len(t, res.Steps, 4)
	for i, id := range []string{StepLoad, StepDerive, StepAggregate, StepProject} {
		assert.Equal(t, id, res.Steps[i].ID)
		assert.Equal(t, StepStatusCompleted, res.Steps[i].CurrentStatus())
	}

	assert.True(t, logs.ContainsMessage("Derived sales"))
	assert.True(t, logs.ContainsAttr("excluded", int64(3)))
	assert.True(t, logs.ContainsMessage("Pipeline completed"))
}

func TestRunMissingInput(t *testing.T) {
	runner, logs, _ := newTestRunner(t)

	res, err := runner.Run(context.Background(), "run-2", []string{"nope.csv"}, Request{})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))
	assert.ErrorIs(t, err, dataprocessing.ErrNoInputFile)
	assert.Contains(t, err.Error(), "nope.csv")
	assert.True(t, logs.ContainsMessage("Pipeline step failed"))
}

func TestRunCancelled(t *testing.T) {
	runner, _, _ := newTestRunner(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx, "run-3", []string{"data.csv"}, Request{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunInvalidParams(t *testing.T) {
	runner, _, _ := newTestRunner(t)

	params := finance.DefaultParams()
	params.RetentionRate = 1.5

	_, err := runner.Run(context.Background(), "run-4", []string{"data.csv"}, Request{Params: params})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeValidation))
}

func TestPrepareAndAnalyze(t *testing.T) {
	runner, _, _ := newTestRunner(t)
	ctx := context.Background()

	ds, err := runner.Prepare(ctx, "prep", []string{"data.csv"}, domain.PolicyDashboard)
	require.NoError(t, err)
	require.Len(t, ds.Sales, 7)
	before := append([]domain.Sale(nil), ds.Sales...)

	t.Run("filtered view", func(t *testing.T) {
		res, err := runner.Analyze(ctx, "view-1", ds, Request{
			Filter: analytics.Filter{Categories: []domain.SeatingCategory{domain.CategoryUpperGA}},
		})
		require.NoError(t, err)

		assert.Equal(t, 2, res.Summary.Overview.Transactions)
		assert.Equal(t, 4, res.Summary.Overview.Tickets)
		assert.True(t, res.Summary.Overview.ATPChangePct.Valid)
		require.Len(t, res.Steps, 2)
		assert.Equal(t, StepAggregate, res.Steps[0].ID)
	})

	t.Run("projection covers the whole season", func(t *testing.T) {
		all, err := runner.Analyze(ctx, "view-2", ds, Request{})
		require.NoError(t, err)
		filtered, err := runner.Analyze(ctx, "view-3", ds, Request{
			Filter: analytics.Filter{Opponents: []string{"Bay FC"}},
		})
		require.NoError(t, err)

		assert.Equal(t, all.Projection.Total, filtered.Projection.Total)
		assert.NotEqual(t, all.Summary.Overview.Transactions, filtered.Summary.Overview.Transactions)
	})

	t.Run("other policy leaves the dataset untouched", func(t *testing.T) {
		res, err := runner.Analyze(ctx, "view-4", ds, Request{Policy: domain.PolicyReport})
		require.NoError(t, err)

		assert.Equal(t, domain.PolicyReport, res.Policy)
		assert.Equal(t, before, ds.Sales)
	})

	t.Run("nil dataset", func(t *testing.T) {
		_, err := runner.Analyze(ctx, "view-5", nil, Request{})
		assert.Error(t, err)
	})
}

func TestStepState(t *testing.T) {
	st := NewStepState(StepLoad, "Data Loading")
	assert.Equal(t, StepStatusPending, st.CurrentStatus())
	assert.Zero(t, st.Duration())

	st.Start()
	assert.Equal(t, StepStatusActive, st.CurrentStatus())

	st.Fail(errors.NewStorageError("disk gone", nil))
	assert.Equal(t, StepStatusFailed, st.CurrentStatus())
	assert.Contains(t, st.Error, "disk gone")
	assert.NotNil(t, st.EndTime)
}
