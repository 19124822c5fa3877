package dataprocessing

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strykerscli/internal/errors"
	"strykerscli/internal/files"
	"strykerscli/internal/shared/testutil"
	"strykerscli/pkg/contracts/domain"
)

func TestParseTransactions(t *testing.T) {
	rows, hasPromotion, err := ParseTransactions(context.Background(), strings.NewReader(testutil.SampleTransactionsCSV))
	require.NoError(t, err)

	assert.True(t, hasPromotion)
	require.Len(t, rows, 10)
	assert.Equal(t, "Upper 101", rows[0].Section)
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "$1,000.00", rows[4].TicketPrice)
	assert.Equal(t, "Bobblehead Night", rows[2].Promotion)
}

func TestParseTransactionsHeaderTolerance(t *testing.T) {
	content := "\xEF\xBB\xBF away team , SECTION,Number of Seats,Ticket Price,Total Block Price,Event Date,Sale Date\n" +
		"Bay FC,Upper 1,1,$10,$10,2024-01-02,2024-01-01\n" +
		"\n"

	rows, hasPromotion, err := ParseTransactions(context.Background(), strings.NewReader(content))
	require.NoError(t, err)

	assert.False(t, hasPromotion)
	require.Len(t, rows, 1)
	assert.Equal(t, "Bay FC", rows[0].AwayTeam)
	assert.Equal(t, "Upper 1", rows[0].Section)
	assert.Empty(t, rows[0].Promotion)
}

func TestParseTransactionsErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"empty", "", "empty"},
		{"missing columns", "Section,Ticket Price\nUpper 1,$10\n", "Away Team"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseTransactions(context.Background(), strings.NewReader(tt.content))
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrTypeParsing))
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestParseTransactionsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := ParseTransactions(ctx, strings.NewReader(testutil.SampleTransactionsCSV))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoaderLoad(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTransactionsCSV(t, dir, "data.csv", testutil.SampleTransactionsCSV)

	logger, handler := testutil.NewTestLogger(t)
	loader := NewLoader(files.NewDiscovery(dir), logger)

	res, err := loader.Load(context.Background(), []string{"missing.csv", "data.csv"})
	require.NoError(t, err)

	assert.Equal(t, "data.csv", res.Source.Name)
	assert.Len(t, res.Rows, 10)
	assert.True(t, res.HasPromotion)
	assert.True(t, handler.ContainsMessage("Loaded transactions"))

	sales, stats := Derive(res.Rows, domain.PolicyDashboard)
	assert.Len(t, sales, 7)
	assert.Equal(t, 3, stats.Excluded())
	assert.Equal(t, 1, stats.BadPrice)
	assert.Equal(t, 1, stats.BadDate)
	assert.Equal(t, 1, stats.NegativeDays)

	byCategory := map[domain.SeatingCategory]int{}
	for _, s := range sales {
		byCategory[s.Category]++
	}
	assert.Equal(t, map[domain.SeatingCategory]int{
		domain.CategoryUpperGA:   2,
		domain.CategoryLowerGA:   1,
		domain.CategoryClub:      1,
		domain.CategoryPitchside: 2,
		domain.CategoryOther:     1,
	}, byCategory)
}

func TestLoaderNoInputFile(t *testing.T) {
	loader := NewLoader(files.NewDiscovery(t.TempDir()), nil)

	_, err := loader.Load(context.Background(), []string{"a.csv", "b.csv"})
	require.Error(t, err)

	assert.True(t, stderrors.Is(err, ErrNoInputFile))
	assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))
	assert.Contains(t, err.Error(), "a.csv, b.csv")
	assert.Contains(t, err.Error(), "data.csv")

	_, err = loader.Load(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates configured")
}
