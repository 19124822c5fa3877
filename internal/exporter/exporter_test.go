package exporter

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"strykerscli/internal/analytics"
	"strykerscli/internal/config"
	"strykerscli/internal/finance"
	"strykerscli/pkg/contracts/domain"
)

func setupWriter(t *testing.T) (*CSVWriter, string) {
	t.Helper()

	base := t.TempDir()
	paths := config.NewPaths(base, config.DataConfig{})
	return NewCSVWriter(paths, nil), paths.ReportsDir
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}), "missing BOM")

	records, err := csv.NewReader(bytes.NewReader(data[3:])).ReadAll()
	require.NoError(t, err)
	return records
}

func testSales() []domain.Sale {
	event := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	mk := func(cat domain.SeatingCategory, opp string, seats int, price float64, days int, buyer domain.BuyerType) domain.Sale {
		return domain.Sale{
			Section:      string(cat) + " 1",
			Opponent:     opp,
			Seats:        seats,
			TicketPrice:  price,
			TotalRevenue: price * float64(seats),
			EventDate:    event,
			SaleDate:     event.AddDate(0, 0, -days),
			DaysBefore:   days,
			Category:     cat,
			Buyer:        buyer,
		}
	}
	return []domain.Sale{
		mk(domain.CategoryClub, "Bay FC", 4, 150, 37, domain.BuyerPlanner),
		mk(domain.CategoryUpperGA, "Galaxy", 2, 50, 0, domain.BuyerLastMinute),
		mk(domain.CategoryUpperGA, "Galaxy", 2, 70, 2, domain.BuyerLastMinute),
		mk(domain.CategoryLowerGA, "Bay FC", 1, 110, 12, domain.BuyerInBetween),
	}
}

func TestCSVWriter_WriteSimpleCSV(t *testing.T) {
	writer, reportsDir := setupWriter(t)

	path, err := writer.WriteSimpleCSV("nested/out.csv", []string{"a", "b"}, [][]string{{"1", "x,y"}})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(reportsDir, "nested", "out.csv"), path)

	records := readCSV(t, path)
	assert.Equal(t, [][]string{{"a", "b"}, {"1", "x,y"}}, records)
}

func TestCSVWriter_Append(t *testing.T) {
	writer, _ := setupWriter(t)
	abs := filepath.Join(t.TempDir(), "append.csv")

	_, err := writer.WriteCSV(abs, WriteOptions{Headers: []string{"h"}, Records: [][]string{{"1"}}})
	require.NoError(t, err)
	_, err = writer.WriteCSV(abs, WriteOptions{Headers: []string{"h"}, Records: [][]string{{"2"}}, Append: true})
	require.NoError(t, err)

	data, err := os.ReadFile(abs)
	require.NoError(t, err)
	assert.Equal(t, "h\n1\n2\n", string(data))
}

func TestBuildTables(t *testing.T) {
	sales := testSales()
	summary := analytics.Summarize(sales, sales, analytics.DefaultOptions())
	projection, err := finance.Project(finance.Segments(sales), finance.DefaultParams())
	require.NoError(t, err)

	tables := BuildTables(summary, projection)

	bySlug := map[string]Table{}
	for _, tb := range tables {
		bySlug[tb.Slug] = tb
		for _, row := range tb.Rows {
			assert.Len(t, row, len(tb.Headers), "table %s", tb.Slug)
		}
	}

	require.Contains(t, bySlug, "atp_by_category")
	cat := bySlug["atp_by_category"]
	require.Len(t, cat.Rows, 3)
	assert.Equal(t, string(domain.CategoryUpperGA), cat.Rows[0][0])
	assert.Equal(t, "60.00", cat.Rows[0][4])
	assert.Equal(t, "n/a", bySlug["atp_by_category"].Rows[1][6], "single-sale std is undefined")

	assert.Contains(t, bySlug, "revenue_initiatives")
	assert.NotContains(t, bySlug, "promotions")

	gap := bySlug["revenue_gap"]
	assert.Equal(t, "Total", gap.Rows[len(gap.Rows)-1][0])

	withoutProjection := BuildTables(summary, nil)
	assert.Len(t, withoutProjection, len(tables)-1)
}

func TestAggregateExporter_ExportTables(t *testing.T) {
	writer, reportsDir := setupWriter(t)
	exp := NewAggregateExporter(writer, nil)

	tables := []Table{
		{Name: "One", Slug: "one", Headers: []string{"k", "v"}, Rows: [][]string{{"a", "1"}}},
		{Name: "Two", Slug: "two", Headers: []string{"k"}, Rows: nil},
	}

	paths, err := exp.ExportTables(context.Background(), "tables", tables)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(reportsDir, "tables", "one.csv"), paths[0])
	assert.Equal(t, [][]string{{"k", "v"}, {"a", "1"}}, readCSV(t, paths[0]))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = exp.ExportTables(ctx, "tables", tables)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAggregateExporter_ExportSales(t *testing.T) {
	writer, _ := setupWriter(t)
	exp := NewAggregateExporter(writer, nil)

	path, err := exp.ExportSales(context.Background(), "sales.csv", testSales())
	require.NoError(t, err)

	records := readCSV(t, path)
	require.Len(t, records, 5)
	assert.Equal(t, salesHeaders, records[0])
	assert.Equal(t, "Bay FC", records[1][1])
	assert.Equal(t, "150.00", records[1][3])
	assert.Equal(t, "2024-02-01", records[1][6])
	assert.Equal(t, "Club", records[1][8])
}

func TestWriteXLSX(t *testing.T) {
	tables := []Table{
		{Name: "Overview", Slug: "overview", Headers: []string{"Metric", "Value"}, Rows: [][]string{{"Tickets", "9"}, {"Mean ATP", "n/a"}}},
		{Name: strings.Repeat("x", 40), Slug: "long", Headers: []string{"k"}, Rows: [][]string{{"1.50"}}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, tables))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Overview", strings.Repeat("x", 31)}, f.GetSheetList())

	v, err := f.GetCellValue("Overview", "B2")
	require.NoError(t, err)
	assert.Equal(t, "9", v)

	v, err = f.GetCellValue("Overview", "B3")
	require.NoError(t, err)
	assert.Equal(t, "n/a", v)
}

func TestCellValue(t *testing.T) {
	assert.Equal(t, 12, cellValue("12"))
	assert.Equal(t, 1.5, cellValue("1.50"))
	assert.Equal(t, "n/a", cellValue("n/a"))
	assert.Equal(t, "Bay FC", cellValue("Bay FC"))
}
