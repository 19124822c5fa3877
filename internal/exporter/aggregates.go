package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"strykerscli/pkg/contracts/domain"
)

// AggregateExporter writes aggregate tables and derived sales as CSV files
type AggregateExporter struct {
	writer *CSVWriter
	logger *slog.Logger
}

// NewAggregateExporter creates an exporter on top of a CSV writer
func NewAggregateExporter(writer *CSVWriter, logger *slog.Logger) *AggregateExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &AggregateExporter{
		writer: writer,
		logger: logger.With(slog.String("component", "csv_exporter")),
	}
}

// ExportTables writes one <slug>.csv per table into dir and returns the
// written paths
func (e *AggregateExporter) ExportTables(ctx context.Context, dir string, tables []Table) ([]string, error) {
	paths := make([]string, 0, len(tables))
	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		path, err := e.writer.WriteSimpleCSV(filepath.Join(dir, t.Slug+".csv"), t.Headers, t.Rows)
		if err != nil {
			return paths, fmt.Errorf("failed to export %s: %w", t.Name, err)
		}
		paths = append(paths, path)
	}

	e.logger.InfoContext(ctx, "Exported aggregate tables",
		slog.String("dir", dir),
		slog.Int("tables", len(paths)))
	return paths, nil
}

var salesHeaders = []string{
	"Section", "Away Team", "Number of Seats", "Ticket Price", "Total Revenue",
	"Event Date", "Sale Date", "Days Before", "Seating Category", "Timing Bucket",
	"Buyer Type", "Promotion",
}

// ExportSales streams the derived sales to a CSV file
func (e *AggregateExporter) ExportSales(ctx context.Context, filePath string, sales []domain.Sale) (string, error) {
	sw, err := e.writer.CreateStreamWriter(filePath, salesHeaders)
	if err != nil {
		return "", err
	}

	for i, s := range sales {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				sw.Close()
				return "", err
			}
		}
		if err := sw.WriteRecord([]string{
			s.Section,
			s.Opponent,
			formatInt(s.Seats),
			formatFloat(s.TicketPrice),
			formatFloat(s.TotalRevenue),
			s.EventDate.Format("2006-01-02"),
			s.SaleDate.Format("2006-01-02"),
			formatInt(s.DaysBefore),
			string(s.Category),
			s.Timing.String(),
			string(s.Buyer),
			s.Promotion,
		}); err != nil {
			sw.Close()
			return "", fmt.Errorf("failed to write sale %d: %w", i, err)
		}
	}

	path := sw.Path()
	if err := sw.Close(); err != nil {
		return "", err
	}

	e.logger.InfoContext(ctx, "Exported derived sales",
		slog.String("path", path),
		slog.Int("rows", len(sales)))
	return path, nil
}
