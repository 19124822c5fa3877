package dataprocessing

import (
	"bufio"
	"context"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"strykerscli/internal/config"
	"strykerscli/internal/errors"
	"strykerscli/internal/files"
	"strykerscli/pkg/contracts/domain"
)

// ErrNoInputFile is wrapped by the NOT_FOUND error returned when none of the
// candidate CSV locations exists.
var ErrNoInputFile = stderrors.New("no input file found")

// Canonical column names of the ticket export
const (
	ColSection         = "Section"
	ColSeats           = "Number of Seats"
	ColTicketPrice     = "Ticket Price"
	ColTotalBlockPrice = "Total Block Price"
	ColEventDate       = "Event Date"
	ColSaleDate        = "Sale Date"
	ColAwayTeam        = "Away Team"
	ColPromotion       = "Promotion"
)

// RequiredColumns must all be present in the header
var RequiredColumns = []string{
	ColSection,
	ColTicketPrice,
	ColTotalBlockPrice,
	ColEventDate,
	ColSaleDate,
	ColAwayTeam,
	ColSeats,
}

// ctxCheckInterval is how many rows are parsed between cancellation checks
const ctxCheckInterval = 1024

// LoadResult is the raw table read from the first existing candidate
type LoadResult struct {
	Source       files.FileInfo
	Rows         []domain.RawTransaction
	HasPromotion bool
}

// Loader reads the transaction CSV from the first existing candidate path
type Loader struct {
	discovery *files.Discovery
	logger    *slog.Logger
}

// NewLoader creates a loader resolving relative candidates through discovery
func NewLoader(discovery *files.Discovery, logger *slog.Logger) *Loader {
	if discovery == nil {
		discovery = files.NewDiscovery("")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		discovery: discovery,
		logger:    logger.With(slog.String("component", "loader")),
	}
}

// LoadTransactions loads from candidates resolved against the working directory
func LoadTransactions(ctx context.Context, candidates []string) (*LoadResult, error) {
	return NewLoader(nil, nil).Load(ctx, candidates)
}

// Load reads the first existing candidate. There is no retry and no partial
// load: any failure returns an error and no rows.
func (l *Loader) Load(ctx context.Context, candidates []string) (*LoadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, ok := l.discovery.FirstExisting(candidates)
	if !ok {
		return nil, NoInputFileError(candidates)
	}

	f, err := os.Open(info.Path)
	if err != nil {
		return nil, errors.NewStorageError("failed to open transaction file", err).
			WithContext("path", info.Path)
	}
	defer f.Close()

	rows, hasPromotion, err := ParseTransactions(ctx, f)
	if err != nil {
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			appErr.WithContext("path", info.Path)
		}
		return nil, err
	}

	l.logger.InfoContext(ctx, "Loaded transactions",
		slog.String("source", info.Path),
		slog.Int64("size_bytes", info.Size),
		slog.Int("rows", len(rows)),
		slog.Bool("has_promotion", hasPromotion))

	return &LoadResult{Source: info, Rows: rows, HasPromotion: hasPromotion}, nil
}

// NoInputFileError builds the actionable NOT_FOUND error for a failed lookup
func NoInputFileError(candidates []string) *errors.AppError {
	tried := "no candidates configured"
	if len(candidates) > 0 {
		tried = "tried: " + strings.Join(candidates, ", ")
	}
	msg := fmt.Sprintf("transaction CSV not found (%s); place the export next to the binary as %s or point -input/STRYKERS_DATA_INPUTS at it",
		tried, config.FallbackInputName)
	return errors.NewNotFoundError(msg, ErrNoInputFile).WithContext("candidates", candidates)
}

// ParseTransactions reads the CSV export. A UTF-8 BOM is skipped, header
// names are matched after trimming whitespace, and blank lines are ignored.
func ParseTransactions(ctx context.Context, r io.Reader) ([]domain.RawTransaction, bool, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		_, _ = br.Discard(3)
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, false, errors.NewParsingError("transaction file is empty", nil)
	}
	if err != nil {
		return nil, false, errors.NewParsingError("failed to read header", err)
	}

	cols := findColumnIndices(header)
	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, false, errors.NewParsingError(
			fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")), nil).
			WithContext("header", header)
	}
	_, hasPromotion := cols[ColPromotion]

	var rows []domain.RawTransaction
	for n := 0; ; n++ {
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, false, err
			}
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, false, errors.NewParsingError("malformed CSV", err)
		}
		if isBlank(record) {
			continue
		}

		line, _ := reader.FieldPos(0)
		field := func(name string) string {
			idx, ok := cols[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		rows = append(rows, domain.RawTransaction{
			Line:            line,
			Section:         field(ColSection),
			Seats:           field(ColSeats),
			TicketPrice:     field(ColTicketPrice),
			TotalBlockPrice: field(ColTotalBlockPrice),
			EventDate:       field(ColEventDate),
			SaleDate:        field(ColSaleDate),
			AwayTeam:        field(ColAwayTeam),
			Promotion:       field(ColPromotion),
		})
	}

	return rows, hasPromotion, nil
}

// findColumnIndices maps canonical column names to header positions.
// Matching ignores case, surrounding whitespace and zero-width characters.
func findColumnIndices(header []string) map[string]int {
	canonical := append(append([]string(nil), RequiredColumns...), ColPromotion)

	indices := make(map[string]int, len(canonical))
	for i, col := range header {
		clean := strings.TrimSpace(strings.Trim(col, "\ufeff\u200b\u200c\u200d\u2060"))
		for _, name := range canonical {
			if strings.EqualFold(clean, name) {
				if _, seen := indices[name]; !seen {
					indices[name] = i
				}
				break
			}
		}
	}
	return indices
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
