package dataprocessing

import (
	stderrors "errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"strykerscli/pkg/contracts/domain"
)

// Exclusion reasons, also used as metric attribute values
const (
	ReasonBadPrice     = "bad_price"
	ReasonBadSeats     = "bad_seats"
	ReasonBadDate      = "bad_date"
	ReasonNegativeDays = "negative_days"
)

// DeriveStats counts rows in and out of the deriver
type DeriveStats struct {
	Input        int `json:"input"`
	Kept         int `json:"kept"`
	BadPrice     int `json:"bad_price"`
	BadSeats     int `json:"bad_seats"`
	BadDate      int `json:"bad_date"`
	NegativeDays int `json:"negative_days"`
}

// Excluded returns the number of dropped rows
func (s DeriveStats) Excluded() int {
	return s.BadPrice + s.BadSeats + s.BadDate + s.NegativeDays
}

// ByReason returns exclusion counts keyed by reason
func (s DeriveStats) ByReason() map[string]int {
	return map[string]int{
		ReasonBadPrice:     s.BadPrice,
		ReasonBadSeats:     s.BadSeats,
		ReasonBadDate:      s.BadDate,
		ReasonNegativeDays: s.NegativeDays,
	}
}

// dateLayouts are tried in order when parsing event and sale dates
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 3:04 PM",
	"2006-01-02 3:04:05 PM",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04 PM",
	"1/2/2006 3:04:05 PM",
	"1/2/06",
	"Jan 2, 2006",
	"January 2, 2006",
	"Mon, Jan 2, 2006",
	"Monday, January 2, 2006",
	"2-Jan-2006",
	"02-Jan-06",
	"2006/01/02",
}

var errEmptyValue = stderrors.New("empty value")

// ParseCurrency strips "$" and "," and parses the remainder as a decimal.
// Negative amounts are rejected.
func ParseCurrency(s string) (float64, error) {
	cleaned := strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(s))
	if cleaned == "" {
		return 0, errEmptyValue
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("parse currency %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("negative amount %q", s)
	}

	f, _ := d.Float64()
	return f, nil
}

// ParseSeats parses a positive whole seat count; "2.0" is accepted
func ParseSeats(s string) (int, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" {
		return 0, errEmptyValue
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("parse seats %q: %w", s, err)
	}
	if !d.IsInteger() || !d.IsPositive() {
		return 0, fmt.Errorf("seat count %q is not a positive whole number", s)
	}
	return int(d.IntPart()), nil
}

// ParseDate tries each known layout in turn
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errEmptyValue
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// DaysBefore returns the whole days from sale to event, rounded down
func DaysBefore(event, sale time.Time) int {
	return int(math.Floor(event.Sub(sale).Hours() / 24))
}

// Derive cleans, parses and classifies every raw row. Rows failing any
// parse, or sold after the event, are excluded and only counted.
func Derive(raw []domain.RawTransaction, policy domain.BuyerPolicy) ([]domain.Sale, DeriveStats) {
	stats := DeriveStats{Input: len(raw)}
	sales := make([]domain.Sale, 0, len(raw))

	for _, r := range raw {
		sale, reason := deriveSale(r, policy)
		switch reason {
		case "":
			sales = append(sales, sale)
		case ReasonBadPrice:
			stats.BadPrice++
		case ReasonBadSeats:
			stats.BadSeats++
		case ReasonBadDate:
			stats.BadDate++
		case ReasonNegativeDays:
			stats.NegativeDays++
		}
	}

	stats.Kept = len(sales)
	return sales, stats
}

func deriveSale(r domain.RawTransaction, policy domain.BuyerPolicy) (domain.Sale, string) {
	price, err := ParseCurrency(r.TicketPrice)
	if err != nil {
		return domain.Sale{}, ReasonBadPrice
	}
	revenue, err := ParseCurrency(r.TotalBlockPrice)
	if err != nil {
		return domain.Sale{}, ReasonBadPrice
	}

	seats, err := ParseSeats(r.Seats)
	if err != nil {
		return domain.Sale{}, ReasonBadSeats
	}

	event, err := ParseDate(r.EventDate)
	if err != nil {
		return domain.Sale{}, ReasonBadDate
	}
	sold, err := ParseDate(r.SaleDate)
	if err != nil {
		return domain.Sale{}, ReasonBadDate
	}

	days := DaysBefore(event, sold)
	if days < 0 {
		return domain.Sale{}, ReasonNegativeDays
	}

	promotion := strings.TrimSpace(r.Promotion)
	return domain.Sale{
		Section:      strings.TrimSpace(r.Section),
		Opponent:     strings.TrimSpace(r.AwayTeam),
		Seats:        seats,
		TicketPrice:  price,
		TotalRevenue: revenue,
		EventDate:    event,
		SaleDate:     sold,
		DaysBefore:   days,
		Category:     ClassifySection(r.Section),
		Timing:       TimingBucketFor(days),
		Buyer:        ClassifyBuyer(days, policy),
		Promotion:    promotion,
		Promoted:     isPromoted(promotion),
	}, ""
}

func isPromoted(promotion string) bool {
	switch strings.ToLower(promotion) {
	case "", "none", "no", "n/a", "na", "false", "0":
		return false
	}
	return true
}
