package analytics

import (
	"strykerscli/pkg/contracts/domain"
)

// Options tune the statistical parts of a Summary
type Options struct {
	Comparison   ComparisonOptions
	HasPromotion bool
}

// DefaultOptions returns the standard comparison thresholds
func DefaultOptions() Options {
	return Options{Comparison: DefaultComparisonOptions()}
}

// Summary is every aggregate shown by the presenters
type Summary struct {
	Overview    Overview      `json:"overview"`
	ByCategory  []GroupStats  `json:"by_category"`
	ByTiming    []GroupStats  `json:"by_timing"`
	ByBuyer     []GroupStats  `json:"by_buyer"`
	ByOpponent  []GroupStats  `json:"by_opponent"`
	ByDayOfWeek []GroupStats  `json:"by_day_of_week"`
	ByMonth     []GroupStats  `json:"by_month"`
	ByPromotion []GroupStats  `json:"by_promotion,omitempty"`
	Premium     []PremiumRow  `json:"premium"`
	RevenueGap  GapAnalysis   `json:"revenue_gap"`
	Opponents   []OpponentRow `json:"opponents"`
	Comparisons []Comparison  `json:"comparisons"`
	Regression  Regression    `json:"regression"`
}

// Summarize computes the full aggregate view of filtered. all is the
// unfiltered data set the overview is compared against.
func Summarize(filtered, all []domain.Sale, opts Options) *Summary {
	s := &Summary{
		Overview:    ComputeOverview(filtered, all),
		ByCategory:  MustGroupBy(filtered, KeyCategory),
		ByTiming:    MustGroupBy(filtered, KeyTiming),
		ByBuyer:     MustGroupBy(filtered, KeyBuyer),
		ByOpponent:  MustGroupBy(filtered, KeyOpponent),
		ByDayOfWeek: MustGroupBy(filtered, KeyDayOfWeek),
		ByMonth:     MustGroupBy(filtered, KeyMonth),
		Premium:     PremiumVsPrimary(filtered),
		RevenueGap:  RevenueGap(filtered),
		Opponents:   OpponentTiers(filtered),
		Comparisons: []Comparison{
			CompareClubVsUpper(filtered, opts.Comparison.Alpha),
			CompareEarlyVsLate(filtered, opts.Comparison),
		},
		Regression: PriceOnLeadTime(filtered),
	}
	if opts.HasPromotion {
		s.ByPromotion = MustGroupBy(filtered, KeyPromotion)
	}
	return s
}
