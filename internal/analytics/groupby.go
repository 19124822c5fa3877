package analytics

import (
	"fmt"
	"sort"
	"time"

	"strykerscli/pkg/contracts/domain"
)

// GroupKey selects the dimension sales are grouped by
type GroupKey string

const (
	KeyCategory  GroupKey = "category"
	KeyOpponent  GroupKey = "opponent"
	KeyDayOfWeek GroupKey = "day_of_week"
	KeyMonth     GroupKey = "month"
	KeyBuyer     GroupKey = "buyer"
	KeyTiming    GroupKey = "timing"
	KeyPromotion GroupKey = "promotion"
)

// GroupKeys lists every supported key
var GroupKeys = []GroupKey{
	KeyCategory, KeyOpponent, KeyDayOfWeek, KeyMonth, KeyBuyer, KeyTiming, KeyPromotion,
}

// Promotion group labels
const (
	LabelPromotion   = "Promotion"
	LabelNoPromotion = "No Promotion"
)

// GroupStats is the aggregate of one group of sales
type GroupStats struct {
	Key            string           `json:"key"`
	Transactions   int              `json:"transactions"`
	Seats          int              `json:"seats"`
	Revenue        float64          `json:"revenue"`
	MeanPrice      float64          `json:"mean_price"`
	MedianPrice    float64          `json:"median_price"`
	StdPrice       domain.NullFloat `json:"std_price"`
	MeanDaysBefore float64          `json:"mean_days_before"`
	RevenueATP     domain.NullFloat `json:"revenue_atp"`
	SharePct       domain.NullFloat `json:"share_pct"`
}

// GroupBy aggregates sales per value of key. Only groups with at least one
// sale are returned, in the key's natural order: enum order for categories,
// buyer types and timing buckets, Monday..Sunday, January..December, and
// alphabetical for opponents.
func GroupBy(sales []domain.Sale, key GroupKey) ([]GroupStats, error) {
	label, rank, err := keyFuncs(key)
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]domain.Sale)
	ranks := make(map[string]int)
	for _, s := range sales {
		k := label(s)
		groups[k] = append(groups[k], s)
		ranks[k] = rank(s)
	}

	totalSeats, _ := totals(sales)

	out := make([]GroupStats, 0, len(groups))
	for k, g := range groups {
		out = append(out, summarize(k, g, totalSeats))
	}

	sort.Slice(out, func(i, j int) bool {
		ri, rj := ranks[out[i].Key], ranks[out[j].Key]
		if ri != rj {
			return ri < rj
		}
		return out[i].Key < out[j].Key
	})

	return out, nil
}

// MustGroupBy is GroupBy for keys known at compile time
func MustGroupBy(sales []domain.Sale, key GroupKey) []GroupStats {
	out, err := GroupBy(sales, key)
	if err != nil {
		panic(err)
	}
	return out
}

func summarize(key string, sales []domain.Sale, totalSeats int) GroupStats {
	p := prices(sales)
	seats, revenue := totals(sales)

	return GroupStats{
		Key:            key,
		Transactions:   len(sales),
		Seats:          seats,
		Revenue:        revenue,
		MeanPrice:      Mean(p).ValueOr(0),
		MedianPrice:    Median(p).ValueOr(0),
		StdPrice:       StdDev(p),
		MeanDaysBefore: Mean(daysBefore(sales)).ValueOr(0),
		RevenueATP:     domain.Ratio(revenue, float64(seats)),
		SharePct:       domain.Ratio(float64(seats)*100, float64(totalSeats)),
	}
}

// keyFuncs returns the label and sort rank extractors for key
func keyFuncs(key GroupKey) (func(domain.Sale) string, func(domain.Sale) int, error) {
	switch key {
	case KeyCategory:
		return func(s domain.Sale) string { return string(s.Category) },
			func(s domain.Sale) int { return s.Category.Rank() }, nil
	case KeyOpponent:
		return func(s domain.Sale) string { return s.Opponent },
			func(domain.Sale) int { return 0 }, nil
	case KeyDayOfWeek:
		return func(s domain.Sale) string { return s.DayOfWeek().String() },
			func(s domain.Sale) int { return weekdayRank(s.DayOfWeek()) }, nil
	case KeyMonth:
		return func(s domain.Sale) string { return s.Month().String() },
			func(s domain.Sale) int { return int(s.Month()) }, nil
	case KeyBuyer:
		return func(s domain.Sale) string { return string(s.Buyer) },
			func(s domain.Sale) int { return s.Buyer.Rank() }, nil
	case KeyTiming:
		return func(s domain.Sale) string { return s.Timing.String() },
			func(s domain.Sale) int { return int(s.Timing) }, nil
	case KeyPromotion:
		return promotionLabel, func(s domain.Sale) int {
			if s.Promoted {
				return 0
			}
			return 1
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown group key %q", key)
	}
}

func promotionLabel(s domain.Sale) string {
	if s.Promoted {
		return LabelPromotion
	}
	return LabelNoPromotion
}

// weekdayRank orders Monday first
func weekdayRank(d time.Weekday) int {
	return (int(d) + 6) % 7
}
