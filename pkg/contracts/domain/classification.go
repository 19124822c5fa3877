package domain

import (
	"fmt"
	"strings"
)

// SeatingCategory is the coarse price tier a stadium section belongs to.
type SeatingCategory string

const (
	CategoryUpperGA   SeatingCategory = "Upper Level GA"
	CategoryLowerGA   SeatingCategory = "Lower Level GA"
	CategoryClub      SeatingCategory = "Club"
	CategoryPitchside SeatingCategory = "Pitchside"
	CategoryOther     SeatingCategory = "Other"
)

// SeatingCategories lists every category in display order.
var SeatingCategories = []SeatingCategory{
	CategoryUpperGA,
	CategoryLowerGA,
	CategoryClub,
	CategoryPitchside,
	CategoryOther,
}

// Rank returns the display position of the category.
func (c SeatingCategory) Rank() int {
	for i, cat := range SeatingCategories {
		if cat == c {
			return i
		}
	}
	return len(SeatingCategories)
}

// IsValid reports whether c is one of the known categories.
func (c SeatingCategory) IsValid() bool {
	return c.Rank() < len(SeatingCategories)
}

// PrimaryPrices are the box-office prices per seating category.
var PrimaryPrices = map[SeatingCategory]float64{
	CategoryUpperGA:   75,
	CategoryLowerGA:   125,
	CategoryClub:      120,
	CategoryPitchside: 250,
}

// TimingBucket is the 7-way ordinal bucket of days between sale and event.
type TimingBucket int

const (
	TimingGameDay TimingBucket = iota
	Timing1To3Days
	Timing4To7Days
	Timing8To14Days
	Timing15To30Days
	Timing31To60Days
	Timing60PlusDays
)

var timingLabels = [...]string{
	"0. Game Day",
	"1. 1-3 Days",
	"2. 4-7 Days",
	"3. 8-14 Days",
	"4. 15-30 Days",
	"5. 31-60 Days",
	"6. 60+ Days",
}

// TimingBuckets lists every bucket in ordinal order.
var TimingBuckets = []TimingBucket{
	TimingGameDay,
	Timing1To3Days,
	Timing4To7Days,
	Timing8To14Days,
	Timing15To30Days,
	Timing31To60Days,
	Timing60PlusDays,
}

// String returns the ordinal label, e.g. "0. Game Day".
func (b TimingBucket) String() string {
	if b < 0 || int(b) >= len(timingLabels) {
		return fmt.Sprintf("TimingBucket(%d)", int(b))
	}
	return timingLabels[b]
}

// MarshalText renders the bucket as its label.
func (b TimingBucket) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText parses a bucket label.
func (b *TimingBucket) UnmarshalText(text []byte) error {
	for i, label := range timingLabels {
		if label == string(text) {
			*b = TimingBucket(i)
			return nil
		}
	}
	return fmt.Errorf("unknown timing bucket %q", string(text))
}

// BuyerType segments a sale by how far ahead of the event it happened.
type BuyerType string

const (
	BuyerLastMinute BuyerType = "Last-Minute"
	BuyerInBetween  BuyerType = "In-Between"
	BuyerPlanner    BuyerType = "Planner"
)

// BuyerTypes lists the segments from latest to earliest purchase.
var BuyerTypes = []BuyerType{BuyerLastMinute, BuyerInBetween, BuyerPlanner}

// Rank returns the display position of the buyer type.
func (t BuyerType) Rank() int {
	for i, bt := range BuyerTypes {
		if bt == t {
			return i
		}
	}
	return len(BuyerTypes)
}

// BuyerPolicy selects which set of day thresholds classifies buyers.
// The dashboard and the static report historically used different
// thresholds; both are kept and chosen explicitly by the caller.
type BuyerPolicy string

const (
	// PolicyDashboard: <=2 Last-Minute, >14 Planner, otherwise In-Between.
	PolicyDashboard BuyerPolicy = "dashboard"
	// PolicyReport: >=15 Planner, >=3 In-Between, otherwise Last-Minute.
	PolicyReport BuyerPolicy = "report"
)

// ParseBuyerPolicy accepts the policy name or its variant letter.
func ParseBuyerPolicy(s string) (BuyerPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dashboard", "a":
		return PolicyDashboard, nil
	case "report", "b":
		return PolicyReport, nil
	default:
		return "", fmt.Errorf("unknown buyer policy %q (want dashboard|a or report|b)", s)
	}
}
