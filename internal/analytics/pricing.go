package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"strykerscli/pkg/contracts/domain"
)

// Opponent demand tiers
type OpponentTier string

const (
	TierPremium  OpponentTier = "Premium"
	TierStandard OpponentTier = "Standard"
	TierValue    OpponentTier = "Value"
)

// Tier thresholds in percent of the overall mean ATP
const (
	premiumTierPct = 10.0
	valueTierPct   = -10.0
)

// PremiumRow compares secondary-market ATP with the box-office price
type PremiumRow struct {
	Category     domain.SeatingCategory `json:"category"`
	Transactions int                    `json:"transactions"`
	Seats        int                    `json:"seats"`
	MeanATP      domain.NullFloat       `json:"mean_atp"`
	MedianATP    domain.NullFloat       `json:"median_atp"`
	StdATP       domain.NullFloat       `json:"std_atp"`
	PrimaryPrice domain.NullFloat       `json:"primary_price"`
	PremiumPct   domain.NullFloat       `json:"premium_pct"`
}

// PremiumVsPrimary computes the premium of each category present in sales.
// Categories without a box-office price get an invalid premium.
//
// PremiumPct = (meanATP - primary) / primary * 100, rounded to one decimal.
func PremiumVsPrimary(sales []domain.Sale) []PremiumRow {
	byCat := splitByCategory(sales)

	var rows []PremiumRow
	for _, cat := range domain.SeatingCategories {
		group, ok := byCat[cat]
		if !ok {
			continue
		}
		p := prices(group)
		seats, _ := totals(group)
		mean := Mean(p)

		row := PremiumRow{
			Category:     cat,
			Transactions: len(group),
			Seats:        seats,
			MeanATP:      mean,
			MedianATP:    Median(p),
			StdATP:       StdDev(p),
		}
		if primary, ok := domain.PrimaryPrices[cat]; ok {
			row.PrimaryPrice = domain.NewNullFloat(primary)
			row.PremiumPct = premiumPct(mean, primary)
		}
		rows = append(rows, row)
	}
	return rows
}

func premiumPct(mean domain.NullFloat, base float64) domain.NullFloat {
	if !mean.Valid {
		return domain.NullFloat{}
	}
	pct := domain.Ratio((mean.Float64-base)*100, base)
	if !pct.Valid {
		return pct
	}
	return domain.NewNullFloat(roundTo(pct.Float64, 1))
}

// GapRow is the revenue left to the secondary market for one category
type GapRow struct {
	Category     domain.SeatingCategory `json:"category"`
	SecondaryATP float64                `json:"secondary_atp"`
	PrimaryPrice float64                `json:"primary_price"`
	Gap          float64                `json:"gap"`
	Seats        int                    `json:"seats"`
	LostRevenue  float64                `json:"lost_revenue"`
}

// GapAnalysis totals the revenue gap over priced categories
type GapAnalysis struct {
	Rows      []GapRow `json:"rows"`
	TotalLost float64  `json:"total_lost"`
}

// RevenueGap estimates, per priced category with sales, how much the
// secondary mean ATP exceeds the box-office price. Gaps are never negative.
func RevenueGap(sales []domain.Sale) GapAnalysis {
	byCat := splitByCategory(sales)

	var out GapAnalysis
	total := decimal.Zero
	for _, cat := range domain.SeatingCategories {
		primary, priced := domain.PrimaryPrices[cat]
		group, ok := byCat[cat]
		if !priced || !ok {
			continue
		}

		atp := MeanATP(group).ValueOr(0)
		seats, _ := totals(group)
		gap := atp - primary
		if gap < 0 {
			gap = 0
		}
		lost := decimal.NewFromFloat(gap).Mul(decimal.NewFromInt(int64(seats))).Round(2)
		total = total.Add(lost)

		out.Rows = append(out.Rows, GapRow{
			Category:     cat,
			SecondaryATP: atp,
			PrimaryPrice: primary,
			Gap:          gap,
			Seats:        seats,
			LostRevenue:  lost.InexactFloat64(),
		})
	}
	out.TotalLost = total.InexactFloat64()
	return out
}

// OpponentRow is one opponent's demand relative to the overall mean ATP
type OpponentRow struct {
	Opponent     string           `json:"opponent"`
	Transactions int              `json:"transactions"`
	Seats        int              `json:"seats"`
	MeanATP      float64          `json:"mean_atp"`
	MedianATP    float64          `json:"median_atp"`
	AvgLeadDays  float64          `json:"avg_lead_days"`
	PremiumPct   domain.NullFloat `json:"premium_pct"`
	Tier         OpponentTier     `json:"tier"`
}

// OpponentTiers ranks opponents by mean ATP, highest first, and assigns a
// tier: more than 10% above the overall mean is Premium, more than 10%
// below is Value, anything else Standard.
func OpponentTiers(sales []domain.Sale) []OpponentRow {
	overall := MeanATP(sales)

	byOpp := make(map[string][]domain.Sale)
	for _, s := range sales {
		byOpp[s.Opponent] = append(byOpp[s.Opponent], s)
	}

	rows := make([]OpponentRow, 0, len(byOpp))
	for opp, group := range byOpp {
		p := prices(group)
		seats, _ := totals(group)
		mean := Mean(p)

		pct := premiumPct(mean, overall.ValueOr(0))
		rows = append(rows, OpponentRow{
			Opponent:     opp,
			Transactions: len(group),
			Seats:        seats,
			MeanATP:      mean.ValueOr(0),
			MedianATP:    Median(p).ValueOr(0),
			AvgLeadDays:  Mean(daysBefore(group)).ValueOr(0),
			PremiumPct:   pct,
			Tier:         tierFor(pct),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].MeanATP != rows[j].MeanATP {
			return rows[i].MeanATP > rows[j].MeanATP
		}
		return rows[i].Opponent < rows[j].Opponent
	})
	return rows
}

func tierFor(pct domain.NullFloat) OpponentTier {
	switch {
	case !pct.Valid:
		return TierStandard
	case pct.Float64 > premiumTierPct:
		return TierPremium
	case pct.Float64 > valueTierPct:
		return TierStandard
	default:
		return TierValue
	}
}

func splitByCategory(sales []domain.Sale) map[domain.SeatingCategory][]domain.Sale {
	out := make(map[domain.SeatingCategory][]domain.Sale)
	for _, s := range sales {
		out[s.Category] = append(out[s.Category], s)
	}
	return out
}

// roundTo rounds half away from zero
func roundTo(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
