package finance

import (
	"github.com/shopspring/decimal"

	"strykerscli/pkg/contracts/domain"
)

// SegmentSummary is the seat and revenue total of one buyer segment
type SegmentSummary struct {
	Transactions int     `json:"transactions"`
	Seats        int     `json:"seats"`
	Revenue      float64 `json:"revenue"`
}

// ATP is the revenue-weighted average ticket price of the segment
func (s SegmentSummary) ATP() domain.NullFloat {
	return domain.Ratio(s.Revenue, float64(s.Seats))
}

// Segments totals sales per buyer type. Every buyer type is present in the
// result, with zero totals when it has no sales.
func Segments(sales []domain.Sale) map[domain.BuyerType]SegmentSummary {
	out := make(map[domain.BuyerType]SegmentSummary, len(domain.BuyerTypes))
	for _, bt := range domain.BuyerTypes {
		out[bt] = SegmentSummary{}
	}
	for _, s := range sales {
		seg := out[s.Buyer]
		seg.Transactions++
		seg.Seats += s.Seats
		seg.Revenue += s.TotalRevenue
		out[s.Buyer] = seg
	}
	return out
}

// DiscountFloor is the result of initiative 1
type DiscountFloor struct {
	PlannerATP       float64 `json:"planner_atp"`
	CurrentATP       float64 `json:"current_atp"`
	TargetATP        float64 `json:"target_atp"`
	CurrentSeats     int     `json:"current_seats"`
	RetainedSeats    int     `json:"retained_seats"`
	CurrentRevenue   float64 `json:"current_revenue"`
	ProjectedRevenue float64 `json:"projected_revenue"`
	Impact           float64 `json:"impact"`
	Valid            bool    `json:"valid"`
}

// Conversion is one segment pair of initiative 2
type Conversion struct {
	From            domain.BuyerType `json:"from"`
	To              domain.BuyerType `json:"to"`
	FromATP         float64          `json:"from_atp"`
	ToATP           float64          `json:"to_atp"`
	ConvertingSeats int              `json:"converting_seats"`
	Impact          float64          `json:"impact"`
}

// TierConversion is the result of initiative 2
type TierConversion struct {
	Pairs  []Conversion `json:"pairs"`
	Impact float64      `json:"impact"`
	Valid  bool         `json:"valid"`
}

// InGameUpsell is the result of initiative 3
type InGameUpsell struct {
	UpgradesPerGame int     `json:"upgrades_per_game"`
	PerGameRevenue  float64 `json:"per_game_revenue"`
	Games           int     `json:"games"`
	SeasonRevenue   float64 `json:"season_revenue"`
	Valid           bool    `json:"valid"`
}

// Projection is the combined outcome of the three initiatives. Total is
// only valid when all three are.
type Projection struct {
	Params         Params           `json:"params"`
	DiscountFloor  DiscountFloor    `json:"discount_floor"`
	TierConversion TierConversion   `json:"tier_conversion"`
	InGameUpsell   InGameUpsell     `json:"in_game_upsell"`
	Total          domain.NullFloat `json:"total"`
}

// Project runs the three initiatives over the segment totals.
//
// Seat counts (retained, converting, upgrades) are rounded down; money is
// rounded half away from zero to cents.
func Project(segments map[domain.BuyerType]SegmentSummary, params Params) (*Projection, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	p := &Projection{
		Params:         params,
		DiscountFloor:  ProjectDiscountFloor(segments[domain.BuyerLastMinute], segments[domain.BuyerPlanner], params),
		TierConversion: ProjectTierConversion(segments, params),
		InGameUpsell:   ProjectInGameUpsell(params),
	}

	if p.DiscountFloor.Valid && p.TierConversion.Valid && p.InGameUpsell.Valid {
		total := cents(p.DiscountFloor.Impact).
			Add(cents(p.TierConversion.Impact)).
			Add(cents(p.InGameUpsell.SeasonRevenue))
		p.Total = domain.NewNullFloat(total.InexactFloat64())
	}
	return p, nil
}

// ProjectDiscountFloor floors last-minute prices at a share of planner ATP
// and assumes only part of the last-minute seats still sell.
func ProjectDiscountFloor(lastMinute, planner SegmentSummary, params Params) DiscountFloor {
	plannerATP := planner.ATP()
	currentATP := lastMinute.ATP()

	res := DiscountFloor{
		CurrentSeats:   lastMinute.Seats,
		CurrentRevenue: money(lastMinute.Revenue),
	}
	if !plannerATP.Valid || !currentATP.Valid {
		return res
	}

	// The target stays unrounded until it is multiplied by the seats.
	target := decimal.NewFromFloat(plannerATP.Float64).Mul(decimal.NewFromFloat(params.DiscountFloorRatio))
	retained := floorCount(float64(lastMinute.Seats) * params.RetentionRate)
	projected := target.Mul(decimal.NewFromInt(int64(retained))).Round(2)

	res.PlannerATP = money(plannerATP.Float64)
	res.CurrentATP = money(currentATP.Float64)
	res.TargetATP = target.Round(2).InexactFloat64()
	res.RetainedSeats = retained
	res.ProjectedRevenue = projected.InexactFloat64()
	res.Impact = projected.Sub(cents(lastMinute.Revenue)).InexactFloat64()
	res.Valid = true
	return res
}

// conversionPairs are the adjacent segments of initiative 2, lower first
var conversionPairs = [][2]domain.BuyerType{
	{domain.BuyerInBetween, domain.BuyerPlanner},
	{domain.BuyerLastMinute, domain.BuyerInBetween},
}

// ProjectTierConversion moves a share of each lower segment's seats to the
// next segment's ATP.
func ProjectTierConversion(segments map[domain.BuyerType]SegmentSummary, params Params) TierConversion {
	res := TierConversion{Valid: true}
	total := decimal.Zero

	for _, pair := range conversionPairs {
		lower, higher := segments[pair[0]], segments[pair[1]]
		lowerATP, higherATP := lower.ATP(), higher.ATP()

		c := Conversion{From: pair[0], To: pair[1]}
		if !lowerATP.Valid || !higherATP.Valid {
			res.Valid = false
			res.Pairs = append(res.Pairs, c)
			continue
		}

		delta := decimal.NewFromFloat(higherATP.Float64).Sub(decimal.NewFromFloat(lowerATP.Float64))
		c.FromATP = money(lowerATP.Float64)
		c.ToATP = money(higherATP.Float64)
		c.ConvertingSeats = floorCount(float64(lower.Seats) * params.ConversionRate)
		impact := delta.Mul(decimal.NewFromInt(int64(c.ConvertingSeats))).Round(2)
		c.Impact = impact.InexactFloat64()

		total = total.Add(impact)
		res.Pairs = append(res.Pairs, c)
	}

	if res.Valid {
		res.Impact = total.InexactFloat64()
	}
	return res
}

// ProjectInGameUpsell sells seat upgrades to a share of each game's crowd
func ProjectInGameUpsell(params Params) InGameUpsell {
	upgrades := floorCount(params.AverageAttendance * params.EligibleFraction * params.TakeRate)
	perGame := decimal.NewFromInt(int64(upgrades)).Mul(decimal.NewFromFloat(params.UpsellPrice)).Round(2)
	season := perGame.Mul(decimal.NewFromInt(int64(params.GamesPerSeason))).Round(2)

	return InGameUpsell{
		UpgradesPerGame: upgrades,
		PerGameRevenue:  perGame.InexactFloat64(),
		Games:           params.GamesPerSeason,
		SeasonRevenue:   season.InexactFloat64(),
		Valid:           params.AverageAttendance > 0,
	}
}

// floorCount rounds a fractional seat count down. The value is first
// rounded to nine places so float noise cannot drop a whole seat.
func floorCount(v float64) int {
	return int(decimal.NewFromFloat(v).Round(9).Floor().IntPart())
}

func cents(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func money(v float64) float64 {
	return cents(v).InexactFloat64()
}
