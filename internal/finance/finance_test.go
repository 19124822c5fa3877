package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strykerscli/internal/config"
	"strykerscli/internal/errors"
	"strykerscli/pkg/contracts/domain"
)

func TestDiscountFloor(t *testing.T) {
	lastMinute := SegmentSummary{Seats: 1000, Revenue: 50000}
	planner := SegmentSummary{Seats: 10, Revenue: 1000}

	res := ProjectDiscountFloor(lastMinute, planner, DefaultParams())

	require.True(t, res.Valid)
	assert.Equal(t, 100.0, res.PlannerATP)
	assert.Equal(t, 50.0, res.CurrentATP)
	assert.Equal(t, 75.0, res.TargetATP)
	assert.Equal(t, 900, res.RetainedSeats)
	assert.Equal(t, 67500.0, res.ProjectedRevenue)
	assert.Equal(t, 50000.0, res.CurrentRevenue)
	assert.Equal(t, 17500.0, res.Impact)
}

func TestDiscountFloorRoundsProductNotTarget(t *testing.T) {
	// planner ATP 33.3666..., target 25.025 per seat
	res := ProjectDiscountFloor(
		SegmentSummary{Seats: 1000, Revenue: 50000},
		SegmentSummary{Seats: 3, Revenue: 100.1},
		DefaultParams(),
	)

	require.True(t, res.Valid)
	assert.Equal(t, 900, res.RetainedSeats)
	assert.Equal(t, 22522.5, res.ProjectedRevenue)
	assert.Equal(t, -27477.5, res.Impact)
}

func TestDiscountFloorNoData(t *testing.T) {
	res := ProjectDiscountFloor(SegmentSummary{Seats: 10, Revenue: 500}, SegmentSummary{}, DefaultParams())
	assert.False(t, res.Valid)
	assert.Equal(t, 0.0, res.Impact)

	res = ProjectDiscountFloor(SegmentSummary{}, SegmentSummary{Seats: 1, Revenue: 100}, DefaultParams())
	assert.False(t, res.Valid)
}

func TestDiscountFloorRoundsSeatsDown(t *testing.T) {
	res := ProjectDiscountFloor(
		SegmentSummary{Seats: 7, Revenue: 350},
		SegmentSummary{Seats: 1, Revenue: 100},
		DefaultParams(),
	)
	// 7 * 0.9 = 6.3
	assert.Equal(t, 6, res.RetainedSeats)
	assert.Equal(t, 450.0, res.ProjectedRevenue)
	assert.Equal(t, 100.0, res.Impact)
}

func TestTierConversion(t *testing.T) {
	segments := map[domain.BuyerType]SegmentSummary{
		domain.BuyerLastMinute: {Seats: 100, Revenue: 5000},
		domain.BuyerInBetween:  {Seats: 50, Revenue: 3500},
		domain.BuyerPlanner:    {Seats: 40, Revenue: 4000},
	}

	res := ProjectTierConversion(segments, DefaultParams())
	require.True(t, res.Valid)
	require.Len(t, res.Pairs, 2)

	// In-Between -> Planner: floor(50*0.2)=10 seats * (100-70)
	assert.Equal(t, domain.BuyerInBetween, res.Pairs[0].From)
	assert.Equal(t, 10, res.Pairs[0].ConvertingSeats)
	assert.Equal(t, 300.0, res.Pairs[0].Impact)

	// Last-Minute -> In-Between: floor(100*0.2)=20 seats * (70-50)
	assert.Equal(t, domain.BuyerLastMinute, res.Pairs[1].From)
	assert.Equal(t, 20, res.Pairs[1].ConvertingSeats)
	assert.Equal(t, 400.0, res.Pairs[1].Impact)

	assert.Equal(t, 700.0, res.Impact)
}

func TestTierConversionMissingSegment(t *testing.T) {
	segments := map[domain.BuyerType]SegmentSummary{
		domain.BuyerLastMinute: {Seats: 100, Revenue: 5000},
		domain.BuyerPlanner:    {Seats: 40, Revenue: 4000},
	}

	res := ProjectTierConversion(segments, DefaultParams())
	assert.False(t, res.Valid)
	assert.Len(t, res.Pairs, 2)
	assert.Equal(t, 0.0, res.Impact)
}

func TestInGameUpsell(t *testing.T) {
	res := ProjectInGameUpsell(DefaultParams())

	require.True(t, res.Valid)
	// 1922 * 0.798 / 3 = 511.27
	assert.Equal(t, 511, res.UpgradesPerGame)
	assert.Equal(t, 5110.0, res.PerGameRevenue)
	assert.Equal(t, 31, res.Games)
	assert.Equal(t, 158410.0, res.SeasonRevenue)
}

func TestProject(t *testing.T) {
	segments := map[domain.BuyerType]SegmentSummary{
		domain.BuyerLastMinute: {Seats: 1000, Revenue: 50000},
		domain.BuyerInBetween:  {Seats: 50, Revenue: 3500},
		domain.BuyerPlanner:    {Seats: 10, Revenue: 1000},
	}

	p, err := Project(segments, DefaultParams())
	require.NoError(t, err)

	// 17500 + (10*30 + 200*20) + 158410
	require.True(t, p.Total.Valid)
	assert.Equal(t, 17500.0, p.DiscountFloor.Impact)
	assert.Equal(t, 4300.0, p.TierConversion.Impact)
	assert.Equal(t, 180210.0, p.Total.Float64)
}

func TestProjectTotalInvalidWithoutSegments(t *testing.T) {
	p, err := Project(Segments(nil), DefaultParams())
	require.NoError(t, err)

	assert.False(t, p.DiscountFloor.Valid)
	assert.False(t, p.TierConversion.Valid)
	assert.True(t, p.InGameUpsell.Valid)
	assert.False(t, p.Total.Valid)
}

func TestProjectRejectsInvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		field  string
	}{
		{"retention above one", func(p *Params) { p.RetentionRate = 1.5 }, "RetentionRate"},
		{"zero games", func(p *Params) { p.GamesPerSeason = 0 }, "GamesPerSeason"},
		{"negative price", func(p *Params) { p.UpsellPrice = -1 }, "UpsellPrice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := DefaultParams()
			tt.mutate(&params)

			_, err := Project(Segments(nil), params)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrTypeValidation))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestSegments(t *testing.T) {
	sales := []domain.Sale{
		{Buyer: domain.BuyerPlanner, Seats: 2, TotalRevenue: 300},
		{Buyer: domain.BuyerPlanner, Seats: 4, TotalRevenue: 600},
		{Buyer: domain.BuyerLastMinute, Seats: 1, TotalRevenue: 40},
	}

	segs := Segments(sales)
	require.Len(t, segs, 3)

	assert.Equal(t, SegmentSummary{Transactions: 2, Seats: 6, Revenue: 900}, segs[domain.BuyerPlanner])
	assert.Equal(t, 150.0, segs[domain.BuyerPlanner].ATP().Float64)
	assert.False(t, segs[domain.BuyerInBetween].ATP().Valid)
}

func TestParamsFromConfig(t *testing.T) {
	p := ParamsFromConfig(config.FinanceConfig{RetentionRate: 0.8, GamesPerSeason: 17})

	assert.Equal(t, 0.8, p.RetentionRate)
	assert.Equal(t, 17, p.GamesPerSeason)
	assert.Equal(t, 0.75, p.DiscountFloorRatio)
	assert.Equal(t, 1922.0, p.AverageAttendance)
	assert.NoError(t, p.Validate())
}
