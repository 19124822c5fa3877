package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strykerscli/internal/config"
	"strykerscli/pkg/contracts/domain"
)

// saturday and monday are event dates used across tests
var (
	saturday = time.Date(2024, 3, 9, 19, 0, 0, 0, time.UTC)
	monday   = time.Date(2024, 4, 8, 19, 0, 0, 0, time.UTC)
)

func sale(cat domain.SeatingCategory, opponent string, seats int, price float64, days int) domain.Sale {
	return domain.Sale{
		Section:      string(cat),
		Opponent:     opponent,
		Seats:        seats,
		TicketPrice:  price,
		TotalRevenue: price * float64(seats),
		EventDate:    saturday,
		SaleDate:     saturday.AddDate(0, 0, -days),
		DaysBefore:   days,
		Category:     cat,
	}
}

func TestMeanMedianStdDev(t *testing.T) {
	assert.Equal(t, domain.NewNullFloat(2), Mean([]float64{1, 2, 3}))
	assert.False(t, Mean(nil).Valid)

	assert.Equal(t, 2.0, Median([]float64{3, 1, 2}).Float64)
	assert.Equal(t, 2.5, Median([]float64{4, 1, 3, 2}).Float64)
	assert.False(t, Median(nil).Valid)

	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	std := StdDev(values)
	require.True(t, std.Valid)
	assert.InDelta(t, math.Sqrt(32.0/7), std.Float64, 1e-9)
	assert.Equal(t, []float64{2, 4, 4, 4, 5, 5, 7, 9}, values, "input must not be reordered")

	assert.False(t, StdDev([]float64{42}).Valid)
}

func TestATPDefinitionsDiffer(t *testing.T) {
	sales := []domain.Sale{
		sale(domain.CategoryClub, "Bay FC", 1, 100, 5),
		sale(domain.CategoryClub, "Bay FC", 3, 50, 5),
	}

	mean := MeanATP(sales)
	weighted := RevenueWeightedATP(sales)

	require.True(t, mean.Valid)
	require.True(t, weighted.Valid)
	assert.InDelta(t, 75.0, mean.Float64, 1e-9)
	assert.InDelta(t, 62.5, weighted.Float64, 1e-9)
	assert.InDelta(t, 12.5, mean.Float64-weighted.Float64, 1e-9)

	assert.False(t, MeanATP(nil).Valid)
	assert.False(t, RevenueWeightedATP(nil).Valid)
}

func TestGroupByCategory(t *testing.T) {
	sales := []domain.Sale{
		sale(domain.CategoryOther, "Bay FC", 2, 80, 3),
		sale(domain.CategoryClub, "Bay FC", 4, 150, 37),
		sale(domain.CategoryUpperGA, "Galaxy", 2, 50, 0),
		sale(domain.CategoryUpperGA, "Galaxy", 2, 70, 2),
	}

	groups, err := GroupBy(sales, KeyCategory)
	require.NoError(t, err)
	require.Len(t, groups, 3)

	assert.Equal(t, string(domain.CategoryUpperGA), groups[0].Key)
	assert.Equal(t, string(domain.CategoryClub), groups[1].Key)
	assert.Equal(t, string(domain.CategoryOther), groups[2].Key)

	upper := groups[0]
	assert.Equal(t, 2, upper.Transactions)
	assert.Equal(t, 4, upper.Seats)
	assert.InDelta(t, 240.0, upper.Revenue, 1e-9)
	assert.InDelta(t, 60.0, upper.MeanPrice, 1e-9)
	assert.InDelta(t, 60.0, upper.MedianPrice, 1e-9)
	assert.InDelta(t, math.Sqrt(200), upper.StdPrice.Float64, 1e-9)
	assert.InDelta(t, 1.0, upper.MeanDaysBefore, 1e-9)
	assert.InDelta(t, 60.0, upper.RevenueATP.Float64, 1e-9)
	assert.InDelta(t, 40.0, upper.SharePct.Float64, 1e-9)

	assert.False(t, groups[1].StdPrice.Valid, "single sale has no spread")
}

func TestGroupByOrdering(t *testing.T) {
	early := sale(domain.CategoryUpperGA, "Zephyrs", 1, 10, 45)
	early.Buyer = domain.BuyerPlanner
	early.Timing = domain.Timing31To60Days
	early.Promoted = true

	late := sale(domain.CategoryUpperGA, "Aces", 1, 20, 0)
	late.EventDate = monday
	late.Buyer = domain.BuyerLastMinute
	late.Timing = domain.TimingGameDay

	sales := []domain.Sale{early, late}

	tests := []struct {
		key  GroupKey
		want []string
	}{
		{KeyOpponent, []string{"Aces", "Zephyrs"}},
		{KeyDayOfWeek, []string{"Monday", "Saturday"}},
		{KeyMonth, []string{"March", "April"}},
		{KeyBuyer, []string{"Last-Minute", "Planner"}},
		{KeyTiming, []string{"0. Game Day", "5. 31-60 Days"}},
		{KeyPromotion, []string{LabelPromotion, LabelNoPromotion}},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			groups, err := GroupBy(sales, tt.key)
			require.NoError(t, err)

			var keys []string
			for _, g := range groups {
				keys = append(keys, g.Key)
			}
			assert.Equal(t, tt.want, keys)
		})
	}
}

func TestGroupByUnknownKey(t *testing.T) {
	_, err := GroupBy(nil, GroupKey("section"))
	assert.Error(t, err)

	groups, err := GroupBy(nil, KeyCategory)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestWelchTTest(t *testing.T) {
	res := WelchTTest([]float64{1, 2, 3, 4, 5}, []float64{2, 4, 6, 8, 10}, 0.05)

	require.True(t, res.Valid)
	assert.InDelta(t, -1.8973666, res.Statistic, 1e-6)
	assert.InDelta(t, 5.8823529, res.DF, 1e-6)
	assert.InDelta(t, 0.1075, res.PValue, 1e-3)
	assert.False(t, res.Significant)
	assert.Equal(t, 3.0, res.MeanA)
	assert.Equal(t, 6.0, res.MeanB)
	assert.Equal(t, 5, res.NA)

	res = WelchTTest([]float64{150, 160, 170, 155}, []float64{50, 60, 55, 70, 65}, 0.05)
	require.True(t, res.Valid)
	assert.InDelta(t, 17.814, res.Statistic, 1e-3)
	assert.Less(t, res.PValue, 1e-5)
	assert.True(t, res.Significant)
}

func TestWelchTTestNoData(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
	}{
		{"empty", nil, nil},
		{"single observation", []float64{1}, []float64{1, 2, 3}},
		{"zero variance", []float64{5, 5, 5}, []float64{5, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := WelchTTest(tt.a, tt.b, 0.05)
			assert.False(t, res.Valid)
			assert.False(t, res.Significant)
		})
	}

	assert.Equal(t, DefaultAlpha, WelchTTest(nil, nil, 0).Alpha)
}

func TestNamedComparisons(t *testing.T) {
	sales := []domain.Sale{
		sale(domain.CategoryClub, "Bay FC", 1, 150, 40),
		sale(domain.CategoryClub, "Bay FC", 1, 160, 35),
		sale(domain.CategoryUpperGA, "Bay FC", 1, 50, 1),
		sale(domain.CategoryUpperGA, "Bay FC", 1, 60, 3),
		sale(domain.CategoryLowerGA, "Bay FC", 1, 110, 10),
	}

	club := CompareClubVsUpper(sales, 0.05)
	assert.Equal(t, 2, club.Result.NA)
	assert.Equal(t, 2, club.Result.NB)
	assert.InDelta(t, 155.0, club.Result.MeanA, 1e-9)

	timing := CompareEarlyVsLate(sales, DefaultComparisonOptions())
	assert.Equal(t, 2, timing.Result.NA)
	assert.Equal(t, 2, timing.Result.NB, "the 10-day sale is in neither group")
	assert.Equal(t, "more than 30 days", timing.LabelA)
}

func TestPremiumVsPrimary(t *testing.T) {
	sales := []domain.Sale{
		sale(domain.CategoryClub, "Bay FC", 4, 150, 37),
		sale(domain.CategoryUpperGA, "Bay FC", 2, 50, 0),
		sale(domain.CategoryUpperGA, "Bay FC", 2, 70, 2),
		sale(domain.CategoryOther, "Bay FC", 2, 80, 3),
	}

	rows := PremiumVsPrimary(sales)
	require.Len(t, rows, 3)

	assert.Equal(t, domain.CategoryUpperGA, rows[0].Category)
	assert.Equal(t, -20.0, rows[0].PremiumPct.Float64)
	assert.Equal(t, domain.CategoryClub, rows[1].Category)
	assert.Equal(t, 25.0, rows[1].PremiumPct.Float64)
	assert.Equal(t, 120.0, rows[1].PrimaryPrice.Float64)

	other := rows[2]
	assert.Equal(t, domain.CategoryOther, other.Category)
	assert.False(t, other.PrimaryPrice.Valid)
	assert.False(t, other.PremiumPct.Valid)

	assert.Empty(t, PremiumVsPrimary(nil))
}

func TestRevenueGap(t *testing.T) {
	sales := []domain.Sale{
		sale(domain.CategoryClub, "Bay FC", 4, 150, 37),
		sale(domain.CategoryUpperGA, "Bay FC", 2, 50, 0),
		sale(domain.CategoryPitchside, "Bay FC", 1, 300, 1),
		sale(domain.CategoryOther, "Bay FC", 2, 80, 3),
	}

	gap := RevenueGap(sales)
	require.Len(t, gap.Rows, 3)

	byCat := map[domain.SeatingCategory]GapRow{}
	for _, r := range gap.Rows {
		byCat[r.Category] = r
	}
	assert.Equal(t, 0.0, byCat[domain.CategoryUpperGA].Gap)
	assert.Equal(t, 30.0, byCat[domain.CategoryClub].Gap)
	assert.Equal(t, 120.0, byCat[domain.CategoryClub].LostRevenue)
	assert.Equal(t, 50.0, byCat[domain.CategoryPitchside].LostRevenue)
	assert.Equal(t, 170.0, gap.TotalLost)
}

func TestOpponentTiers(t *testing.T) {
	sales := []domain.Sale{
		sale(domain.CategoryUpperGA, "Bay FC", 1, 60, 1),
		sale(domain.CategoryUpperGA, "Aces", 1, 120, 20),
		sale(domain.CategoryUpperGA, "Comets", 1, 90, 5),
	}

	rows := OpponentTiers(sales)
	require.Len(t, rows, 3)

	assert.Equal(t, "Aces", rows[0].Opponent)
	assert.Equal(t, TierPremium, rows[0].Tier)
	assert.Equal(t, 33.3, rows[0].PremiumPct.Float64)

	assert.Equal(t, "Comets", rows[1].Opponent)
	assert.Equal(t, TierStandard, rows[1].Tier)

	assert.Equal(t, "Bay FC", rows[2].Opponent)
	assert.Equal(t, TierValue, rows[2].Tier)
	assert.Equal(t, -33.3, rows[2].PremiumPct.Float64)
}

func TestTierBoundaries(t *testing.T) {
	assert.Equal(t, TierStandard, tierFor(domain.NewNullFloat(10)))
	assert.Equal(t, TierPremium, tierFor(domain.NewNullFloat(10.1)))
	assert.Equal(t, TierStandard, tierFor(domain.NewNullFloat(-9.9)))
	assert.Equal(t, TierValue, tierFor(domain.NewNullFloat(-10)))
	assert.Equal(t, TierStandard, tierFor(domain.NullFloat{}))
}

func TestPriceOnLeadTime(t *testing.T) {
	sales := []domain.Sale{
		sale(domain.CategoryUpperGA, "Bay FC", 1, 50, 0),
		sale(domain.CategoryUpperGA, "Bay FC", 1, 70, 10),
		sale(domain.CategoryUpperGA, "Bay FC", 1, 90, 20),
	}

	reg := PriceOnLeadTime(sales)
	require.True(t, reg.Valid())
	assert.InDelta(t, 50.0, reg.Intercept.Float64, 1e-9)
	assert.InDelta(t, 2.0, reg.Slope.Float64, 1e-9)
	assert.InDelta(t, 1.0, reg.RSquared.Float64, 1e-9)
	assert.Equal(t, 3, reg.N)

	assert.False(t, PriceOnLeadTime(sales[:1]).Valid())

	sameDay := []domain.Sale{
		sale(domain.CategoryUpperGA, "Bay FC", 1, 50, 4),
		sale(domain.CategoryUpperGA, "Bay FC", 1, 70, 4),
	}
	assert.False(t, PriceOnLeadTime(sameDay).Valid())

	flat := []domain.Sale{
		sale(domain.CategoryUpperGA, "Bay FC", 1, 50, 1),
		sale(domain.CategoryUpperGA, "Bay FC", 1, 50, 9),
	}
	reg = PriceOnLeadTime(flat)
	require.True(t, reg.Valid())
	assert.InDelta(t, 0.0, reg.Slope.Float64, 1e-9)
	assert.False(t, reg.RSquared.Valid)
}

func TestFilter(t *testing.T) {
	sales := []domain.Sale{
		sale(domain.CategoryClub, "Bay FC", 1, 150, 1),
		sale(domain.CategoryUpperGA, "Bay FC", 1, 50, 1),
		sale(domain.CategoryClub, "Galaxy", 1, 140, 1),
	}

	assert.Len(t, Filter{}.Apply(sales), 3)
	assert.Len(t, Filter{Categories: []domain.SeatingCategory{domain.CategoryClub}}.Apply(sales), 2)
	assert.Len(t, Filter{Opponents: []string{"Galaxy"}}.Apply(sales), 1)
	assert.Len(t, Filter{
		Categories: []domain.SeatingCategory{domain.CategoryUpperGA},
		Opponents:  []string{"Galaxy"},
	}.Apply(sales), 0)

	opts := AvailableFilters(sales)
	assert.Equal(t, []domain.SeatingCategory{domain.CategoryUpperGA, domain.CategoryClub}, opts.Categories)
	assert.Equal(t, []string{"Bay FC", "Galaxy"}, opts.Opponents)
}

func TestComputeOverview(t *testing.T) {
	all := []domain.Sale{
		sale(domain.CategoryClub, "Bay FC", 2, 100, 10),
		sale(domain.CategoryUpperGA, "Galaxy", 2, 50, 2),
	}
	filtered := Filter{Categories: []domain.SeatingCategory{domain.CategoryClub}}.Apply(all)

	ov := ComputeOverview(filtered, all)
	assert.Equal(t, 1, ov.Transactions)
	assert.Equal(t, 2, ov.Tickets)
	assert.Equal(t, 200.0, ov.Revenue)
	assert.Equal(t, 100.0, ov.MeanATP.Float64)
	assert.Equal(t, 10.0, ov.MeanLeadDays.Float64)
	assert.Equal(t, "Bay FC", ov.TopOpponent)
	assert.Equal(t, 33.3, ov.ATPChangePct.Float64)

	empty := ComputeOverview(nil, all)
	assert.False(t, empty.MeanATP.Valid)
	assert.False(t, empty.ATPChangePct.Valid)
	assert.Empty(t, empty.TopOpponent)
}

func TestSummarize(t *testing.T) {
	sales := []domain.Sale{
		sale(domain.CategoryClub, "Bay FC", 2, 150, 40),
		sale(domain.CategoryUpperGA, "Galaxy", 2, 50, 1),
	}

	s := Summarize(sales, sales, Options{Comparison: DefaultComparisonOptions(), HasPromotion: true})
	assert.Len(t, s.ByCategory, 2)
	assert.Len(t, s.Comparisons, 2)
	assert.NotEmpty(t, s.ByPromotion)
	assert.Equal(t, 0.0, s.Overview.ATPChangePct.Float64)

	s = Summarize(nil, sales, DefaultOptions())
	assert.Empty(t, s.ByCategory)
	assert.Nil(t, s.ByPromotion)
	assert.False(t, s.Regression.Valid())
}

func TestOptionsFromConfig(t *testing.T) {
	assert.Equal(t, DefaultComparisonOptions(), OptionsFromConfig(config.AnalysisConfig{}))

	got := OptionsFromConfig(config.AnalysisConfig{Alpha: 0.01, LateMaxDays: 7})
	assert.Equal(t, ComparisonOptions{Alpha: 0.01, EarlyMinDays: 30, LateMaxDays: 7}, got)
}
