package analytics

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"strykerscli/pkg/contracts/domain"
)

// Mean returns the arithmetic mean, invalid for an empty slice
func Mean(values []float64) domain.NullFloat {
	if len(values) == 0 {
		return domain.NullFloat{}
	}
	return domain.NewNullFloat(stat.Mean(values, nil))
}

// Median returns the middle value, averaging the two middle values for an
// even count. The input is not modified.
func Median(values []float64) domain.NullFloat {
	n := len(values)
	if n == 0 {
		return domain.NullFloat{}
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	if n%2 == 1 {
		return domain.NewNullFloat(sorted[n/2])
	}
	return domain.NewNullFloat((sorted[n/2-1] + sorted[n/2]) / 2)
}

// StdDev returns the sample standard deviation (n-1 denominator).
// Fewer than two values have no spread and yield an invalid result.
func StdDev(values []float64) domain.NullFloat {
	if len(values) < 2 {
		return domain.NullFloat{}
	}
	return domain.NewNullFloat(stat.StdDev(values, nil))
}

// MeanATP is the arithmetic mean of per-row unit prices
func MeanATP(sales []domain.Sale) domain.NullFloat {
	return Mean(prices(sales))
}

// RevenueWeightedATP is total block revenue divided by total seats
func RevenueWeightedATP(sales []domain.Sale) domain.NullFloat {
	var revenue float64
	var seats int
	for _, s := range sales {
		revenue += s.TotalRevenue
		seats += s.Seats
	}
	return domain.Ratio(revenue, float64(seats))
}

func prices(sales []domain.Sale) []float64 {
	out := make([]float64, len(sales))
	for i, s := range sales {
		out[i] = s.TicketPrice
	}
	return out
}

func daysBefore(sales []domain.Sale) []float64 {
	out := make([]float64, len(sales))
	for i, s := range sales {
		out[i] = float64(s.DaysBefore)
	}
	return out
}

func totals(sales []domain.Sale) (seats int, revenue float64) {
	for _, s := range sales {
		seats += s.Seats
		revenue += s.TotalRevenue
	}
	return seats, revenue
}
