package analytics

import (
	"gonum.org/v1/gonum/stat"

	"strykerscli/pkg/contracts/domain"
)

// Regression is an ordinary least-squares fit of unit price on days-before
type Regression struct {
	Intercept domain.NullFloat `json:"intercept"`
	Slope     domain.NullFloat `json:"slope"`
	RSquared  domain.NullFloat `json:"r_squared"`
	N         int              `json:"n"`
}

// Valid reports whether a line could be fitted
func (r Regression) Valid() bool {
	return r.Slope.Valid
}

// PriceOnLeadTime fits TicketPrice = Intercept + Slope*DaysBefore.
// The fit is undefined with fewer than two sales or when every sale has the
// same days-before. R² is undefined when every price is equal.
func PriceOnLeadTime(sales []domain.Sale) Regression {
	reg := Regression{N: len(sales)}
	if len(sales) < 2 {
		return reg
	}

	x := daysBefore(sales)
	y := prices(sales)

	if _, variance := stat.MeanVariance(x, nil); variance == 0 {
		return reg
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	reg.Intercept = domain.NewNullFloat(alpha)
	reg.Slope = domain.NewNullFloat(beta)

	if _, variance := stat.MeanVariance(y, nil); variance > 0 {
		reg.RSquared = domain.NewNullFloat(stat.RSquared(x, y, nil, alpha, beta))
	}
	return reg
}
