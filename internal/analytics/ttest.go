package analytics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"strykerscli/internal/config"
	"strykerscli/pkg/contracts/domain"
)

// DefaultAlpha is the significance level used when none is configured
const DefaultAlpha = 0.05

// TTestResult holds a two-sample comparison of means. Valid is false when
// either sample has fewer than two observations or both have zero variance.
type TTestResult struct {
	Statistic   float64 `json:"statistic"`
	PValue      float64 `json:"p_value"`
	DF          float64 `json:"df"`
	Alpha       float64 `json:"alpha"`
	Significant bool    `json:"significant"`
	MeanA       float64 `json:"mean_a"`
	MeanB       float64 `json:"mean_b"`
	NA          int     `json:"n_a"`
	NB          int     `json:"n_b"`
	Valid       bool    `json:"valid"`
}

// WelchTTest runs an independent two-sample t-test without assuming equal
// variances. The p-value is two-sided and df follows Welch-Satterthwaite.
func WelchTTest(a, b []float64, alpha float64) TTestResult {
	if alpha <= 0 || alpha >= 1 {
		alpha = DefaultAlpha
	}

	res := TTestResult{Alpha: alpha, NA: len(a), NB: len(b)}
	if len(a) > 0 {
		res.MeanA = stat.Mean(a, nil)
	}
	if len(b) > 0 {
		res.MeanB = stat.Mean(b, nil)
	}
	if len(a) < 2 || len(b) < 2 {
		return res
	}

	_, varA := stat.MeanVariance(a, nil)
	_, varB := stat.MeanVariance(b, nil)
	na, nb := float64(len(a)), float64(len(b))

	seA := varA / na
	seB := varB / nb
	se2 := seA + seB
	if se2 == 0 || math.IsNaN(se2) {
		return res
	}

	t := (res.MeanA - res.MeanB) / math.Sqrt(se2)
	df := se2 * se2 / (seA*seA/(na-1) + seB*seB/(nb-1))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.Survival(math.Abs(t))
	if p > 1 {
		p = 1
	}

	res.Statistic = t
	res.DF = df
	res.PValue = p
	res.Significant = p < alpha
	res.Valid = true
	return res
}

// Comparison is a named t-test between two subsets of sales
type Comparison struct {
	Name   string      `json:"name"`
	LabelA string      `json:"label_a"`
	LabelB string      `json:"label_b"`
	Result TTestResult `json:"result"`
}

// ComparisonOptions sets the thresholds of the timing comparison
type ComparisonOptions struct {
	Alpha        float64
	EarlyMinDays int // early means strictly more days before than this
	LateMaxDays  int // late means at most this many days before
}

// DefaultComparisonOptions compares >30 days against 0-3 days at 5%
func DefaultComparisonOptions() ComparisonOptions {
	return ComparisonOptions{Alpha: DefaultAlpha, EarlyMinDays: 30, LateMaxDays: 3}
}

// OptionsFromConfig overlays the configured thresholds on the defaults
func OptionsFromConfig(cfg config.AnalysisConfig) ComparisonOptions {
	opts := DefaultComparisonOptions()
	if cfg.Alpha > 0 {
		opts.Alpha = cfg.Alpha
	}
	if cfg.EarlyMinDays > 0 {
		opts.EarlyMinDays = cfg.EarlyMinDays
	}
	if cfg.LateMaxDays > 0 {
		opts.LateMaxDays = cfg.LateMaxDays
	}
	return opts
}

// CompareClubVsUpper tests whether Club prices differ from Upper Level GA
func CompareClubVsUpper(sales []domain.Sale, alpha float64) Comparison {
	var club, upper []float64
	for _, s := range sales {
		switch s.Category {
		case domain.CategoryClub:
			club = append(club, s.TicketPrice)
		case domain.CategoryUpperGA:
			upper = append(upper, s.TicketPrice)
		}
	}

	return Comparison{
		Name:   "Club vs Upper Level GA",
		LabelA: string(domain.CategoryClub),
		LabelB: string(domain.CategoryUpperGA),
		Result: WelchTTest(club, upper, alpha),
	}
}

// CompareEarlyVsLate tests whether early purchasers pay differently from
// late ones
func CompareEarlyVsLate(sales []domain.Sale, opts ComparisonOptions) Comparison {
	var early, late []float64
	for _, s := range sales {
		switch {
		case s.DaysBefore > opts.EarlyMinDays:
			early = append(early, s.TicketPrice)
		case s.DaysBefore <= opts.LateMaxDays:
			late = append(late, s.TicketPrice)
		}
	}

	return Comparison{
		Name:   "Early vs Late purchasers",
		LabelA: fmt.Sprintf("more than %d days", opts.EarlyMinDays),
		LabelB: fmt.Sprintf("%d days or fewer", opts.LateMaxDays),
		Result: WelchTTest(early, late, opts.Alpha),
	}
}
