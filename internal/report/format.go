package report

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"

	"strykerscli/internal/analytics"
	"strykerscli/pkg/contracts/domain"
)

const notAvailable = "n/a"

// templateFuncs are the formatting helpers shared by every template
var templateFuncs = template.FuncMap{
	"money":    money,
	"moneyN":   moneyNull,
	"moneyK":   moneyThousands,
	"num":      number,
	"fixed":    fixed,
	"fixedN":   fixedNull,
	"pct":      signedPct,
	"pvalue":   pValue,
	"group":    newGroupView,
	"selected": contains,
}

// money renders "$1,234.56"
func money(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	s := decimal.NewFromFloat(v).StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	return sign + "$" + groupThousands(intPart) + "." + frac
}

func moneyNull(n domain.NullFloat) string {
	if !n.Valid {
		return notAvailable
	}
	return money(n.Float64)
}

// moneyThousands renders "$158K"
func moneyThousands(v float64) string {
	return "$" + groupThousands(decimal.NewFromFloat(v/1000).StringFixed(0)) + "K"
}

// number renders an integer with thousands separators
func number(v int) string {
	s := fmt.Sprintf("%d", v)
	if v < 0 {
		return "-" + groupThousands(s[1:])
	}
	return groupThousands(s)
}

func fixed(places int, v float64) string {
	return decimal.NewFromFloat(v).StringFixed(int32(places))
}

func fixedNull(places int, n domain.NullFloat) string {
	if !n.Valid {
		return notAvailable
	}
	return fixed(places, n.Float64)
}

// signedPct renders "+25.0%"
func signedPct(n domain.NullFloat) string {
	return n.Display("%+.1f%%")
}

func pValue(p float64) string {
	if p < 0.001 {
		return fmt.Sprintf("%.2e", p)
	}
	return fmt.Sprintf("%.4f", p)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// groupView is the argument of the shared group table template
type groupView struct {
	Title     string
	KeyHeader string
	Rows      []analytics.GroupStats
}

func newGroupView(title, keyHeader string, rows []analytics.GroupStats) groupView {
	return groupView{Title: title, KeyHeader: keyHeader, Rows: rows}
}
