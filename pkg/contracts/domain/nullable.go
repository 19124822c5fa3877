package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

// NullFloat is a ratio or statistic that may be undefined because its
// denominator had no data. Valid is false in that case.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// NewNullFloat wraps v, treating NaN and Inf as missing.
func NewNullFloat(v float64) NullFloat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NullFloat{}
	}
	return NullFloat{Float64: v, Valid: true}
}

// Ratio returns num/den, or an invalid value when den is zero.
func Ratio(num, den float64) NullFloat {
	if den == 0 {
		return NullFloat{}
	}
	return NewNullFloat(num / den)
}

// ValueOr returns the value or fallback when missing.
func (n NullFloat) ValueOr(fallback float64) float64 {
	if !n.Valid {
		return fallback
	}
	return n.Float64
}

// Display renders the value with a printf verb, or "n/a" when missing.
func (n NullFloat) Display(verb string) string {
	if !n.Valid {
		return "n/a"
	}
	return fmt.Sprintf(verb, n.Float64)
}

// MarshalJSON encodes missing values as null.
func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Float64)
}

// UnmarshalJSON accepts a number or null.
func (n *NullFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = NullFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = NewNullFloat(v)
	return nil
}
