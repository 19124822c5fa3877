package finance

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"strykerscli/internal/config"
	"strykerscli/internal/errors"
)

// Params are the fixed assumptions behind the three initiatives
type Params struct {
	// DiscountFloorRatio is the share of planner ATP last-minute seats are floored at
	DiscountFloorRatio float64 `json:"discount_floor_ratio" validate:"gt=0,lte=1"`
	// RetentionRate is the share of last-minute seats still sold under the floor
	RetentionRate float64 `json:"retention_rate" validate:"gt=0,lte=1"`
	// ConversionRate is the share of a segment's seats moving up one segment
	ConversionRate float64 `json:"conversion_rate" validate:"gt=0,lte=1"`

	AverageAttendance float64 `json:"average_attendance" validate:"gt=0"`
	EligibleFraction  float64 `json:"eligible_fraction" validate:"gt=0,lte=1"`
	TakeRate          float64 `json:"take_rate" validate:"gt=0,lte=1"`
	UpsellPrice       float64 `json:"upsell_price" validate:"gt=0"`
	GamesPerSeason    int     `json:"games_per_season" validate:"gt=0"`
}

// DefaultParams returns the built-in assumptions
func DefaultParams() Params {
	return Params{
		DiscountFloorRatio: 0.75,
		RetentionRate:      0.90,
		ConversionRate:     0.20,
		AverageAttendance:  1922,
		EligibleFraction:   0.798,
		TakeRate:           1.0 / 3.0,
		UpsellPrice:        10,
		GamesPerSeason:     31,
	}
}

// ParamsFromConfig overlays the non-zero configured overrides on the defaults
func ParamsFromConfig(cfg config.FinanceConfig) Params {
	p := DefaultParams()
	overlay := func(dst *float64, v float64) {
		if v != 0 {
			*dst = v
		}
	}
	overlay(&p.DiscountFloorRatio, cfg.DiscountFloorRatio)
	overlay(&p.RetentionRate, cfg.RetentionRate)
	overlay(&p.ConversionRate, cfg.ConversionRate)
	overlay(&p.AverageAttendance, cfg.AverageAttendance)
	overlay(&p.EligibleFraction, cfg.EligibleFraction)
	overlay(&p.TakeRate, cfg.TakeRate)
	overlay(&p.UpsellPrice, cfg.UpsellPrice)
	if cfg.GamesPerSeason != 0 {
		p.GamesPerSeason = cfg.GamesPerSeason
	}
	return p
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func paramsValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Validate checks every parameter is in range
func (p Params) Validate() error {
	err := paramsValidator().Struct(p)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.NewAppValidationError("invalid finance parameters", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s (got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
	}
	return errors.NewAppValidationError("invalid finance parameters: "+strings.Join(msgs, "; "), err)
}
