package analytics

import (
	"strykerscli/pkg/contracts/domain"
)

// Overview holds the headline KPIs of a (possibly filtered) set of sales
type Overview struct {
	Transactions   int              `json:"transactions"`
	Tickets        int              `json:"tickets"`
	Revenue        float64          `json:"revenue"`
	MeanATP        domain.NullFloat `json:"mean_atp"`
	RevenueATP     domain.NullFloat `json:"revenue_atp"`
	MeanLeadDays   domain.NullFloat `json:"mean_lead_days"`
	TopOpponent    string           `json:"top_opponent,omitempty"`
	TopOpponentATP domain.NullFloat `json:"top_opponent_atp"`
	// ATPChangePct is the filtered mean ATP relative to the unfiltered one
	ATPChangePct domain.NullFloat `json:"atp_change_pct"`
}

// ComputeOverview summarises filtered against the full data set all
func ComputeOverview(filtered, all []domain.Sale) Overview {
	seats, revenue := totals(filtered)
	mean := MeanATP(filtered)

	ov := Overview{
		Transactions: len(filtered),
		Tickets:      seats,
		Revenue:      revenue,
		MeanATP:      mean,
		RevenueATP:   RevenueWeightedATP(filtered),
		MeanLeadDays: Mean(daysBefore(filtered)),
	}

	if opps := OpponentTiers(filtered); len(opps) > 0 {
		ov.TopOpponent = opps[0].Opponent
		ov.TopOpponentATP = domain.NewNullFloat(opps[0].MeanATP)
	}

	if base := MeanATP(all); mean.Valid && base.Valid {
		if change := domain.Ratio(mean.Float64, base.Float64); change.Valid {
			ov.ATPChangePct = domain.NewNullFloat(roundTo((change.Float64-1)*100, 1))
		}
	}
	return ov
}
