package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"strykerscli/pkg/contracts/domain"
)

func TestClassifySection(t *testing.T) {
	tests := []struct {
		section string
		want    domain.SeatingCategory
	}{
		{"Upper 101", domain.CategoryUpperGA},
		{"Upper Deck", domain.CategoryUpperGA},
		{"Lower M", domain.CategoryClub},
		{"Lower O", domain.CategoryClub},
		{"Lower O2", domain.CategoryClub},
		{"Lower P14", domain.CategoryClub},
		{"Lower A", domain.CategoryPitchside},
		{"Lower E3", domain.CategoryPitchside},
		{"Lower H", domain.CategoryLowerGA},
		{"Lower K12", domain.CategoryLowerGA},
		{"Lower Z", domain.CategoryLowerGA},
		{"Lower", domain.CategoryLowerGA},
		{"Lowerdeck", domain.CategoryLowerGA},
		{"Lower m", domain.CategoryLowerGA},
		{"Lower Bowl 3", domain.CategoryLowerGA},
		{"Lower  B", domain.CategoryPitchside},
		{"Lower Pitchside", domain.CategoryLowerGA},
		{"lower o", domain.CategoryOther},
		{"Pitchside Box 3", domain.CategoryPitchside},
		{"Field Pitchside", domain.CategoryPitchside},
		{"  Upper 5  ", domain.CategoryUpperGA},
		{"Suite 9", domain.CategoryOther},
		{"", domain.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.section, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifySection(tt.section))
		})
	}
}

func TestTimingBucketFor(t *testing.T) {
	tests := []struct {
		days int
		want domain.TimingBucket
	}{
		{0, domain.TimingGameDay},
		{1, domain.Timing1To3Days},
		{3, domain.Timing1To3Days},
		{4, domain.Timing4To7Days},
		{7, domain.Timing4To7Days},
		{8, domain.Timing8To14Days},
		{14, domain.Timing8To14Days},
		{15, domain.Timing15To30Days},
		{30, domain.Timing15To30Days},
		{31, domain.Timing31To60Days},
		{60, domain.Timing31To60Days},
		{61, domain.Timing60PlusDays},
		{400, domain.Timing60PlusDays},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TimingBucketFor(tt.days), "days=%d", tt.days)
	}
}

func TestClassifyBuyer(t *testing.T) {
	tests := []struct {
		name   string
		days   int
		policy domain.BuyerPolicy
		want   domain.BuyerType
	}{
		{"dashboard game day", 0, domain.PolicyDashboard, domain.BuyerLastMinute},
		{"dashboard 2 days", 2, domain.PolicyDashboard, domain.BuyerLastMinute},
		{"dashboard 3 days", 3, domain.PolicyDashboard, domain.BuyerInBetween},
		{"dashboard 14 days", 14, domain.PolicyDashboard, domain.BuyerInBetween},
		{"dashboard 15 days", 15, domain.PolicyDashboard, domain.BuyerPlanner},
		{"report game day", 0, domain.PolicyReport, domain.BuyerLastMinute},
		{"report 2 days", 2, domain.PolicyReport, domain.BuyerLastMinute},
		{"report 3 days", 3, domain.PolicyReport, domain.BuyerInBetween},
		{"report 14 days", 14, domain.PolicyReport, domain.BuyerInBetween},
		{"report 15 days", 15, domain.PolicyReport, domain.BuyerPlanner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyBuyer(tt.days, tt.policy))
		})
	}
}

func TestReclassify(t *testing.T) {
	sales := []domain.Sale{
		{DaysBefore: 2, Buyer: domain.BuyerLastMinute},
		{DaysBefore: 14, Buyer: domain.BuyerInBetween},
	}

	out := Reclassify(sales, domain.PolicyReport)

	assert.Equal(t, domain.BuyerLastMinute, out[0].Buyer)
	assert.Equal(t, domain.BuyerInBetween, out[1].Buyer)

	out = Reclassify([]domain.Sale{{DaysBefore: 15}}, domain.PolicyDashboard)
	assert.Equal(t, domain.BuyerPlanner, out[0].Buyer)

	// input is not modified
	sales[0].DaysBefore = 20
	out = Reclassify(sales, domain.PolicyDashboard)
	assert.Equal(t, domain.BuyerLastMinute, sales[0].Buyer)
	assert.Equal(t, domain.BuyerPlanner, out[0].Buyer)
}
