package exporter

import (
	"strykerscli/internal/analytics"
	"strykerscli/internal/finance"
)

// Table is one exported table. Name is used as the worksheet title and
// Slug as the CSV file stem.
type Table struct {
	Name    string
	Slug    string
	Headers []string
	Rows    [][]string
}

var groupHeaders = []string{
	"Transactions", "Tickets", "Revenue", "Mean ATP", "Median ATP",
	"Std ATP", "Avg Days Before", "Revenue ATP", "Share %",
}

// BuildTables flattens a summary and an optional projection into tables in
// a fixed order
func BuildTables(summary *analytics.Summary, projection *finance.Projection) []Table {
	tables := []Table{
		overviewTable(summary.Overview),
		groupTable("ATP by Category", "atp_by_category", "Seating Category", summary.ByCategory),
		premiumTable(summary.Premium),
		groupTable("Purchase Timing", "purchase_timing", "Timing Bucket", summary.ByTiming),
		groupTable("Buyer Types", "buyer_types", "Buyer Type", summary.ByBuyer),
		opponentTable(summary.Opponents),
		groupTable("Day of Week", "day_of_week", "Day", summary.ByDayOfWeek),
		groupTable("Month", "month", "Month", summary.ByMonth),
	}
	if len(summary.ByPromotion) > 0 {
		tables = append(tables, groupTable("Promotions", "promotions", "Promotion", summary.ByPromotion))
	}
	tables = append(tables,
		gapTable(summary.RevenueGap),
		comparisonTable(summary.Comparisons),
		regressionTable(summary.Regression),
	)
	if projection != nil {
		tables = append(tables, projectionTable(projection))
	}
	return tables
}

func overviewTable(ov analytics.Overview) Table {
	return Table{
		Name:    "Overview",
		Slug:    "overview",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Transactions", formatInt(ov.Transactions)},
			{"Tickets", formatInt(ov.Tickets)},
			{"Revenue", formatFloat(ov.Revenue)},
			{"Mean ATP", formatNull(ov.MeanATP)},
			{"Revenue ATP", formatNull(ov.RevenueATP)},
			{"Avg Purchase Lead (days)", formatNull(ov.MeanLeadDays)},
			{"Highest ATP Opponent", ov.TopOpponent},
			{"Highest Opponent ATP", formatNull(ov.TopOpponentATP)},
			{"ATP Change vs All %", ov.ATPChangePct.Display("%.1f")},
		},
	}
}

func groupTable(name, slug, keyHeader string, groups []analytics.GroupStats) Table {
	t := Table{
		Name:    name,
		Slug:    slug,
		Headers: append([]string{keyHeader}, groupHeaders...),
	}
	for _, g := range groups {
		t.Rows = append(t.Rows, []string{
			g.Key,
			formatInt(g.Transactions),
			formatInt(g.Seats),
			formatFloat(g.Revenue),
			formatFloat(g.MeanPrice),
			formatFloat(g.MedianPrice),
			formatNull(g.StdPrice),
			formatFloat(g.MeanDaysBefore),
			formatNull(g.RevenueATP),
			g.SharePct.Display("%.1f"),
		})
	}
	return t
}

func premiumTable(rows []analytics.PremiumRow) Table {
	t := Table{
		Name:    "Premium vs Primary",
		Slug:    "premium_vs_primary",
		Headers: []string{"Seating Category", "Tickets", "Mean ATP", "Primary Price", "Premium %"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			string(r.Category),
			formatInt(r.Seats),
			formatNull(r.MeanATP),
			formatNull(r.PrimaryPrice),
			r.PremiumPct.Display("%.1f"),
		})
	}
	return t
}

func opponentTable(rows []analytics.OpponentRow) Table {
	t := Table{
		Name:    "Opponents",
		Slug:    "opponents",
		Headers: []string{"Opponent", "Transactions", "Tickets", "Mean ATP", "Median ATP", "Avg Lead Days", "Premium %", "Tier"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Opponent,
			formatInt(r.Transactions),
			formatInt(r.Seats),
			formatFloat(r.MeanATP),
			formatFloat(r.MedianATP),
			formatFloat(r.AvgLeadDays),
			r.PremiumPct.Display("%.1f"),
			string(r.Tier),
		})
	}
	return t
}

func gapTable(gap analytics.GapAnalysis) Table {
	t := Table{
		Name:    "Revenue Gap",
		Slug:    "revenue_gap",
		Headers: []string{"Seating Category", "Secondary ATP", "Primary Price", "Gap per Ticket", "Tickets", "Lost Revenue"},
	}
	for _, r := range gap.Rows {
		t.Rows = append(t.Rows, []string{
			string(r.Category),
			formatFloat(r.SecondaryATP),
			formatFloat(r.PrimaryPrice),
			formatFloat(r.Gap),
			formatInt(r.Seats),
			formatFloat(r.LostRevenue),
		})
	}
	t.Rows = append(t.Rows, []string{"Total", "", "", "", "", formatFloat(gap.TotalLost)})
	return t
}

func comparisonTable(cmps []analytics.Comparison) Table {
	t := Table{
		Name:    "Hypothesis Tests",
		Slug:    "hypothesis_tests",
		Headers: []string{"Test", "Group A", "Mean A", "n A", "Group B", "Mean B", "n B", "t", "df", "p-value", "Significant"},
	}
	for _, c := range cmps {
		r := c.Result
		row := []string{c.Name, c.LabelA, formatFloat(r.MeanA), formatInt(r.NA), c.LabelB, formatFloat(r.MeanB), formatInt(r.NB)}
		if r.Valid {
			row = append(row, formatFloat(r.Statistic), formatFloat(r.DF), formatPValue(r.PValue), formatBool(r.Significant))
		} else {
			row = append(row, "n/a", "n/a", "n/a", "n/a")
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func regressionTable(reg analytics.Regression) Table {
	return Table{
		Name:    "Regression",
		Slug:    "regression",
		Headers: []string{"Model", "Intercept", "Slope per Day", "R²", "n"},
		Rows: [][]string{{
			"Ticket Price ~ Days Before",
			formatNull(reg.Intercept),
			reg.Slope.Display("%.4f"),
			reg.RSquared.Display("%.4f"),
			formatInt(reg.N),
		}},
	}
}

func projectionTable(p *finance.Projection) Table {
	na := func(valid bool, v float64) string {
		if !valid {
			return "n/a"
		}
		return formatFloat(v)
	}

	df, tc, up := p.DiscountFloor, p.TierConversion, p.InGameUpsell
	rows := [][]string{
		{"1. Discount Floor", "Target ATP", na(df.Valid, df.TargetATP)},
		{"1. Discount Floor", "Retained Seats", formatInt(df.RetainedSeats)},
		{"1. Discount Floor", "Projected Revenue", na(df.Valid, df.ProjectedRevenue)},
		{"1. Discount Floor", "Impact", na(df.Valid, df.Impact)},
	}
	for _, pair := range tc.Pairs {
		rows = append(rows, []string{
			"2. Tier Conversion",
			string(pair.From) + " -> " + string(pair.To) + " seats",
			formatInt(pair.ConvertingSeats),
		})
	}
	rows = append(rows,
		[]string{"2. Tier Conversion", "Impact", na(tc.Valid, tc.Impact)},
		[]string{"3. In-Game Upsell", "Upgrades per Game", formatInt(up.UpgradesPerGame)},
		[]string{"3. In-Game Upsell", "Per-Game Revenue", na(up.Valid, up.PerGameRevenue)},
		[]string{"3. In-Game Upsell", "Season Revenue", na(up.Valid, up.SeasonRevenue)},
		[]string{"Total", "Projected Impact", formatNull(p.Total)},
	)

	return Table{
		Name:    "Revenue Initiatives",
		Slug:    "revenue_initiatives",
		Headers: []string{"Initiative", "Metric", "Value"},
		Rows:    rows,
	}
}
