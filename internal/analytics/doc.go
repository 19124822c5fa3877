// Package analytics aggregates classified sales into the tables and
// statistics shown by the dashboard and the static report.
//
// # Components
//
//   - groupby.go: per-key grouping (category, opponent, weekday, month,
//     buyer type, timing bucket, promotion) with count, seat, revenue and
//     price statistics
//   - stats.go: mean, median, sample standard deviation and the two ATP
//     definitions
//   - ttest.go: Welch's unequal-variance t-test and the named comparisons
//   - pricing.go: premium over box-office price, revenue gap and opponent
//     demand tiers
//   - regression.go: least-squares fit of unit price on days-before
//   - filter.go: category/opponent filtering
//   - summary.go: the full aggregate view used by both presenters
//
// Mean ATP and revenue-weighted ATP are kept apart everywhere. They differ
// whenever block sizes vary. Every ratio whose denominator can be zero is a
// domain.NullFloat.
package analytics
