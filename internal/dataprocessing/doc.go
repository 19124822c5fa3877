// Package dataprocessing turns the secondary-ticket CSV export into
// classified sales.
//
// The Loader finds the first existing candidate file and parses it into
// domain.RawTransaction rows. Derive then parses money, seat counts and
// dates, computes days-before, and classifies each sale by seating
// category, timing bucket and buyer type:
//
//	res, err := dataprocessing.NewLoader(discovery, logger).Load(ctx, candidates)
//	sales, stats := dataprocessing.Derive(res.Rows, domain.PolicyDashboard)
//
// Rows that fail to parse are excluded from every downstream aggregate and
// surface only as counts in DeriveStats.
package dataprocessing
