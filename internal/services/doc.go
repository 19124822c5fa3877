// Package services implements the business layer between the HTTP
// handlers and the analysis pipeline.
//
// # Available Services
//
//	- DashboardService: memoises the derived dataset and computes filtered
//	  views, the initiative projection, the rendered pages and the XLSX export
//	- HealthService: reports whether the transaction data can be served
//
// # Dataset Lifecycle
//
// The CSV is loaded and derived once, on the first request that needs it.
// Concurrent first callers share a single load. A failed load is not
// cached, so dropping the file into place later recovers without a
// restart:
//
//	svc := services.NewDashboardService(cfg, runner, renderer, validator, metrics, logger)
//	res, err := svc.View(ctx, api.DashboardRequest{Categories: []string{"Club"}})
//
// # Error Handling
//
// Services return *errors.AppError values (NOT_FOUND for a missing CSV,
// VALIDATION for a bad request) that the transport layer maps to RFC 7807
// problem details.
package services
