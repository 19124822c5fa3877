// Package shared holds helpers used across the codebase that belong to no
// single layer.
//
// The testutil subpackage provides a buffered slog handler for asserting on
// structured logs and a small ticket-export fixture:
//
//	logger, logs := testutil.NewTestLogger(t)
//	path := testutil.WriteTransactionsCSV(t, t.TempDir(), "data.csv", testutil.SampleTransactionsCSV)
package shared
