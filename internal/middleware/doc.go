// Package middleware holds the HTTP middleware chain of the dashboard server:
// request ids, structured request logs, rate limiting, request timeouts,
// security headers and OpenTelemetry instrumentation.
package middleware
