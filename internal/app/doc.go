// Package app wires the ticket dashboard server: configuration, logging,
// OpenTelemetry, the analysis pipeline, the services on top of it and the
// chi router.
//
// # Initialization Flow
//
//	1. Resolve paths and ensure the output directories exist
//	2. Initialize OpenTelemetry and the business metrics
//	3. Build the loader, pipeline runner, renderer and validator
//	4. Create the dashboard, health and websocket services
//	5. Set up middleware and routes
//	6. Create the HTTP server
//
// # Usage
//
//	cfg, err := config.Load()
//	...
//	application, err := app.NewApplication(cfg, nil)
//	...
//	if err := application.Run(); err != nil {
//	    os.Exit(1)
//	}
//
// # Graceful Shutdown
//
// Run blocks until SIGINT or SIGTERM, then drains in-flight requests,
// closes websocket clients and flushes telemetry within the configured
// shutdown timeout.
//
// # Missing Input
//
// The server starts without the transaction CSV. Startup logs a warning
// naming every candidate path, data routes answer 503 and the health check
// reports degraded until the file appears.
package app
