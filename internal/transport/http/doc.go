// Package http implements the HTTP handlers of the ticket dashboard.
// Handlers are a thin layer between the chi router and the services: they
// parse the request, call a service and format the response.
//
// # Routes
//
//	GET  /                  dashboard page with the filter form
//	GET  /api/dashboard     dashboard view as JSON
//	POST /api/dashboard     same, filter in the JSON body
//	GET  /api/filters       available categories and opponents
//	GET  /api/projection    initiative projection
//	GET  /api/report        static HTML report rendered on demand
//	GET  /api/export.xlsx   aggregate tables as a workbook
//	POST /api/logs          browser-side log lines
//	GET  /api/health        service health
//	GET  /ws                websocket filter stream
//
// Filters are passed as repeated query parameters:
//
//	/api/dashboard?category=Club&category=Pitchside&opponent=Bay+FC&policy=report
//
// # Error Handling
//
// All errors are rendered as RFC 7807 problem details by the shared
// errors.ErrorHandler, so a missing input file surfaces as:
//
//	{
//	    "type": "/errors/data/not-found",
//	    "title": "Data Unavailable",
//	    "status": 503,
//	    "detail": "no transaction CSV found ...",
//	    "instance": "/api/dashboard"
//	}
//
// HTML and workbook responses are rendered into a buffer first so a failure
// half way through still produces a clean problem response.
package http
