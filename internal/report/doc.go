// Package report renders the analytics as HTML and prints it to PDF.
//
// The static report is a single self-contained document: images from the
// assets directory are embedded as base64 data URIs and a missing image is
// replaced by a placeholder rather than failing the run. The dashboard page
// shares the same partial templates and adds a filter form whose changes
// are streamed over the /ws websocket.
//
// Rendering takes all presentation settings through Options; the package
// holds no mutable state beyond the parsed templates.
package report
