// Package websocket carries the dashboard's reactive channel. A client
// sends a dashboard:filter message and receives a dashboard:snapshot with
// the view recomputed for that filter. The Hub only tracks connected
// clients; every snapshot is addressed to the client that asked for it.
package websocket
