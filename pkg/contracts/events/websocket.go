// Package events contains the WebSocket message contracts of the dashboard.
package events

import (
	"time"

	api "strykerscli/pkg/contracts/api/v1"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// MessageTypeFilter is sent by the client to change the dashboard filter.
	MessageTypeFilter MessageType = "dashboard:filter"
	// MessageTypeSnapshot carries a recomputed dashboard view.
	MessageTypeSnapshot MessageType = "dashboard:snapshot"

	MessageTypeConnect MessageType = "connect"
	MessageTypeError   MessageType = "error"
)

// BaseMessage represents the base structure for all WebSocket messages
type BaseMessage struct {
	ID        string      `json:"id,omitempty"`
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// WebSocketMessage is a server-to-client message
type WebSocketMessage struct {
	BaseMessage
	Data interface{} `json:"data,omitempty"`
}

// FilterMessage is a client-to-server message
type FilterMessage struct {
	Type   MessageType          `json:"type"`
	Filter api.DashboardRequest `json:"filter"`
}

// ErrorMessage represents an error message
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
