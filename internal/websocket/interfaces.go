package websocket

import (
	"context"
	"time"
)

// Connection is the subset of a gorilla/websocket connection the client
// uses. It allows the pumps to be tested without a network.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(string) error)
	RemoteAddr() string
}

// MessageHandler processes one inbound client message. It is called from
// the client's read pump, so messages of one client are handled in order.
type MessageHandler interface {
	HandleMessage(ctx context.Context, client *Client, message []byte)
}
