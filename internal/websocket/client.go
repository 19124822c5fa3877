package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"strykerscli/internal/infrastructure"
	"strykerscli/pkg/contracts/events"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8 << 10

	sendBufferSize = 16
)

var (
	// ErrClientClosed is returned when sending to a disconnected client
	ErrClientClosed = errors.New("websocket client closed")
	// ErrSendBufferFull is returned when a slow client has fallen behind
	ErrSendBufferFull = errors.New("websocket send buffer full")
)

// Client is a middleman between one websocket connection and the hub
type Client struct {
	hub     *Hub
	conn    Connection
	handler MessageHandler

	mu     sync.Mutex
	send   chan []byte
	closed bool

	id          string
	traceID     string
	remoteAddr  string
	connectedAt time.Time
	logger      *slog.Logger

	messagesReceived int64
	messagesSent     int64
}

// NewClient creates a client for conn. handler may be nil, in which case
// inbound messages are ignored.
func NewClient(hub *Hub, conn Connection, handler MessageHandler, traceID string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	id := uuid.New().String()
	logger = logger.With(
		slog.String("component", "websocket.client"),
		slog.String("client_id", id),
	)
	if traceID != "" {
		logger = logger.With(slog.String("trace_id", traceID))
	}

	return &Client{
		hub:         hub,
		conn:        conn,
		handler:     handler,
		send:        make(chan []byte, sendBufferSize),
		id:          id,
		traceID:     traceID,
		remoteAddr:  conn.RemoteAddr(),
		connectedAt: time.Now(),
		logger:      logger,
	}
}

// ID returns the client id
func (c *Client) ID() string {
	return c.id
}

// Send queues a message for the write pump without blocking
func (c *Client) Send(messageType events.MessageType, data interface{}) error {
	msg := events.WebSocketMessage{
		BaseMessage: events.BaseMessage{
			ID:        uuid.New().String(),
			Type:      messageType,
			Timestamp: time.Now(),
			TraceID:   c.traceID,
		},
		Data: data,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	select {
	case c.send <- payload:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// SendError queues an error message
func (c *Client) SendError(code, message string) error {
	return c.Send(events.MessageTypeError, events.ErrorMessage{Code: code, Message: message})
}

// close stops further sends and ends the write pump
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) logContext() context.Context {
	ctx := context.Background()
	if c.traceID != "" {
		ctx = infrastructure.WithTraceID(ctx, c.traceID)
	}
	return ctx
}

// ReadPump reads messages until the connection fails and hands each one to
// the handler. It unregisters the client on return.
func (c *Client) ReadPump() {
	defer func() {
		c.logger.InfoContext(c.logContext(), "WebSocket read pump stopped",
			slog.Duration("connection_duration", time.Since(c.connectedAt)),
			slog.Int64("messages_received", c.messagesReceived))
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.ErrorContext(c.logContext(), "Unexpected WebSocket close error",
					slog.String("error", err.Error()))
			}
			return
		}
		c.messagesReceived++

		if c.handler != nil {
			c.handler.HandleMessage(c.logContext(), c, message)
		}
	}
}

// WritePump writes queued messages and keeps the connection alive with pings
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.logger.DebugContext(c.logContext(), "WebSocket write pump stopped",
			slog.Int64("messages_sent", c.messagesSent))
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.ErrorContext(c.logContext(), "Error writing message to WebSocket",
					slog.String("error", err.Error()))
				return
			}
			c.messagesSent++

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.DebugContext(c.logContext(), "Failed to send ping message",
					slog.String("error", err.Error()))
				return
			}
		}
	}
}

// ServeWS registers a client for conn, greets it and starts both pumps
func ServeWS(hub *Hub, conn Connection, handler MessageHandler, traceID string, logger *slog.Logger) *Client {
	client := NewClient(hub, conn, handler, traceID, logger)
	hub.Register(client)
	_ = client.Send(events.MessageTypeConnect, map[string]string{"client_id": client.id})

	go client.WritePump()
	go client.ReadPump()
	return client
}
