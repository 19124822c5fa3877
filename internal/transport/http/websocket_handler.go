package http

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	apierrors "strykerscli/internal/errors"
	"strykerscli/internal/infrastructure"
	ws "strykerscli/internal/websocket"
)

// WebSocketHandler upgrades GET /ws and attaches the client to the hub
type WebSocketHandler struct {
	hub      *ws.Hub
	handler  ws.MessageHandler
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewWebSocketHandler creates a websocket handler. Only same-host origins
// are accepted unless allowAnyOrigin is set.
func NewWebSocketHandler(hub *ws.Hub, handler ws.MessageHandler, allowAnyOrigin bool, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &WebSocketHandler{
		hub:     hub,
		handler: handler,
		logger:  logger.With(slog.String("handler", "websocket")),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return allowAnyOrigin || sameOrigin(r)
		},
		Error: func(w http.ResponseWriter, r *http.Request, status int, reason error) {
			h.logger.WarnContext(r.Context(), "WebSocket upgrade rejected",
				slog.Int("status", status),
				slog.String("reason", reason.Error()),
				slog.String("origin", r.Header.Get("Origin")))
			apierrors.WriteError(w, apierrors.New(status, apierrors.ErrWebSocketUpgrade.ErrorCode, reason.Error()))
		},
	}
	return h
}

// ServeHTTP handles GET /ws
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	traceID := middleware.GetReqID(ctx)
	if traceID == "" {
		traceID = infrastructure.GenerateTraceID()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already replied.
		return
	}

	client := ws.ServeWS(h.hub, ws.NewConnectionWrapper(conn), h.handler, traceID, h.logger)
	h.logger.InfoContext(ctx, "WebSocket client connected",
		slog.String("client_id", client.ID()),
		slog.String("remote_addr", r.RemoteAddr))
}

// sameOrigin accepts requests without an Origin header and those whose
// origin host matches the request host.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}
