package websocket

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"strings"
	"time"

	"strykerscli/internal/errors"
	"strykerscli/internal/infrastructure"
	"strykerscli/internal/pipeline"
	api "strykerscli/pkg/contracts/api/v1"
	"strykerscli/pkg/contracts/events"
)

// messageTypeHeartbeat is sent by browsers to keep idle proxies open
const messageTypeHeartbeat events.MessageType = "heartbeat"

// ViewSource computes a dashboard view for a filter
type ViewSource interface {
	View(ctx context.Context, req api.DashboardRequest) (*pipeline.Result, error)
}

// FilterHandler answers dashboard:filter messages with a recomputed
// dashboard:snapshot for the sending client
type FilterHandler struct {
	source  ViewSource
	timeout time.Duration
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
}

// NewFilterHandler creates a filter handler. metrics may be nil.
func NewFilterHandler(source ViewSource, timeout time.Duration, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *FilterHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &FilterHandler{
		source:  source,
		timeout: timeout,
		metrics: metrics,
		logger:  logger.With(slog.String("component", "websocket.filter")),
	}
}

// HandleMessage implements MessageHandler
func (h *FilterHandler) HandleMessage(ctx context.Context, client *Client, message []byte) {
	var msg events.FilterMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		h.reply(ctx, client, client.SendError("INVALID_MESSAGE", "message is not valid JSON"))
		return
	}

	switch msg.Type {
	case messageTypeHeartbeat:
		return
	case events.MessageTypeFilter:
	default:
		h.reply(ctx, client, client.SendError("UNKNOWN_MESSAGE_TYPE", "unsupported message type "+string(msg.Type)))
		return
	}
	infrastructure.RecordWebSocketMessage(ctx, h.metrics, string(msg.Type))

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	res, err := h.source.View(ctx, msg.Filter)
	if err != nil {
		code, text := describeError(err)
		h.logger.WarnContext(ctx, "Filter request failed",
			slog.String("client_id", client.ID()),
			slog.String("code", code),
			slog.String("error", err.Error()))
		h.reply(ctx, client, client.SendError(code, text))
		return
	}

	h.reply(ctx, client, client.Send(events.MessageTypeSnapshot, res))
}

func (h *FilterHandler) reply(ctx context.Context, client *Client, err error) {
	if err != nil {
		h.logger.WarnContext(ctx, "Dropped websocket reply",
			slog.String("client_id", client.ID()),
			slog.String("error", err.Error()))
	}
}

// describeError maps an error to the code and text shown to the client
func describeError(err error) (string, string) {
	var apiErr *errors.APIError
	if stderrors.As(err, &apiErr) {
		if details, ok := apiErr.Details.(errors.ValidationErrors); ok && len(details.Errors) > 0 {
			msgs := make([]string, len(details.Errors))
			for i, e := range details.Errors {
				msgs[i] = e.Message
			}
			return apiErr.ErrorCode, strings.Join(msgs, "; ")
		}
		return apiErr.ErrorCode, apiErr.Message
	}

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return string(appErr.Type), appErr.Message
	}

	if stderrors.Is(err, context.DeadlineExceeded) {
		return "TIMEOUT", "the dashboard took too long to recompute"
	}
	return "INTERNAL", "the dashboard could not be recomputed"
}
