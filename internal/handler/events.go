package handler

import (
	"log/slog"
	"net/http"

	"applytrack/internal/domain/services"
	"applytrack/internal/handler/sse"
	"applytrack/internal/httputil"

	"github.com/google/uuid"
)

// EventsHandler streams a user's change events over Server-Sent Events
type EventsHandler struct {
	feed   services.ChangeFeed
	config *sse.Config
	logger *slog.Logger
}

// NewEventsHandler creates a new change stream handler
func NewEventsHandler(feed services.ChangeFeed, config *sse.Config, logger *slog.Logger) *EventsHandler {
	if config == nil {
		config = sse.DefaultConfig()
	}
	return &EventsHandler{
		feed:   feed,
		config: config,
		logger: logger,
	}
}

// StreamEvents handles GET /api/events. Every committed write of the caller is
// sent as an event named after its type; clients re-fetch what changed.
func (h *EventsHandler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	userID, err := httputil.RequireUserID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	clientID := uuid.New().String()
	writer, err := sse.NewWriter(w, clientID)
	if err != nil {
		h.logger.Error("SSE not supported by response writer", "client_id", clientID)
		httputil.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	events, unsubscribe := h.feed.Subscribe(userID)
	defer func() {
		unsubscribe()
		h.logger.Debug("SSE client removed",
			"user_id", userID,
			"client_id", clientID,
		)
	}()

	if err := writer.Open(); err != nil {
		h.logger.Info("initial flush failed - connection already dead",
			"client_id", clientID,
			"error", err,
		)
		return
	}
	h.logger.Debug("SSE stream established",
		"user_id", userID,
		"client_id", clientID,
	)

	keepAlive := sse.NewTickerKeepAlive(h.config.KeepAliveInterval)
	dropped := keepAlive.Start(writer, h.logger)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return

		case <-dropped:
			h.logger.Info("client disconnected during keepalive", "client_id", clientID)
			return

		case event, ok := <-events:
			if !ok {
				return
			}
			if err := writer.WriteEvent(string(event.Type), event); err != nil {
				h.logger.Info("client disconnected during event write",
					"client_id", clientID,
					"error", err,
				)
				return
			}
		}
	}
}
