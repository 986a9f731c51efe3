package http

import (
	"encoding/json"
	"fmt"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dineshsuthar123/telecare-realtime/internal/notify"
)

// SSEHandler serves the notification stream: one long-lived server-push
// channel per authenticated subscriber.
type SSEHandler struct {
	streamer *notify.Streamer
	log      *zerolog.Logger
}

// NewSSEHandler builds a new notification stream handler.
func NewSSEHandler(streamer *notify.Streamer, logger *zerolog.Logger) *SSEHandler {
	return &SSEHandler{streamer: streamer, log: logger}
}

// Stream handles GET /api/notifications/stream. Auth middleware has already
// rejected anonymous requests, so a missing identity here is a wiring bug.
func (h *SSEHandler) Stream(c *gin.Context) {
	sub, ok := subscriberID(c)
	if !ok {
		c.JSON(stdhttp.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	flusher, ok := c.Writer.(stdhttp.Flusher)
	if !ok {
		c.JSON(stdhttp.StatusInternalServerError, ErrorResponse{Error: "streaming unsupported"})
		return
	}

	header := c.Writer.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(stdhttp.StatusOK)
	flusher.Flush()

	sink := &sseSink{w: c.Writer, flusher: flusher}

	h.log.Debug().Int64("subscriber", sub).Msg("notification stream opened")
	// Run returns when the client disconnects (request context) or a write
	// fails; both tickers are torn down inside.
	if err := h.streamer.Run(c.Request.Context(), sub, sink); err != nil {
		h.log.Debug().Err(err).Int64("subscriber", sub).Msg("notification stream ended")
	}
	h.log.Debug().Int64("subscriber", sub).Msg("notification stream closed")
}

// sseSink writes notify frames in text/event-stream format. All writes happen
// on the one goroutine running the stream.
type sseSink struct {
	w       gin.ResponseWriter
	flusher stdhttp.Flusher
}

type snapshotBody struct {
	Notifications []notify.Notification `json:"notifications"`
}

func (s *sseSink) PushSnapshot(notifications []notify.Notification) error {
	if notifications == nil {
		notifications = []notify.Notification{}
	}
	body, err := json.Marshal(snapshotBody{Notifications: notifications})
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if _, err := fmt.Fprintf(s.w, "event: notifications\ndata: %s\n\n", body); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

func (s *sseSink) Heartbeat() error {
	// Comment frame: ignored by clients, keeps intermediaries from timing
	// the connection out.
	if _, err := fmt.Fprint(s.w, ": heartbeat\n\n"); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

func (s *sseSink) PushError(message string) error {
	body, err := json.Marshal(map[string]string{"error": message})
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "event: error\ndata: %s\n\n", body); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}
