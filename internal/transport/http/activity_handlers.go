package http

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dineshsuthar123/telecare-realtime/internal/store"
)

// ActivityHandlers provides HTTP handlers for the activity feed. Writes land
// here; the notification stream only ever reads.
type ActivityHandlers struct {
	store store.ActivityStore
	log   *zerolog.Logger
}

// NewActivityHandlers creates a new activity handlers instance.
func NewActivityHandlers(st store.ActivityStore, logger *zerolog.Logger) *ActivityHandlers {
	return &ActivityHandlers{store: st, log: logger}
}

// CreateActivityRequest represents the create activity request body.
// Timestamps are never accepted from the client; the store stamps them.
type CreateActivityRequest struct {
	Kind        string          `json:"kind" binding:"required,min=1,max=64"`
	Title       string          `json:"title" binding:"max=256"`
	Description string          `json:"description" binding:"max=2048"`
	Metadata    json.RawMessage `json:"metadata"`
}

// ActivityResponse represents an activity in API responses.
type ActivityResponse struct {
	ID          int64           `json:"id"`
	Kind        string          `json:"kind"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Metadata    json.RawMessage `json:"metadata"`
	OccurredAt  string          `json:"occurred_at"`
}

// CreateActivity records a feed entry for the authenticated subscriber.
// POST /api/activities
func (h *ActivityHandlers) CreateActivity(c *gin.Context) {
	sub, ok := subscriberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid create activity request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	activity, err := h.store.CreateActivity(c.Request.Context(), &store.Activity{
		SubscriberID: sub,
		Kind:         req.Kind,
		Title:        req.Title,
		Description:  req.Description,
		Metadata:     string(req.Metadata),
	})
	if err != nil {
		h.log.Error().Err(err).Int64("subscriber", sub).Msg("failed to create activity")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, toActivityResponse(*activity))
}

// ListActivities returns the authenticated subscriber's recent feed entries.
// GET /api/activities
func (h *ActivityHandlers) ListActivities(c *gin.Context) {
	sub, ok := subscriberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	activities, err := h.store.ListActivities(c.Request.Context(), sub, 50)
	if err != nil {
		h.log.Error().Err(err).Int64("subscriber", sub).Msg("failed to list activities")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	out := make([]ActivityResponse, 0, len(activities))
	for _, a := range activities {
		out = append(out, toActivityResponse(a))
	}
	c.JSON(http.StatusOK, gin.H{"activities": out})
}

func toActivityResponse(a store.Activity) ActivityResponse {
	metadata := a.Metadata
	if metadata == "" {
		metadata = "{}"
	}
	return ActivityResponse{
		ID:          a.ID,
		Kind:        a.Kind,
		Title:       a.Title,
		Description: a.Description,
		Metadata:    json.RawMessage(metadata),
		OccurredAt:  a.OccurredAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
