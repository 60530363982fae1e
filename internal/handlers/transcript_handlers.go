// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/peaknote/transcript-service/internal/domain"
	"github.com/peaknote/transcript-service/internal/service"
)

// TranscriptHandler serves transcript reads and writes over HTTP.
type TranscriptHandler struct {
	store *service.TranscriptStoreService
}

// NewTranscriptHandler creates a new TranscriptHandler.
func NewTranscriptHandler(store *service.TranscriptStoreService) *TranscriptHandler {
	return &TranscriptHandler{store: store}
}

// HandleGetByURL returns the latest transcript for the meeting behind a join
// URL. An unknown URL or a meeting without a stored transcript answers with an
// empty transcript rather than an error; callers poll this endpoint.
//
// GET /api/v1/transcript?url=<joinURL>
func (h *TranscriptHandler) HandleGetByURL(c *gin.Context) {
	joinURL := c.Query("url")
	if joinURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url query parameter is required"})
		return
	}

	ctx := c.Request.Context()
	eventIDs, err := h.store.GetEventIDsByURL(ctx, joinURL)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(eventIDs) == 0 {
		c.JSON(http.StatusOK, gin.H{"transcript": ""})
		return
	}

	content, err := h.store.GetTranscriptByEventID(ctx, eventIDs[0])
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			c.JSON(http.StatusOK, gin.H{"transcript": ""})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"event_id":   eventIDs[0],
		"transcript": content,
	})
}

// HandleGetByEventID returns the latest transcript for an event id.
//
// GET /api/v1/transcript/:eventId
func (h *TranscriptHandler) HandleGetByEventID(c *gin.Context) {
	eventID := c.Param("eventId")

	content, err := h.store.GetTranscriptByEventID(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"event_id":   eventID,
		"transcript": content,
	})
}

type updateTranscriptRequest struct {
	EventID string `json:"event_id" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// HandleUpdate rewrites an event's transcript through the locked write path.
//
// POST /api/v1/transcript
func (h *TranscriptHandler) HandleUpdate(c *gin.Context) {
	var req updateTranscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.UpdateTranscript(c.Request.Context(), req.EventID, req.Content); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"event_id": req.EventID, "updated": true})
}

// respondError maps a domain error to its HTTP status.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch domain.GetErrorType(err) {
	case domain.ErrorTypeValidation:
		status = http.StatusBadRequest
	case domain.ErrorTypeNotFound:
		status = http.StatusNotFound
	case domain.ErrorTypeConflict:
		status = http.StatusConflict
	case domain.ErrorTypeUnavailable:
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
