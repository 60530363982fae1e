// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

// Package handlers contains the gin HTTP handlers for the webhook ingress and
// the transcript API.
package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/peaknote/transcript-service/internal/logging"
	"github.com/peaknote/transcript-service/internal/service"
)

// validationTokenParam is the query parameter carrying the handshake token.
const validationTokenParam = "validationToken"

// WebhookHandler answers the external API's webhook deliveries. Handshake
// echoes are answered inline and never reach the pipeline; notification
// payloads are handed to the webhook service for dedup and enqueue.
type WebhookHandler struct {
	webhookService *service.WebhookService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(webhookService *service.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookService: webhookService}
}

// HandleEventNotification handles deliveries on the calendar event route.
func (h *WebhookHandler) HandleEventNotification(c *gin.Context) {
	h.handleNotification(c, service.TopicEvent)
}

// HandleTranscriptNotification handles deliveries on the transcript route.
func (h *WebhookHandler) HandleTranscriptNotification(c *gin.Context) {
	h.handleNotification(c, service.TopicTranscript)
}

// HandleCallRecordNotification handles deliveries on the call record route.
func (h *WebhookHandler) HandleCallRecordNotification(c *gin.Context) {
	h.handleNotification(c, service.TopicCallRecord)
}

// handleNotification is the shared ingress path: echo the handshake token when
// present, otherwise read the body and ingest it. The webhook contract is
// plain text: 200 "OK" or "DUPLICATE" on success, 400 "Failed" otherwise.
func (h *WebhookHandler) handleNotification(c *gin.Context, topic service.NotificationTopic) {
	if echoValidationToken(c) {
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to read webhook body", logging.ErrKey, err)
		c.String(http.StatusBadRequest, "Failed")
		return
	}

	result, err := h.webhookService.IngestNotification(c.Request.Context(), topic, payload)
	if err != nil {
		c.String(http.StatusBadRequest, "Failed")
		return
	}

	if result == service.IngestDuplicate {
		c.String(http.StatusOK, "DUPLICATE")
		return
	}
	c.String(http.StatusOK, "OK")
}

// HandleLifecycleNotification handles subscription lifecycle events
// (reauthorizationRequired and friends). They are acknowledged and logged;
// the renewal sweep owns keeping subscriptions alive.
func (h *WebhookHandler) HandleLifecycleNotification(c *gin.Context) {
	if echoValidationToken(c) {
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.String(http.StatusOK, "OK")
		return
	}

	slog.InfoContext(c.Request.Context(), "lifecycle notification received",
		"payload_bytes", len(payload),
	)
	c.String(http.StatusOK, "OK")
}

// echoValidationToken answers a subscription handshake by echoing the token
// verbatim as plain text. The echo never fails, on any route and any method.
func echoValidationToken(c *gin.Context) bool {
	token, present := c.GetQuery(validationTokenParam)
	if !present {
		return false
	}
	c.String(http.StatusOK, "%s", token)
	return true
}
