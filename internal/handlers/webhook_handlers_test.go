// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/peaknote/transcript-service/internal/domain/mocks"
	"github.com/peaknote/transcript-service/internal/infrastructure/webhook"
	"github.com/peaknote/transcript-service/internal/service"
)

func notificationBody() []byte {
	return []byte(`{"value":[{"subscriptionId":"sub-1","changeType":"created",` +
		`"resource":"Users/user-1/Events/event-1","resourceData":{"id":"event-1"}}]}`)
}

func newWebhookRouter(t *testing.T, publisher *mocks.MockNotificationPublisher) (*gin.Engine, *webhook.DedupStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dedup := webhook.NewDedupStore(5 * time.Minute)
	t.Cleanup(dedup.Close)

	h := NewWebhookHandler(service.NewWebhookService(dedup, publisher))

	r := gin.New()
	r.GET("/webhook/notification", h.HandleEventNotification)
	r.POST("/webhook/notification", h.HandleEventNotification)
	r.POST("/webhook/teams-transcript", h.HandleTranscriptNotification)
	r.POST("/webhook/teams-lifecycle", h.HandleLifecycleNotification)
	return r, dedup
}

func TestWebhookHandler_HandshakeEcho(t *testing.T) {
	r, _ := newWebhookRouter(t, &mocks.MockNotificationPublisher{})

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, "/webhook/notification?validationToken=abc+123", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "abc 123", w.Body.String())
		assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	}
}

func TestWebhookHandler_AcceptThenDuplicate(t *testing.T) {
	publisher := &mocks.MockNotificationPublisher{}
	publisher.On("PublishEventNotification", mock.Anything, mock.Anything).Return(nil)
	r, _ := newWebhookRouter(t, publisher)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/webhook/notification", bytes.NewReader(notificationBody())))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/webhook/notification", bytes.NewReader(notificationBody())))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "DUPLICATE", w.Body.String())

	publisher.AssertNumberOfCalls(t, "PublishEventNotification", 1)
}

func TestWebhookHandler_MalformedPayloadFails(t *testing.T) {
	publisher := &mocks.MockNotificationPublisher{}
	r, _ := newWebhookRouter(t, publisher)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/webhook/notification", bytes.NewReader([]byte("{not json"))))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Failed", w.Body.String())
	publisher.AssertNotCalled(t, "PublishEventNotification", mock.Anything, mock.Anything)
}

func TestWebhookHandler_EnqueueFailureFails(t *testing.T) {
	publisher := &mocks.MockNotificationPublisher{}
	publisher.On("PublishTranscriptNotification", mock.Anything, mock.Anything).
		Return(errors.New("stream unavailable"))
	r, _ := newWebhookRouter(t, publisher)

	body := []byte(`{"value":[{"subscriptionId":"sub-t","changeType":"created",` +
		`"resource":"users('u')/onlineMeetings('m')/transcripts('t')","resourceData":{"id":"t"}}]}`)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/webhook/teams-transcript", bytes.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Failed", w.Body.String())
}

func TestWebhookHandler_LifecycleAlwaysAcknowledges(t *testing.T) {
	r, _ := newWebhookRouter(t, &mocks.MockNotificationPublisher{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/webhook/teams-lifecycle",
		bytes.NewReader([]byte(`{"value":[{"lifecycleEvent":"reauthorizationRequired"}]}`))))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestWebhookHandler_LifecycleHandshakeEcho(t *testing.T) {
	r, _ := newWebhookRouter(t, &mocks.MockNotificationPublisher{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/webhook/teams-lifecycle?validationToken=tok", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tok", w.Body.String())
}
