// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/peaknote/transcript-service/internal/domain"
	"github.com/peaknote/transcript-service/internal/domain/mocks"
	"github.com/peaknote/transcript-service/internal/infrastructure/webhook"
)

func validPayload() []byte {
	return []byte(`{"value":[{"subscriptionId":"sub-1","changeType":"created","resource":"Users/u/Events/e","resourceData":{"id":"e"}}]}`)
}

func TestWebhookService_IngestNotification(t *testing.T) {
	dedup := webhook.NewDedupStore(5 * time.Minute)
	defer dedup.Close()

	publisher := &mocks.MockNotificationPublisher{}
	publisher.On("PublishEventNotification", mock.Anything, mock.Anything).Return(nil)

	svc := NewWebhookService(dedup, publisher)
	require.True(t, svc.ServiceReady())

	result, err := svc.IngestNotification(context.Background(), TopicEvent, validPayload())
	require.NoError(t, err)
	assert.Equal(t, IngestAccepted, result)

	// The identical notification inside the window is absorbed, not enqueued.
	result, err = svc.IngestNotification(context.Background(), TopicEvent, validPayload())
	require.NoError(t, err)
	assert.Equal(t, IngestDuplicate, result)

	publisher.AssertNumberOfCalls(t, "PublishEventNotification", 1)
}

func TestWebhookService_IngestNotification_TopicRouting(t *testing.T) {
	tests := []struct {
		topic  NotificationTopic
		method string
	}{
		{TopicEvent, "PublishEventNotification"},
		{TopicTranscript, "PublishTranscriptNotification"},
		{TopicCallRecord, "PublishCallRecordNotification"},
	}

	for _, tc := range tests {
		t.Run(string(tc.topic), func(t *testing.T) {
			dedup := webhook.NewDedupStore(5 * time.Minute)
			defer dedup.Close()

			publisher := &mocks.MockNotificationPublisher{}
			publisher.On(tc.method, mock.Anything, mock.Anything).Return(nil)

			svc := NewWebhookService(dedup, publisher)
			result, err := svc.IngestNotification(context.Background(), tc.topic, validPayload())

			require.NoError(t, err)
			assert.Equal(t, IngestAccepted, result)
			publisher.AssertExpectations(t)
		})
	}
}

func TestWebhookService_IngestNotification_MalformedPayload(t *testing.T) {
	dedup := webhook.NewDedupStore(5 * time.Minute)
	defer dedup.Close()

	publisher := &mocks.MockNotificationPublisher{}
	svc := NewWebhookService(dedup, publisher)

	_, err := svc.IngestNotification(context.Background(), TopicEvent, []byte(`not json`))
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))

	_, err = svc.IngestNotification(context.Background(), TopicEvent, []byte(`{"value":[]}`))
	require.Error(t, err)

	publisher.AssertNotCalled(t, "PublishEventNotification", mock.Anything, mock.Anything)
}

func TestWebhookService_IngestNotification_PublishFailure(t *testing.T) {
	dedup := webhook.NewDedupStore(5 * time.Minute)
	defer dedup.Close()

	publisher := &mocks.MockNotificationPublisher{}
	publisher.On("PublishTranscriptNotification", mock.Anything, mock.Anything).
		Return(errors.New("stream gone"))

	svc := NewWebhookService(dedup, publisher)
	_, err := svc.IngestNotification(context.Background(), TopicTranscript, validPayload())

	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeUnavailable, domain.GetErrorType(err))
}
