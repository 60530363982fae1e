// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"

	"github.com/peaknote/transcript-service/internal/domain"
	"github.com/peaknote/transcript-service/internal/logging"
	"github.com/peaknote/transcript-service/pkg/metrics"
)

// NotificationTopic identifies which pipeline topic an ingress route feeds.
type NotificationTopic string

const (
	TopicEvent      NotificationTopic = "event"
	TopicTranscript NotificationTopic = "transcript"
	TopicCallRecord NotificationTopic = "callrecord"
)

// IngestResult is the outcome of processing one webhook delivery.
type IngestResult int

const (
	// IngestAccepted means the payload was enqueued.
	IngestAccepted IngestResult = iota
	// IngestDuplicate means the payload was absorbed as a duplicate.
	IngestDuplicate
)

// DedupStore is the signature store consulted before enqueueing.
type DedupStore interface {
	Seen(signature string) bool
}

// WebhookService validates, deduplicates and enqueues webhook notification
// payloads. Handshake echoes never reach it; handlers answer those directly.
type WebhookService struct {
	dedup     DedupStore
	publisher domain.NotificationPublisher
}

// NewWebhookService creates a new WebhookService.
func NewWebhookService(dedup DedupStore, publisher domain.NotificationPublisher) *WebhookService {
	return &WebhookService{
		dedup:     dedup,
		publisher: publisher,
	}
}

// ServiceReady checks if the service is ready to accept notifications.
func (s *WebhookService) ServiceReady() bool {
	return s.dedup != nil && s.publisher != nil
}

// IngestNotification deduplicates the payload by the first entry's signature
// and enqueues it to the given topic. A validation error means the payload
// never reaches the queue.
func (s *WebhookService) IngestNotification(ctx context.Context, topic NotificationTopic, payload []byte) (IngestResult, error) {
	envelope, err := ParseNotificationEnvelope(payload)
	if err != nil {
		metrics.RecordNotification(string(topic), "rejected")
		return 0, err
	}

	first, err := FirstNotification(envelope)
	if err != nil {
		metrics.RecordNotification(string(topic), "rejected")
		return 0, err
	}

	signature := first.Signature()
	ctx = logging.AppendCtx(ctx, slog.String("subscription_id", first.SubscriptionID))

	if s.dedup.Seen(signature) {
		slog.InfoContext(ctx, "duplicate notification absorbed",
			"topic", topic,
			"signature", signature,
		)
		metrics.RecordNotification(string(topic), "duplicate")
		return IngestDuplicate, nil
	}

	if err := s.publish(ctx, topic, payload); err != nil {
		metrics.RecordNotification(string(topic), "rejected")
		return 0, err
	}

	slog.DebugContext(ctx, "notification enqueued",
		"topic", topic,
		"change_type", first.ChangeType,
	)
	metrics.RecordNotification(string(topic), "accepted")
	return IngestAccepted, nil
}

func (s *WebhookService) publish(ctx context.Context, topic NotificationTopic, payload []byte) error {
	var err error
	switch topic {
	case TopicEvent:
		err = s.publisher.PublishEventNotification(ctx, payload)
	case TopicTranscript:
		err = s.publisher.PublishTranscriptNotification(ctx, payload)
	case TopicCallRecord:
		err = s.publisher.PublishCallRecordNotification(ctx, payload)
	default:
		return domain.NewValidationError("unknown notification topic: " + string(topic))
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to enqueue notification", logging.ErrKey, err, "topic", topic)
		return domain.NewUnavailableError("failed to enqueue notification", err)
	}
	return nil
}
