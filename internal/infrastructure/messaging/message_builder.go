// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

// Package messaging contains the NATS JetStream publisher and the durable
// pull consumers that drive asynchronous notification processing.
package messaging

import (
	"context"
	"log/slog"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/peaknote/transcript-service/internal/logging"
	"github.com/peaknote/transcript-service/pkg/constants"
)

// INatsConn is the subset of the NATS connection needed by the publisher.
type INatsConn interface {
	IsConnected() bool
}

// IJetStreamPublisher is the subset of the JetStream context needed by the publisher.
type IJetStreamPublisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// MessageBuilder publishes notification payloads to the JetStream stream.
// When the NATS connection is down the publish degrades to a logged no-op so
// that webhook ingestion keeps acknowledging Graph deliveries.
type MessageBuilder struct {
	NatsConn  INatsConn
	JetStream IJetStreamPublisher
}

// NewMessageBuilder creates a new MessageBuilder.
func NewMessageBuilder(natsConn INatsConn, js IJetStreamPublisher) *MessageBuilder {
	return &MessageBuilder{
		NatsConn:  natsConn,
		JetStream: js,
	}
}

// sendMessage publishes the payload to the given subject on the stream.
func (m *MessageBuilder) sendMessage(ctx context.Context, subject string, data []byte) error {
	if m.NatsConn == nil || !m.NatsConn.IsConnected() {
		slog.WarnContext(ctx, "NATS connection unavailable, dropping message", "subject", subject)
		return nil
	}

	_, err := m.JetStream.Publish(ctx, subject, data)
	if err != nil {
		slog.ErrorContext(ctx, "error publishing message to NATS", logging.ErrKey, err, "subject", subject)
		return err
	}
	slog.DebugContext(ctx, "published message to NATS", "subject", subject)
	return nil
}

// PublishEventNotification publishes a calendar event notification payload.
func (m *MessageBuilder) PublishEventNotification(ctx context.Context, payload []byte) error {
	return m.sendMessage(ctx, constants.EventNotificationSubject, payload)
}

// PublishTranscriptNotification publishes a transcript notification payload.
func (m *MessageBuilder) PublishTranscriptNotification(ctx context.Context, payload []byte) error {
	return m.sendMessage(ctx, constants.TranscriptNotificationSubject, payload)
}

// PublishCallRecordNotification publishes a call record notification payload.
func (m *MessageBuilder) PublishCallRecordNotification(ctx context.Context, payload []byte) error {
	return m.sendMessage(ctx, constants.CallRecordNotificationSubject, payload)
}
