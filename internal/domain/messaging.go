// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package domain

import "context"

// Message represents a domain message pulled from a notification topic.
type Message interface {
	Subject() string
	Data() []byte
}

// MessageHandler defines how the service handles incoming messages. A nil
// return acknowledges the message; an error terminates it without requeue.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg Message) error
	HandlerReady() bool
}

// NotificationPublisher is the producer side of the notification pipeline.
// Implementations degrade to a logged no-op when the transport is unavailable.
type NotificationPublisher interface {
	PublishEventNotification(ctx context.Context, payload []byte) error
	PublishTranscriptNotification(ctx context.Context, payload []byte) error
	PublishCallRecordNotification(ctx context.Context, payload []byte) error
}
