// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/peaknote/transcript-service/internal/domain"
	"github.com/peaknote/transcript-service/internal/logging"
	"github.com/peaknote/transcript-service/pkg/constants"
)

const fetchMaxWait = 5 * time.Second

// SetupNotificationStream ensures the notification stream exists with the
// subjects all three consumers pull from.
func SetupNotificationStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	stream, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name: constants.NotificationStreamName,
		Subjects: []string{
			constants.EventNotificationSubject,
			constants.TranscriptNotificationSubject,
			constants.CallRecordNotificationSubject,
		},
		Retention: jetstream.WorkQueuePolicy,
		Storage:   jetstream.FileStorage,
	})
	if err != nil {
		return nil, fmt.Errorf("creating notification stream: %w", err)
	}
	return stream, nil
}

// natsMsg adapts a jetstream.Msg to the domain message contract.
type natsMsg struct {
	msg jetstream.Msg
}

func (m natsMsg) Subject() string {
	return m.msg.Subject()
}

func (m natsMsg) Data() []byte {
	return m.msg.Data()
}

// Consumer pulls messages from one notification subject and dispatches them
// to a handler. Messages are fetched one at a time so processing within a
// topic stays serialized.
type Consumer struct {
	durable string
	subject string
	handler domain.MessageHandler
}

// NewConsumer creates a consumer for the given subject. The durable name is
// derived from the subject so redeployments resume from the same cursor.
func NewConsumer(subject string, handler domain.MessageHandler) *Consumer {
	return &Consumer{
		durable: durableName(subject),
		subject: subject,
		handler: handler,
	}
}

// Start creates or updates the durable consumer and runs the fetch loop until
// the context is canceled.
func (c *Consumer) Start(ctx context.Context, js jetstream.JetStream) error {
	consumer, err := js.CreateOrUpdateConsumer(ctx, constants.NotificationStreamName, jetstream.ConsumerConfig{
		Name:          c.durable,
		Durable:       c.durable,
		FilterSubject: c.subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		// Redeliveries are handled by Graph resending notifications, not by
		// the broker. Rejected messages are terminated below.
		MaxDeliver: 1,
	})
	if err != nil {
		return fmt.Errorf("creating consumer %s: %w", c.durable, err)
	}

	slog.InfoContext(ctx, "starting notification consumer", "durable", c.durable, "subject", c.subject)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "stopping notification consumer", "durable", c.durable)
			return nil
		default:
			if !c.handler.HandlerReady() {
				time.Sleep(time.Second)
				continue
			}

			msgs, err := consumer.Fetch(1, jetstream.FetchMaxWait(fetchMaxWait))
			if err != nil {
				if errors.Is(err, jetstream.ErrNoMessages) {
					continue
				}
				slog.ErrorContext(ctx, "error fetching messages", logging.ErrKey, err, "durable", c.durable)
				time.Sleep(time.Second)
				continue
			}

			for msg := range msgs.Messages() {
				c.dispatch(ctx, msg)
			}
			if err := msgs.Error(); err != nil && !errors.Is(err, jetstream.ErrNoMessages) {
				slog.ErrorContext(ctx, "message batch error", logging.ErrKey, err, "durable", c.durable)
			}
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, msg jetstream.Msg) {
	subject := msg.Subject()

	if err := c.handler.HandleMessage(ctx, natsMsg{msg: msg}); err != nil {
		slog.ErrorContext(ctx, "message handling failed, terminating message",
			logging.ErrKey, err, "subject", subject)
		// Term, not Nak: a failed notification is not redelivered.
		if termErr := msg.Term(); termErr != nil {
			slog.ErrorContext(ctx, "failed to terminate message", logging.ErrKey, termErr, "subject", subject)
		}
		return
	}

	if err := msg.Ack(); err != nil {
		slog.ErrorContext(ctx, "failed to acknowledge message", logging.ErrKey, err, "subject", subject)
	}
}

// durableName turns a subject like peaknote.notification.event into
// peaknote-notification-event, which is valid as a durable consumer name.
func durableName(subject string) string {
	name := make([]byte, len(subject))
	for i := 0; i < len(subject); i++ {
		if subject[i] == '.' {
			name[i] = '-'
		} else {
			name[i] = subject[i]
		}
	}
	return string(name)
}
