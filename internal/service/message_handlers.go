// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/peaknote/transcript-service/internal/domain"
	"github.com/peaknote/transcript-service/internal/logging"
	"github.com/peaknote/transcript-service/pkg/constants"
	"github.com/peaknote/transcript-service/pkg/metrics"
)

// MessageHandlers routes pulled queue messages to the owning service by
// subject. A nil return acknowledges the message; an error terminates it
// without requeue.
type MessageHandlers struct {
	meetingEventService *MeetingEventService
	transcriptService   *TranscriptProcessService
	callRecordService   *CallRecordService
}

var _ domain.MessageHandler = (*MessageHandlers)(nil)

// NewMessageHandlers creates a new MessageHandlers.
func NewMessageHandlers(
	meetingEventService *MeetingEventService,
	transcriptService *TranscriptProcessService,
	callRecordService *CallRecordService,
) *MessageHandlers {
	return &MessageHandlers{
		meetingEventService: meetingEventService,
		transcriptService:   transcriptService,
		callRecordService:   callRecordService,
	}
}

// HandlerReady checks if all routed services are ready.
func (h *MessageHandlers) HandlerReady() bool {
	return h.meetingEventService != nil && h.meetingEventService.ServiceReady() &&
		h.transcriptService != nil && h.transcriptService.ServiceReady() &&
		h.callRecordService != nil && h.callRecordService.ServiceReady()
}

// HandleMessage dispatches one queue message by subject.
func (h *MessageHandlers) HandleMessage(ctx context.Context, msg domain.Message) error {
	subject := msg.Subject()
	ctx = logging.AppendCtx(ctx, slog.String("subject", subject))

	start := time.Now()
	var err error
	switch subject {
	case constants.EventNotificationSubject:
		err = h.meetingEventService.HandleEventNotification(ctx, msg.Data())
	case constants.TranscriptNotificationSubject:
		err = h.transcriptService.HandleTranscriptNotification(ctx, msg.Data())
	case constants.CallRecordNotificationSubject:
		err = h.callRecordService.HandleCallRecordNotification(ctx, msg.Data())
	default:
		err = domain.NewValidationError("unknown message subject: " + subject)
	}

	metrics.MessageProcessingDuration.WithLabelValues(subject).Observe(time.Since(start).Seconds())
	metrics.RecordMessageProcessed(subject, err == nil)

	if err != nil {
		slog.ErrorContext(ctx, "message processing failed, message will be dropped", logging.ErrKey, err)
	}
	return err
}
