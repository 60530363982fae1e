// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/peaknote/transcript-service/internal/domain"
	"github.com/peaknote/transcript-service/internal/domain/models"
	"github.com/peaknote/transcript-service/internal/logging"
)

// CallRecordService correlates call record notifications to materialized
// meeting instances.
type CallRecordService struct {
	instanceRepository domain.MeetingInstanceRepository
	eventRepository    domain.MeetingEventRepository
}

// NewCallRecordService creates a new CallRecordService.
func NewCallRecordService(
	instanceRepository domain.MeetingInstanceRepository,
	eventRepository domain.MeetingEventRepository,
) *CallRecordService {
	return &CallRecordService{
		instanceRepository: instanceRepository,
		eventRepository:    eventRepository,
	}
}

// ServiceReady checks if the service is ready to process call records.
func (s *CallRecordService) ServiceReady() bool {
	return s.instanceRepository != nil && s.eventRepository != nil
}

// HandleCallRecordNotification records the call record id on the meeting
// instance of the referenced event, when one is tracked. Notifications for
// untracked meetings are dropped with a log line.
func (s *CallRecordService) HandleCallRecordNotification(ctx context.Context, payload []byte) error {
	envelope, err := ParseNotificationEnvelope(payload)
	if err != nil {
		return err
	}
	first, err := FirstNotification(envelope)
	if err != nil {
		return err
	}

	callRecordID := ""
	if first.ResourceData != nil {
		callRecordID = first.ResourceData.ID
	}
	if callRecordID == "" {
		return domain.NewValidationError("call record notification carries no resource data id")
	}

	ctx = logging.AppendCtx(ctx, slog.String("call_record_id", callRecordID))

	meetingID, err := ParseCallRecordMeetingID(first.Resource)
	if err != nil {
		return err
	}

	event := s.findEventByMeetingID(ctx, meetingID)
	if event == nil {
		slog.InfoContext(ctx, "no tracked meeting for call record, dropping", "meeting_id", meetingID)
		return nil
	}

	instance, err := s.instanceRepository.Get(ctx, event.EventID)
	if err != nil {
		if domain.GetErrorType(err) != domain.ErrorTypeNotFound {
			return err
		}
		// Non-series meetings have no materialized instance yet; create one
		// to carry the correlation.
		instance = &models.MeetingInstance{
			EventID:          event.EventID,
			SeriesMasterID:   event.SeriesMasterID,
			JoinURL:          event.JoinURL,
			StartTime:        event.StartTime,
			EndTime:          event.EndTime,
			TranscriptStatus: event.TranscriptStatus,
			CreatedBy:        event.UserID,
			CreatedAt:        time.Now().UTC(),
		}
		if _, err := s.instanceRepository.CreateIfAbsent(ctx, instance); err != nil {
			return err
		}
	}

	instance.CallRecordID = callRecordID
	if err := s.instanceRepository.Update(ctx, instance); err != nil {
		slog.ErrorContext(ctx, "failed to record call record id", logging.ErrKey, err,
			"event_id", event.EventID,
		)
		return err
	}

	slog.InfoContext(ctx, "correlated call record to meeting instance", "event_id", event.EventID)
	return nil
}

// findEventByMeetingID looks the meeting up across the lifecycle states a
// finished meeting can be in when its call record arrives.
func (s *CallRecordService) findEventByMeetingID(ctx context.Context, meetingID string) *models.MeetingEvent {
	for _, status := range []models.TranscriptStatus{
		models.TranscriptStatusSubscribed,
		models.TranscriptStatusProcessing,
		models.TranscriptStatusSaved,
	} {
		event, err := s.eventRepository.GetByMeetingIDAndStatus(ctx, meetingID, status)
		if err == nil {
			return event
		}
		if domain.GetErrorType(err) != domain.ErrorTypeNotFound {
			slog.WarnContext(ctx, "meeting lookup failed", logging.ErrKey, err, "meeting_id", meetingID)
			return nil
		}
	}
	return nil
}
