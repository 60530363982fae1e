// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/peaknote/transcript-service/internal/domain"
	"github.com/peaknote/transcript-service/internal/domain/models"
	"github.com/peaknote/transcript-service/internal/logging"
	"github.com/peaknote/transcript-service/pkg/constants"
)

// TranscriptSubscriber creates transcript watch subscriptions. Implemented by
// SubscriptionService; declared here so the lifecycle does not depend on the
// full subscription surface.
type TranscriptSubscriber interface {
	CreateTranscriptSubscription(ctx context.Context, meetingID string) (*models.Subscription, error)
}

// MeetingEventService applies the transcript-status lifecycle to meeting
// records in response to calendar change notifications.
type MeetingEventService struct {
	eventRepository    domain.MeetingEventRepository
	instanceRepository domain.MeetingInstanceRepository
	calendarClient     domain.CalendarClient
	subscriber         TranscriptSubscriber

	// now is replaceable in tests.
	now func() time.Time
}

// NewMeetingEventService creates a new MeetingEventService.
func NewMeetingEventService(
	eventRepository domain.MeetingEventRepository,
	instanceRepository domain.MeetingInstanceRepository,
	calendarClient domain.CalendarClient,
	subscriber TranscriptSubscriber,
) *MeetingEventService {
	return &MeetingEventService{
		eventRepository:    eventRepository,
		instanceRepository: instanceRepository,
		calendarClient:     calendarClient,
		subscriber:         subscriber,
		now:                time.Now,
	}
}

// ServiceReady checks if the service is ready to process notifications.
func (s *MeetingEventService) ServiceReady() bool {
	return s.eventRepository != nil &&
		s.instanceRepository != nil &&
		s.calendarClient != nil &&
		s.subscriber != nil
}

// HandleEventNotification processes one calendar change notification payload:
// it fetches the referenced event and applies the lifecycle, expanding
// recurring masters into their forward occurrences.
func (s *MeetingEventService) HandleEventNotification(ctx context.Context, payload []byte) error {
	envelope, err := ParseNotificationEnvelope(payload)
	if err != nil {
		return err
	}
	first, err := FirstNotification(envelope)
	if err != nil {
		return err
	}

	userID, err := ExtractUserID(first.Resource)
	if err != nil {
		return err
	}
	eventID, err := ExtractEventID(first)
	if err != nil {
		return err
	}

	ctx = logging.AppendCtx(ctx, slog.String("user_id", userID))
	ctx = logging.AppendCtx(ctx, slog.String("event_id", eventID))

	event, err := s.calendarClient.GetEvent(ctx, userID, eventID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch calendar event", logging.ErrKey, err)
		return domain.NewUnavailableError("failed to fetch calendar event", err)
	}

	if event.IsSeriesMaster() {
		return s.processSeriesMaster(ctx, userID, event)
	}
	return s.processOccurrence(ctx, userID, event, event.SeriesMasterID)
}

// processSeriesMaster expands a recurring master into its occurrences within
// the forward window and applies the lifecycle to each independently. An
// empty occurrence list is not an error.
func (s *MeetingEventService) processSeriesMaster(ctx context.Context, userID string, master *models.CalendarEvent) error {
	now := s.now()
	occurrences, err := s.calendarClient.GetEventOccurrences(ctx, userID, master.ID, now, now.Add(constants.OccurrenceWindow))
	if err != nil {
		slog.ErrorContext(ctx, "failed to expand series occurrences", logging.ErrKey, err,
			"series_master_id", master.ID,
		)
		return domain.NewUnavailableError("failed to expand series occurrences", err)
	}

	slog.InfoContext(ctx, "expanding recurring series",
		"series_master_id", master.ID,
		"occurrence_count", len(occurrences),
	)

	for i := range occurrences {
		occ := &occurrences[i]
		if err := s.processOccurrence(ctx, userID, occ, master.ID); err != nil {
			// One bad occurrence never aborts the rest of the series.
			slog.WarnContext(ctx, "failed to process series occurrence", logging.ErrKey, err,
				"occurrence_event_id", occ.ID,
			)
		}
	}
	return nil
}

// processOccurrence converts a calendar event into a tracked MeetingEvent,
// creating or refreshing the record and subscribing to its transcripts when
// the meeting is today and matched to an online meeting.
func (s *MeetingEventService) processOccurrence(ctx context.Context, userID string, calEvent *models.CalendarEvent, seriesMasterID string) error {
	now := s.now()

	existing, err := s.eventRepository.Get(ctx, calEvent.ID)
	if err != nil && domain.GetErrorType(err) != domain.ErrorTypeNotFound {
		return err
	}

	if existing != nil && existing.TranscriptStatus != models.TranscriptStatusNone {
		// A subscribed or further-along event never regresses; only the
		// notification bookkeeping moves.
		existing.Subject = calEvent.Subject
		existing.LastNotifiedAt = &now
		if err := s.eventRepository.Update(ctx, existing); err != nil {
			return err
		}
		slog.DebugContext(ctx, "refreshed tracked event",
			"transcript_status", existing.TranscriptStatus,
		)
		return nil
	}

	event := s.convertEvent(ctx, userID, calEvent, seriesMasterID)

	if event.StartsOn(now) && event.MeetingID != "" {
		if _, err := s.subscriber.CreateTranscriptSubscription(ctx, event.MeetingID); err != nil {
			// The event stays NONE; the daily sweep retries the subscription.
			slog.WarnContext(ctx, "failed to create transcript subscription, event stays unsubscribed",
				logging.ErrKey, err,
				"meeting_id", event.MeetingID,
			)
		} else {
			event.TranscriptStatus = models.TranscriptStatusSubscribed
		}
	}

	if err := s.upsertEvent(ctx, existing != nil, event); err != nil {
		return err
	}

	if seriesMasterID != "" {
		s.materializeInstance(ctx, userID, event)
	}

	slog.InfoContext(ctx, "processed meeting event",
		"subject", event.Subject,
		"transcript_status", event.TranscriptStatus,
		"meeting_id", event.MeetingID,
	)
	return nil
}

// convertEvent builds a MeetingEvent from a calendar event, decoding the join
// URL and matching it to an online meeting for the meeting id.
func (s *MeetingEventService) convertEvent(ctx context.Context, userID string, calEvent *models.CalendarEvent, seriesMasterID string) *models.MeetingEvent {
	now := s.now()

	event := &models.MeetingEvent{
		EventID:          calEvent.ID,
		SeriesMasterID:   seriesMasterID,
		UserID:           userID,
		Subject:          calEvent.Subject,
		LastNotifiedAt:   &now,
		TranscriptStatus: models.TranscriptStatusNone,
	}
	if calEvent.Start != nil {
		event.StartTime = ParseGraphDateTime(calEvent.Start.DateTime)
	}
	if calEvent.End != nil {
		event.EndTime = ParseGraphDateTime(calEvent.End.DateTime)
	}
	if calEvent.OnlineMeeting != nil {
		event.JoinURL = decodeJoinURL(calEvent.OnlineMeeting.JoinURL)
	}

	if event.JoinURL != "" {
		meetings, err := s.calendarClient.GetOnlineMeetingsByJoinURL(ctx, userID, event.JoinURL)
		if err != nil {
			slog.WarnContext(ctx, "online meeting lookup failed, meeting id stays unset", logging.ErrKey, err)
		} else if len(meetings) > 0 {
			event.MeetingID = meetings[0].ID
		}
	}

	return event
}

func (s *MeetingEventService) upsertEvent(ctx context.Context, exists bool, event *models.MeetingEvent) error {
	if exists {
		return s.eventRepository.Update(ctx, event)
	}
	return s.eventRepository.Create(ctx, event)
}

// materializeInstance records a series occurrence as a MeetingInstance,
// create-if-absent only.
func (s *MeetingEventService) materializeInstance(ctx context.Context, userID string, event *models.MeetingEvent) {
	instance := &models.MeetingInstance{
		EventID:          event.EventID,
		SeriesMasterID:   event.SeriesMasterID,
		JoinURL:          event.JoinURL,
		StartTime:        event.StartTime,
		EndTime:          event.EndTime,
		TranscriptStatus: event.TranscriptStatus,
		CreatedBy:        userID,
		CreatedAt:        s.now().UTC(),
	}
	created, err := s.instanceRepository.CreateIfAbsent(ctx, instance)
	if err != nil {
		slog.WarnContext(ctx, "failed to materialize meeting instance", logging.ErrKey, err)
		return
	}
	if created {
		slog.DebugContext(ctx, "materialized meeting instance", "series_master_id", event.SeriesMasterID)
	}
}

// SubscribeTodaysMeetings is the daily sweep that retries transcript
// subscriptions for events starting today that are still unsubscribed.
func (s *MeetingEventService) SubscribeTodaysMeetings(ctx context.Context) error {
	now := s.now()

	events, err := s.eventRepository.ListByStartDateAndStatus(ctx, now, models.TranscriptStatusNone)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list today's unsubscribed events", logging.ErrKey, err)
		return err
	}

	for _, event := range events {
		if event.MeetingID == "" {
			continue
		}
		if _, err := s.subscriber.CreateTranscriptSubscription(ctx, event.MeetingID); err != nil {
			slog.WarnContext(ctx, "failed to subscribe today's meeting", logging.ErrKey, err,
				"event_id", event.EventID,
				"meeting_id", event.MeetingID,
			)
			continue
		}
		event.TranscriptStatus = models.TranscriptStatusSubscribed
		if err := s.eventRepository.Update(ctx, event); err != nil {
			slog.ErrorContext(ctx, "failed to persist subscribed status", logging.ErrKey, err,
				"event_id", event.EventID,
			)
		}
	}
	return nil
}

// ParseGraphDateTime parses an external timestamp carrying fractional seconds
// and no zone designator: the string is truncated at the first '.', a UTC
// marker is appended, and the result parsed. Any anomaly yields nil rather
// than an error.
func ParseGraphDateTime(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	if idx := strings.IndexByte(raw, '.'); idx >= 0 {
		raw = raw[:idx]
	}
	raw += "Z"

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &t
}

// decodeJoinURL percent-decodes a join URL, falling back to the raw value
// when decoding fails.
func decodeJoinURL(raw string) string {
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}
