// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/peaknote/transcript-service/internal/domain"
	"github.com/peaknote/transcript-service/internal/domain/models"
)

// NatsMeetingEventRepository is the NATS KV repository for meeting events,
// keyed by event ID.
type NatsMeetingEventRepository struct {
	*NatsBaseRepository[models.MeetingEvent]
}

// NewNatsMeetingEventRepository creates a new NATS KV repository for meeting events.
func NewNatsMeetingEventRepository(kvStore INatsKeyValue) *NatsMeetingEventRepository {
	return &NatsMeetingEventRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.MeetingEvent](kvStore, "meeting event"),
	}
}

// Create stores a new meeting event record.
func (r *NatsMeetingEventRepository) Create(ctx context.Context, event *models.MeetingEvent) error {
	return r.Put(ctx, event.EventID, event)
}

// Update overwrites a meeting event record. Last writer wins.
func (r *NatsMeetingEventRepository) Update(ctx context.Context, event *models.MeetingEvent) error {
	return r.Put(ctx, event.EventID, event)
}

// ListEventIDsByJoinURL returns the IDs of events whose join URL matches,
// sorted for stable ordering.
func (r *NatsMeetingEventRepository) ListEventIDsByJoinURL(ctx context.Context, joinURL string) ([]string, error) {
	events, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var eventIDs []string
	for _, event := range events {
		if event.JoinURL != "" && event.JoinURL == joinURL {
			eventIDs = append(eventIDs, event.EventID)
		}
	}
	slices.Sort(eventIDs)

	return eventIDs, nil
}

// GetByMeetingIDAndStatus finds the event matched to the given online meeting
// in the given transcript status.
func (r *NatsMeetingEventRepository) GetByMeetingIDAndStatus(ctx context.Context, meetingID string, status models.TranscriptStatus) (*models.MeetingEvent, error) {
	events, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, event := range events {
		if event.MeetingID == meetingID && event.TranscriptStatus == status {
			return event, nil
		}
	}

	return nil, domain.NewNotFoundError(
		fmt.Sprintf("no meeting event with meeting ID '%s' in status '%s'", meetingID, status))
}

// ListByStartDateAndStatus returns events starting on the given UTC day in
// the given transcript status.
func (r *NatsMeetingEventRepository) ListByStartDateAndStatus(ctx context.Context, day time.Time, status models.TranscriptStatus) ([]*models.MeetingEvent, error) {
	events, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var matched []*models.MeetingEvent
	for _, event := range events {
		if event.TranscriptStatus == status && event.StartsOn(day) {
			matched = append(matched, event)
		}
	}

	return matched, nil
}

// ListByStatus returns all events in the given transcript status.
func (r *NatsMeetingEventRepository) ListByStatus(ctx context.Context, status models.TranscriptStatus) ([]*models.MeetingEvent, error) {
	events, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var matched []*models.MeetingEvent
	for _, event := range events {
		if event.TranscriptStatus == status {
			matched = append(matched, event)
		}
	}

	return matched, nil
}
