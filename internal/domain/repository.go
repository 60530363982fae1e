// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

// Package domain holds the service's domain types and the interfaces its
// collaborators implement.
package domain

import (
	"context"
	"time"

	"github.com/peaknote/transcript-service/internal/domain/models"
)

// MeetingEventRepository defines the storage operations for meeting events.
// Mutations are last-writer-wins; only transcript content carries a lock.
type MeetingEventRepository interface {
	Create(ctx context.Context, event *models.MeetingEvent) error
	Get(ctx context.Context, eventID string) (*models.MeetingEvent, error)
	Update(ctx context.Context, event *models.MeetingEvent) error
	Exists(ctx context.Context, eventID string) (bool, error)

	// ListEventIDsByJoinURL returns the event IDs whose join URL matches,
	// ordered by event ID for stable results.
	ListEventIDsByJoinURL(ctx context.Context, joinURL string) ([]string, error)

	// GetByMeetingIDAndStatus finds the event matched to the given online
	// meeting that is in the given transcript status.
	GetByMeetingIDAndStatus(ctx context.Context, meetingID string, status models.TranscriptStatus) (*models.MeetingEvent, error)

	// ListByStartDateAndStatus returns events starting on the given UTC day
	// that are in the given transcript status.
	ListByStartDateAndStatus(ctx context.Context, day time.Time, status models.TranscriptStatus) ([]*models.MeetingEvent, error)

	// ListByStatus returns all events in the given transcript status.
	ListByStatus(ctx context.Context, status models.TranscriptStatus) ([]*models.MeetingEvent, error)
}

// MeetingInstanceRepository defines storage for materialized series occurrences.
type MeetingInstanceRepository interface {
	// CreateIfAbsent stores the instance unless one already exists for its
	// event ID. It reports whether a record was written.
	CreateIfAbsent(ctx context.Context, instance *models.MeetingInstance) (bool, error)
	Get(ctx context.Context, eventID string) (*models.MeetingInstance, error)
	Update(ctx context.Context, instance *models.MeetingInstance) error
}

// TranscriptRepository defines storage for summarized transcripts.
type TranscriptRepository interface {
	Create(ctx context.Context, transcript *models.Transcript) error

	// GetLatestByEventID returns the most recently created transcript for the
	// event, or a not-found error.
	GetLatestByEventID(ctx context.Context, eventID string) (*models.Transcript, error)

	// UpdateContentByEventID rewrites the content of the event's latest
	// transcript.
	UpdateContentByEventID(ctx context.Context, eventID, content string) error
}

// SubscriptionRepository defines storage for tracked watch subscriptions.
type SubscriptionRepository interface {
	Put(ctx context.Context, sub *models.Subscription) error
	Get(ctx context.Context, id string) (*models.Subscription, error)
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]*models.Subscription, error)
}

// UserRepository defines storage for directory users.
type UserRepository interface {
	Put(ctx context.Context, user *models.User) error
	Get(ctx context.Context, oid string) (*models.User, error)
	ListAll(ctx context.Context) ([]*models.User, error)
}
