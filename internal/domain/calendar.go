// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"
	"time"

	"github.com/peaknote/transcript-service/internal/domain/models"
)

// CalendarClient is the external calendar/communications API consumed by the
// service. Every call can fail transiently; failures propagate to the caller
// and are never retried inline.
type CalendarClient interface {
	// FetchUsers lists all directory users, following pagination.
	FetchUsers(ctx context.Context) ([]models.User, error)

	// GetEvent fetches one calendar event of a user.
	GetEvent(ctx context.Context, userID, eventID string) (*models.CalendarEvent, error)

	// GetEventOccurrences expands a recurring series into its occurrences
	// within the given window. An empty result is not an error.
	GetEventOccurrences(ctx context.Context, userID, seriesMasterID string, start, end time.Time) ([]models.CalendarEvent, error)

	// GetOnlineMeetingsByJoinURL looks up the online meetings of a user whose
	// join web URL matches.
	GetOnlineMeetingsByJoinURL(ctx context.Context, userID, joinURL string) ([]models.OnlineMeeting, error)

	// CreateEventSubscription registers a watch on a user's calendar events.
	CreateEventSubscription(ctx context.Context, userID, notificationURL, clientState string, expires time.Time) (*models.Subscription, error)

	// CreateTranscriptSubscription registers a watch on a meeting's
	// transcripts, with a distinct lifecycle-notification callback.
	CreateTranscriptSubscription(ctx context.Context, meetingID, notificationURL, lifecycleURL, clientState string, expires time.Time) (*models.Subscription, error)

	// CreateCallRecordSubscription registers a watch on online meetings for
	// call record changes.
	CreateCallRecordSubscription(ctx context.Context, notificationURL, clientState string, expires time.Time) (*models.Subscription, error)

	// RenewSubscription extends an existing watch.
	RenewSubscription(ctx context.Context, subscriptionID string, expires time.Time) (*models.Subscription, error)

	// DeleteSubscription removes a watch registration.
	DeleteSubscription(ctx context.Context, subscriptionID string) error

	// ListSubscriptions enumerates all watch registrations held by the caller.
	ListSubscriptions(ctx context.Context) ([]models.Subscription, error)

	// ListTranscripts enumerates the transcript resources of a meeting,
	// oldest first. An empty result is not an error.
	ListTranscripts(ctx context.Context, userID, meetingID string) ([]models.MeetingTranscript, error)

	// DownloadTranscript fetches the raw transcript content of a meeting.
	DownloadTranscript(ctx context.Context, userID, meetingID, transcriptID string) (string, error)
}

// Summarizer condenses transcript text. It must not fail: on any internal
// error implementations return the input unchanged.
type Summarizer interface {
	Summarize(ctx context.Context, text string) string
}
