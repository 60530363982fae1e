// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

// Package constants holds shared constants for the transcript service.
package constants

import "time"

// NATS JetStream subjects for the notification pipeline topics.
const (
	// NotificationStreamName is the JetStream stream carrying all webhook
	// notification topics.
	NotificationStreamName = "peaknote-notifications"

	// EventNotificationSubject is the topic for calendar event change notifications.
	EventNotificationSubject = "peaknote.notification.event"

	// TranscriptNotificationSubject is the topic for transcript change notifications.
	TranscriptNotificationSubject = "peaknote.notification.transcript"

	// CallRecordNotificationSubject is the topic for call record change notifications.
	CallRecordNotificationSubject = "peaknote.notification.callrecord"
)

// Cache key prefixes and lock keys for the transcript store.
const (
	URLEventCachePrefix   = "urlEventCache::"
	TranscriptCachePrefix = "transcriptCache::"
	TranscriptLockPrefix  = "lock:transcript:"
)

// Timing parameters of the notification pipeline.
const (
	// CacheTTL is how long transcript and URL lookups stay cached,
	// including negative entries.
	CacheTTL = time.Hour

	// TranscriptLockLease bounds how long a transcript write may hold the
	// distributed lock before it is considered stale.
	TranscriptLockLease = 30 * time.Second

	// DoubleDeleteDelay is the pause before the second cache eviction on the
	// transcript write path.
	DoubleDeleteDelay = 500 * time.Millisecond

	// DedupWindow is how long a notification signature suppresses duplicates.
	DedupWindow = 5 * time.Minute

	// EventSubscriptionTTL is the expiry requested for calendar event watches.
	EventSubscriptionTTL = 2 * time.Hour

	// TranscriptSubscriptionTTL is the expiry requested for transcript watches.
	TranscriptSubscriptionTTL = 8 * time.Hour

	// RenewalThreshold is the remaining lifetime below which the renewal
	// sweep extends a subscription.
	RenewalThreshold = 25 * time.Hour

	// RenewalExtension is how far past the sweep run a renewed subscription expires.
	RenewalExtension = 3 * 24 * time.Hour

	// OccurrenceWindow is the forward window used when expanding a recurring
	// series into occurrences.
	OccurrenceWindow = 6 * 30 * 24 * time.Hour

	// ProcessingGrace is how long after a meeting's end time the transcript
	// check waits before attempting a download.
	ProcessingGrace = 10 * time.Minute
)

// Webhook callback paths registered with the external API.
const (
	NotificationWebhookPath = "/webhook/notification"
	TranscriptWebhookPath   = "/webhook/teams-transcript"
	CallRecordWebhookPath   = "/webhook/call-record"
	LifecycleWebhookPath    = "/webhook/teams-lifecycle"
)

// EventSubscriptionClientState is the fixed client state sent with calendar
// event watch registrations. Transcript watches use a random token instead.
const EventSubscriptionClientState = "peaknote-event-watch"
