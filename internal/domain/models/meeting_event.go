// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

// Package models contains the domain models for the transcript service.
package models

import "time"

// TranscriptStatus is the lifecycle state of a meeting's transcript acquisition.
type TranscriptStatus string

const (
	// TranscriptStatusNone is the initial state of a tracked meeting event.
	TranscriptStatusNone TranscriptStatus = "none"
	// TranscriptStatusSubscribed means a transcript watch subscription exists
	// for the meeting.
	TranscriptStatusSubscribed TranscriptStatus = "subscribed"
	// TranscriptStatusProcessing means the meeting has ended and a transcript
	// download has been attempted.
	TranscriptStatusProcessing TranscriptStatus = "processing"
	// TranscriptStatusSaved means a summarized transcript has been persisted.
	TranscriptStatusSaved TranscriptStatus = "saved"
	// TranscriptStatusAvailable is reserved; no transition assigns it.
	TranscriptStatusAvailable TranscriptStatus = "available"
	// TranscriptStatusFailed marks an unrecoverable processing error.
	TranscriptStatusFailed TranscriptStatus = "failed"
)

// MeetingEvent is a tracked calendar event for a single user. For recurring
// series one record exists per occurrence, each referencing the series master.
type MeetingEvent struct {
	EventID          string           `json:"event_id"`
	SeriesMasterID   string           `json:"series_master_id,omitempty"`
	UserID           string           `json:"user_id"`
	Subject          string           `json:"subject"`
	StartTime        *time.Time       `json:"start_time,omitempty"`
	EndTime          *time.Time       `json:"end_time,omitempty"`
	JoinURL          string           `json:"join_url,omitempty"`
	MeetingID        string           `json:"meeting_id,omitempty"`
	LastNotifiedAt   *time.Time       `json:"last_notified_at,omitempty"`
	TranscriptStatus TranscriptStatus `json:"transcript_status"`
}

// StartsOn reports whether the event starts on the same calendar day as the
// given time, compared in UTC.
func (m *MeetingEvent) StartsOn(day time.Time) bool {
	if m.StartTime == nil {
		return false
	}
	y1, mo1, d1 := m.StartTime.UTC().Date()
	y2, mo2, d2 := day.UTC().Date()
	return y1 == y2 && mo1 == mo2 && d1 == d2
}

// ReadyForProcessing reports whether a subscribed meeting has been over long
// enough for a transcript download attempt.
func (m *MeetingEvent) ReadyForProcessing(now time.Time, grace time.Duration) bool {
	if m.TranscriptStatus != TranscriptStatusSubscribed || m.EndTime == nil {
		return false
	}
	return now.Sub(*m.EndTime) > grace
}
