// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

// Package service contains the business logic for the transcript service.
package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/peaknote/transcript-service/internal/domain"
	"github.com/peaknote/transcript-service/internal/domain/models"
)

// Resource path literals of the transcript notification grammar:
// users('{userId}')/onlineMeetings('{meetingId}')/transcripts('{transcriptId}')
const (
	transcriptResourceUsers    = "users('"
	transcriptResourceMeetings = "')/onlineMeetings('"
	transcriptResourceContent  = "')/transcripts('"
	transcriptResourceSuffix   = "')"
)

// ParseNotificationEnvelope decodes a raw webhook payload. Malformed JSON is
// fatal; an empty value array is not.
func ParseNotificationEnvelope(payload []byte) (*models.NotificationEnvelope, error) {
	var envelope models.NotificationEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, domain.NewValidationError("malformed notification payload", err)
	}
	return &envelope, nil
}

// FirstNotification returns the first entry of the envelope's value array.
// Batched multi-entry notifications are not fully processed; every extraction
// consults only the first entry.
func FirstNotification(envelope *models.NotificationEnvelope) (*models.Notification, error) {
	if envelope == nil || len(envelope.Value) == 0 {
		return nil, domain.NewValidationError("notification envelope has no entries")
	}
	return &envelope.Value[0], nil
}

// ParseTranscriptInfo extracts the user, meeting and transcript identifiers
// from a transcript notification resource path. The three identifiers are
// taken positionally after stripping the fixed literal segments; fewer than
// three segments is a format error.
func ParseTranscriptInfo(resource string) (*models.TranscriptInfo, error) {
	stripped := resource
	stripped = strings.TrimPrefix(stripped, transcriptResourceUsers)
	stripped = strings.TrimSuffix(stripped, transcriptResourceSuffix)
	stripped = strings.ReplaceAll(stripped, transcriptResourceMeetings, "\x00")
	stripped = strings.ReplaceAll(stripped, transcriptResourceContent, "\x00")

	segments := strings.Split(stripped, "\x00")
	if len(segments) < 3 || segments[0] == "" || segments[1] == "" || segments[2] == "" {
		return nil, domain.NewValidationError(
			fmt.Sprintf("transcript resource %q does not match users(...)/onlineMeetings(...)/transcripts(...)", resource))
	}

	return &models.TranscriptInfo{
		UserID:       segments[0],
		MeetingID:    segments[1],
		TranscriptID: segments[2],
	}, nil
}

// ExtractUserID extracts the user identifier from an event notification
// resource shaped as Users/{userId}/Events/{eventId}.
func ExtractUserID(resource string) (string, error) {
	segments := strings.Split(resource, "/")
	for i := 0; i+1 < len(segments); i++ {
		if strings.EqualFold(segments[i], "users") && segments[i+1] != "" {
			return segments[i+1], nil
		}
	}
	return "", domain.NewValidationError(
		fmt.Sprintf("event resource %q does not match Users/{userId}/Events/{eventId}", resource))
}

// ExtractEventID reads the event identifier off the notification's resource
// data. Absence is a format error: an event notification without an id cannot
// be processed.
func ExtractEventID(n *models.Notification) (string, error) {
	if n.ResourceData == nil || n.ResourceData.ID == "" {
		return "", domain.NewValidationError("event notification carries no resource data id")
	}
	return n.ResourceData.ID, nil
}

// ParseCallRecordMeetingID extracts the online meeting identifier from a
// call record notification resource shaped as
// communications/onlineMeetings('{meetingId}').
func ParseCallRecordMeetingID(resource string) (string, error) {
	const (
		prefix = "communications/onlineMeetings('"
		suffix = "')"
	)
	if !strings.HasPrefix(resource, prefix) || !strings.HasSuffix(resource, suffix) {
		return "", domain.NewValidationError(
			fmt.Sprintf("call record resource %q does not match communications/onlineMeetings(...)", resource))
	}
	meetingID := resource[len(prefix) : len(resource)-len(suffix)]
	if meetingID == "" {
		return "", domain.NewValidationError("call record resource carries an empty meeting id")
	}
	return meetingID, nil
}

// ExtractSubscriptionID reads the subscription identifier off the first
// entry. Absence is non-fatal; the empty string is returned.
func ExtractSubscriptionID(envelope *models.NotificationEnvelope) string {
	if envelope == nil || len(envelope.Value) == 0 {
		return ""
	}
	return envelope.Value[0].SubscriptionID
}

// ExtractChangeType reads the change type off the first entry. Absence is
// non-fatal; the empty string is returned.
func ExtractChangeType(envelope *models.NotificationEnvelope) string {
	if envelope == nil || len(envelope.Value) == 0 {
		return ""
	}
	return envelope.Value[0].ChangeType
}
