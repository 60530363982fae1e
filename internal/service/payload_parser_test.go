// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peaknote/transcript-service/internal/domain"
	"github.com/peaknote/transcript-service/internal/domain/models"
)

func TestParseTranscriptInfo(t *testing.T) {
	tests := []struct {
		name     string
		resource string
		expected *models.TranscriptInfo
		wantErr  bool
	}{
		{
			name:     "well-formed resource",
			resource: "users('U1')/onlineMeetings('M1')/transcripts('T1')",
			expected: &models.TranscriptInfo{UserID: "U1", MeetingID: "M1", TranscriptID: "T1"},
		},
		{
			name:     "identifiers with special characters",
			resource: "users('abc-123_x')/onlineMeetings('MSo4ZT==')/transcripts('dHJhbnM=')",
			expected: &models.TranscriptInfo{UserID: "abc-123_x", MeetingID: "MSo4ZT==", TranscriptID: "dHJhbnM="},
		},
		{
			name:     "missing transcripts segment",
			resource: "users('U1')/onlineMeetings('M1')",
			wantErr:  true,
		},
		{
			name:     "event-shaped resource",
			resource: "Users/U1/Events/E1",
			wantErr:  true,
		},
		{
			name:     "empty resource",
			resource: "",
			wantErr:  true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			info, err := ParseTranscriptInfo(tc.resource)
			if tc.wantErr {
				require.Error(t, err)
				assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, info)
		})
	}
}

func TestExtractUserID(t *testing.T) {
	tests := []struct {
		name     string
		resource string
		expected string
		wantErr  bool
	}{
		{
			name:     "slash-delimited resource",
			resource: "Users/user-42/Events/event-7",
			expected: "user-42",
		},
		{
			name:     "lowercase users segment",
			resource: "users/user-42/events/event-7",
			expected: "user-42",
		},
		{
			name:     "no users segment",
			resource: "communications/callRecords/abc",
			wantErr:  true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			userID, err := ExtractUserID(tc.resource)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, userID)
		})
	}
}

func TestExtractEventID(t *testing.T) {
	n := &models.Notification{
		ResourceData: &models.NotificationResourceData{ID: "event-7"},
	}
	eventID, err := ExtractEventID(n)
	require.NoError(t, err)
	assert.Equal(t, "event-7", eventID)

	_, err = ExtractEventID(&models.Notification{})
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
}

func TestParseNotificationEnvelope(t *testing.T) {
	envelope, err := ParseNotificationEnvelope([]byte(`{
		"value":[
			{"subscriptionId":"sub-1","changeType":"created","resource":"Users/u/Events/e","resourceData":{"id":"e"}},
			{"subscriptionId":"sub-2","changeType":"updated","resource":"other"}
		]
	}`))
	require.NoError(t, err)
	require.Len(t, envelope.Value, 2)

	// Every extraction consults only the first entry.
	assert.Equal(t, "sub-1", ExtractSubscriptionID(envelope))
	assert.Equal(t, "created", ExtractChangeType(envelope))

	first, err := FirstNotification(envelope)
	require.NoError(t, err)
	assert.Equal(t, "sub-1", first.SubscriptionID)
}

func TestParseNotificationEnvelope_MalformedJSONIsFatal(t *testing.T) {
	_, err := ParseNotificationEnvelope([]byte(`{"value": [`))
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
}

func TestFirstNotification_EmptyEnvelope(t *testing.T) {
	_, err := FirstNotification(&models.NotificationEnvelope{})
	require.Error(t, err)
}

func TestExtractSubscriptionID_AbsenceIsNonFatal(t *testing.T) {
	assert.Empty(t, ExtractSubscriptionID(nil))
	assert.Empty(t, ExtractSubscriptionID(&models.NotificationEnvelope{}))
	assert.Empty(t, ExtractChangeType(&models.NotificationEnvelope{}))
}

func TestParseCallRecordMeetingID(t *testing.T) {
	meetingID, err := ParseCallRecordMeetingID("communications/onlineMeetings('M1')")
	require.NoError(t, err)
	assert.Equal(t, "M1", meetingID)

	_, err = ParseCallRecordMeetingID("communications/onlineMeetings('')")
	require.Error(t, err)

	_, err = ParseCallRecordMeetingID("Users/u/Events/e")
	require.Error(t, err)
}

func TestNotificationSignature(t *testing.T) {
	n := &models.Notification{
		SubscriptionID: "sub-1",
		Resource:       "Users/u/Events/e",
		ChangeType:     "created",
	}
	assert.Equal(t, "sub-1-Users/u/Events/e-created", n.Signature())
}
