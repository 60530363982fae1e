// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peaknote/transcript-service/internal/domain"
	"github.com/peaknote/transcript-service/internal/domain/models"
)

func seedEvents(t *testing.T, repo *NatsMeetingEventRepository, events ...*models.MeetingEvent) {
	t.Helper()
	for _, event := range events {
		require.NoError(t, repo.Create(context.Background(), event))
	}
}

func TestNatsMeetingEventRepository_ListEventIDsByJoinURL(t *testing.T) {
	repo := NewNatsMeetingEventRepository(newMockNatsKeyValue())
	seedEvents(t, repo,
		&models.MeetingEvent{EventID: "e2", JoinURL: "https://teams.example/join/x"},
		&models.MeetingEvent{EventID: "e1", JoinURL: "https://teams.example/join/x"},
		&models.MeetingEvent{EventID: "e3", JoinURL: "https://teams.example/join/y"},
		&models.MeetingEvent{EventID: "e4"},
	)

	ids, err := repo.ListEventIDsByJoinURL(context.Background(), "https://teams.example/join/x")

	require.NoError(t, err)
	assert.Equal(t, []string{"e1", "e2"}, ids)
}

func TestNatsMeetingEventRepository_GetByMeetingIDAndStatus(t *testing.T) {
	repo := NewNatsMeetingEventRepository(newMockNatsKeyValue())
	seedEvents(t, repo,
		&models.MeetingEvent{EventID: "e1", MeetingID: "m1", TranscriptStatus: models.TranscriptStatusSubscribed},
		&models.MeetingEvent{EventID: "e2", MeetingID: "m1", TranscriptStatus: models.TranscriptStatusSaved},
	)

	event, err := repo.GetByMeetingIDAndStatus(context.Background(), "m1", models.TranscriptStatusSubscribed)
	require.NoError(t, err)
	assert.Equal(t, "e1", event.EventID)

	_, err = repo.GetByMeetingIDAndStatus(context.Background(), "m1", models.TranscriptStatusProcessing)
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
}

func TestNatsMeetingEventRepository_ListByStartDateAndStatus(t *testing.T) {
	repo := NewNatsMeetingEventRepository(newMockNatsKeyValue())

	day := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	today := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	tomorrow := today.Add(24 * time.Hour)

	seedEvents(t, repo,
		&models.MeetingEvent{EventID: "today-none", StartTime: &today, TranscriptStatus: models.TranscriptStatusNone},
		&models.MeetingEvent{EventID: "today-subscribed", StartTime: &today, TranscriptStatus: models.TranscriptStatusSubscribed},
		&models.MeetingEvent{EventID: "tomorrow-none", StartTime: &tomorrow, TranscriptStatus: models.TranscriptStatusNone},
		&models.MeetingEvent{EventID: "no-start", TranscriptStatus: models.TranscriptStatusNone},
	)

	events, err := repo.ListByStartDateAndStatus(context.Background(), day, models.TranscriptStatusNone)

	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "today-none", events[0].EventID)
}

func TestNatsMeetingEventRepository_ListByStatus(t *testing.T) {
	repo := NewNatsMeetingEventRepository(newMockNatsKeyValue())
	seedEvents(t, repo,
		&models.MeetingEvent{EventID: "e1", TranscriptStatus: models.TranscriptStatusSubscribed},
		&models.MeetingEvent{EventID: "e2", TranscriptStatus: models.TranscriptStatusSaved},
		&models.MeetingEvent{EventID: "e3", TranscriptStatus: models.TranscriptStatusSubscribed},
	)

	events, err := repo.ListByStatus(context.Background(), models.TranscriptStatusSubscribed)

	require.NoError(t, err)
	assert.Len(t, events, 2)
}
