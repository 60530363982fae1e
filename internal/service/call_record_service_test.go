// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/peaknote/transcript-service/internal/domain"
	"github.com/peaknote/transcript-service/internal/domain/mocks"
	"github.com/peaknote/transcript-service/internal/domain/models"
)

func callRecordPayload() []byte {
	return []byte(`{"value":[{"subscriptionId":"sub-cr","changeType":"updated",` +
		`"resource":"communications/onlineMeetings('meeting-1')",` +
		`"resourceData":{"id":"cr-1"}}]}`)
}

func TestHandleCallRecordNotification_CorrelatesToInstance(t *testing.T) {
	instanceRepo := &mocks.MockMeetingInstanceRepository{}
	eventRepo := &mocks.MockMeetingEventRepository{}
	svc := NewCallRecordService(instanceRepo, eventRepo)

	event := &models.MeetingEvent{EventID: "event-1", MeetingID: "meeting-1", TranscriptStatus: models.TranscriptStatusSaved}
	eventRepo.On("GetByMeetingIDAndStatus", mock.Anything, "meeting-1", models.TranscriptStatusSubscribed).
		Return(nil, domain.NewNotFoundError("not subscribed"))
	eventRepo.On("GetByMeetingIDAndStatus", mock.Anything, "meeting-1", models.TranscriptStatusProcessing).
		Return(nil, domain.NewNotFoundError("not processing"))
	eventRepo.On("GetByMeetingIDAndStatus", mock.Anything, "meeting-1", models.TranscriptStatusSaved).
		Return(event, nil)

	instance := &models.MeetingInstance{EventID: "event-1"}
	instanceRepo.On("Get", mock.Anything, "event-1").Return(instance, nil)
	instanceRepo.On("Update", mock.Anything, mock.MatchedBy(func(i *models.MeetingInstance) bool {
		return i.EventID == "event-1" && i.CallRecordID == "cr-1"
	})).Return(nil)

	err := svc.HandleCallRecordNotification(context.Background(), callRecordPayload())

	require.NoError(t, err)
	instanceRepo.AssertExpectations(t)
}

func TestHandleCallRecordNotification_CreatesCarrierInstance(t *testing.T) {
	instanceRepo := &mocks.MockMeetingInstanceRepository{}
	eventRepo := &mocks.MockMeetingEventRepository{}
	svc := NewCallRecordService(instanceRepo, eventRepo)

	event := &models.MeetingEvent{EventID: "event-1", UserID: "user-1", MeetingID: "meeting-1", TranscriptStatus: models.TranscriptStatusSubscribed}
	eventRepo.On("GetByMeetingIDAndStatus", mock.Anything, "meeting-1", models.TranscriptStatusSubscribed).
		Return(event, nil)

	instanceRepo.On("Get", mock.Anything, "event-1").Return(nil, domain.NewNotFoundError("no instance"))
	instanceRepo.On("CreateIfAbsent", mock.Anything, mock.MatchedBy(func(i *models.MeetingInstance) bool {
		return i.EventID == "event-1" && i.CreatedBy == "user-1"
	})).Return(true, nil)
	instanceRepo.On("Update", mock.Anything, mock.MatchedBy(func(i *models.MeetingInstance) bool {
		return i.CallRecordID == "cr-1"
	})).Return(nil)

	err := svc.HandleCallRecordNotification(context.Background(), callRecordPayload())

	require.NoError(t, err)
	instanceRepo.AssertExpectations(t)
}

func TestHandleCallRecordNotification_UntrackedMeetingIsDropped(t *testing.T) {
	instanceRepo := &mocks.MockMeetingInstanceRepository{}
	eventRepo := &mocks.MockMeetingEventRepository{}
	svc := NewCallRecordService(instanceRepo, eventRepo)

	eventRepo.On("GetByMeetingIDAndStatus", mock.Anything, "meeting-1", mock.Anything).
		Return(nil, domain.NewNotFoundError("untracked"))

	err := svc.HandleCallRecordNotification(context.Background(), callRecordPayload())

	require.NoError(t, err)
	instanceRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestHandleCallRecordNotification_MissingResourceDataID(t *testing.T) {
	svc := NewCallRecordService(&mocks.MockMeetingInstanceRepository{}, &mocks.MockMeetingEventRepository{})

	payload := []byte(`{"value":[{"resource":"communications/onlineMeetings('meeting-1')"}]}`)
	err := svc.HandleCallRecordNotification(context.Background(), payload)

	assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
}
