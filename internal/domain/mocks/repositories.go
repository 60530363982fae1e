// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

// Package mocks contains testify mocks for the domain interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/peaknote/transcript-service/internal/domain/models"
)

// MockMeetingEventRepository implements MeetingEventRepository for testing
type MockMeetingEventRepository struct {
	mock.Mock
}

func (m *MockMeetingEventRepository) Create(ctx context.Context, event *models.MeetingEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockMeetingEventRepository) Get(ctx context.Context, eventID string) (*models.MeetingEvent, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MeetingEvent), args.Error(1)
}

func (m *MockMeetingEventRepository) Update(ctx context.Context, event *models.MeetingEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockMeetingEventRepository) Exists(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMeetingEventRepository) ListEventIDsByJoinURL(ctx context.Context, joinURL string) ([]string, error) {
	args := m.Called(ctx, joinURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockMeetingEventRepository) GetByMeetingIDAndStatus(ctx context.Context, meetingID string, status models.TranscriptStatus) (*models.MeetingEvent, error) {
	args := m.Called(ctx, meetingID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MeetingEvent), args.Error(1)
}

func (m *MockMeetingEventRepository) ListByStartDateAndStatus(ctx context.Context, day time.Time, status models.TranscriptStatus) ([]*models.MeetingEvent, error) {
	args := m.Called(ctx, day, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MeetingEvent), args.Error(1)
}

func (m *MockMeetingEventRepository) ListByStatus(ctx context.Context, status models.TranscriptStatus) ([]*models.MeetingEvent, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MeetingEvent), args.Error(1)
}

// MockMeetingInstanceRepository implements MeetingInstanceRepository for testing
type MockMeetingInstanceRepository struct {
	mock.Mock
}

func (m *MockMeetingInstanceRepository) CreateIfAbsent(ctx context.Context, instance *models.MeetingInstance) (bool, error) {
	args := m.Called(ctx, instance)
	return args.Bool(0), args.Error(1)
}

func (m *MockMeetingInstanceRepository) Get(ctx context.Context, eventID string) (*models.MeetingInstance, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MeetingInstance), args.Error(1)
}

func (m *MockMeetingInstanceRepository) Update(ctx context.Context, instance *models.MeetingInstance) error {
	args := m.Called(ctx, instance)
	return args.Error(0)
}

// MockTranscriptRepository implements TranscriptRepository for testing
type MockTranscriptRepository struct {
	mock.Mock
}

func (m *MockTranscriptRepository) Create(ctx context.Context, transcript *models.Transcript) error {
	args := m.Called(ctx, transcript)
	return args.Error(0)
}

func (m *MockTranscriptRepository) GetLatestByEventID(ctx context.Context, eventID string) (*models.Transcript, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transcript), args.Error(1)
}

func (m *MockTranscriptRepository) UpdateContentByEventID(ctx context.Context, eventID, content string) error {
	args := m.Called(ctx, eventID, content)
	return args.Error(0)
}

// MockSubscriptionRepository implements SubscriptionRepository for testing
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) Put(ctx context.Context, sub *models.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) Get(ctx context.Context, id string) (*models.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) ListAll(ctx context.Context) ([]*models.Subscription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Put(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Get(ctx context.Context, oid string) (*models.User, error) {
	args := m.Called(ctx, oid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ListAll(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}
