// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/peaknote/transcript-service/internal/domain/models"
)

// MockCalendarClient implements CalendarClient for testing
type MockCalendarClient struct {
	mock.Mock
}

func (m *MockCalendarClient) FetchUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockCalendarClient) GetEvent(ctx context.Context, userID, eventID string) (*models.CalendarEvent, error) {
	args := m.Called(ctx, userID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CalendarEvent), args.Error(1)
}

func (m *MockCalendarClient) GetEventOccurrences(ctx context.Context, userID, seriesMasterID string, start, end time.Time) ([]models.CalendarEvent, error) {
	args := m.Called(ctx, userID, seriesMasterID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CalendarEvent), args.Error(1)
}

func (m *MockCalendarClient) GetOnlineMeetingsByJoinURL(ctx context.Context, userID, joinURL string) ([]models.OnlineMeeting, error) {
	args := m.Called(ctx, userID, joinURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OnlineMeeting), args.Error(1)
}

func (m *MockCalendarClient) CreateEventSubscription(ctx context.Context, userID, notificationURL, clientState string, expires time.Time) (*models.Subscription, error) {
	args := m.Called(ctx, userID, notificationURL, clientState, expires)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *MockCalendarClient) CreateTranscriptSubscription(ctx context.Context, meetingID, notificationURL, lifecycleURL, clientState string, expires time.Time) (*models.Subscription, error) {
	args := m.Called(ctx, meetingID, notificationURL, lifecycleURL, clientState, expires)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *MockCalendarClient) CreateCallRecordSubscription(ctx context.Context, notificationURL, clientState string, expires time.Time) (*models.Subscription, error) {
	args := m.Called(ctx, notificationURL, clientState, expires)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *MockCalendarClient) RenewSubscription(ctx context.Context, subscriptionID string, expires time.Time) (*models.Subscription, error) {
	args := m.Called(ctx, subscriptionID, expires)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *MockCalendarClient) DeleteSubscription(ctx context.Context, subscriptionID string) error {
	args := m.Called(ctx, subscriptionID)
	return args.Error(0)
}

func (m *MockCalendarClient) ListSubscriptions(ctx context.Context) ([]models.Subscription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Subscription), args.Error(1)
}

func (m *MockCalendarClient) ListTranscripts(ctx context.Context, userID, meetingID string) ([]models.MeetingTranscript, error) {
	args := m.Called(ctx, userID, meetingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MeetingTranscript), args.Error(1)
}

func (m *MockCalendarClient) DownloadTranscript(ctx context.Context, userID, meetingID, transcriptID string) (string, error) {
	args := m.Called(ctx, userID, meetingID, transcriptID)
	return args.String(0), args.Error(1)
}

// MockSummarizer implements Summarizer for testing
type MockSummarizer struct {
	mock.Mock
}

func (m *MockSummarizer) Summarize(ctx context.Context, text string) string {
	args := m.Called(ctx, text)
	return args.String(0)
}

// MockCache implements Cache for testing
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(key string) (any, bool) {
	args := m.Called(key)
	return args.Get(0), args.Bool(1)
}

func (m *MockCache) Set(key string, value any) {
	m.Called(key, value)
}

func (m *MockCache) Delete(key string) {
	m.Called(key)
}

// MockLockService implements LockService for testing
type MockLockService struct {
	mock.Mock
}

func (m *MockLockService) Acquire(ctx context.Context, key string, lease time.Duration) error {
	args := m.Called(ctx, key, lease)
	return args.Error(0)
}

func (m *MockLockService) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockNotificationPublisher implements NotificationPublisher for testing
type MockNotificationPublisher struct {
	mock.Mock
}

func (m *MockNotificationPublisher) PublishEventNotification(ctx context.Context, payload []byte) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func (m *MockNotificationPublisher) PublishTranscriptNotification(ctx context.Context, payload []byte) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func (m *MockNotificationPublisher) PublishCallRecordNotification(ctx context.Context, payload []byte) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}
