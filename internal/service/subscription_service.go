// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/peaknote/transcript-service/internal/domain"
	"github.com/peaknote/transcript-service/internal/domain/models"
	"github.com/peaknote/transcript-service/internal/logging"
	"github.com/peaknote/transcript-service/pkg/constants"
	"github.com/peaknote/transcript-service/pkg/metrics"
)

// SubscriptionService creates, lists, deletes and renews watch subscriptions
// and owns their expiry bookkeeping.
type SubscriptionService struct {
	subscriptionRepository domain.SubscriptionRepository
	userRepository         domain.UserRepository
	calendarClient         domain.CalendarClient
	config                 ServiceConfig

	// now is replaceable in tests.
	now func() time.Time
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(
	subscriptionRepository domain.SubscriptionRepository,
	userRepository domain.UserRepository,
	calendarClient domain.CalendarClient,
	config ServiceConfig,
) *SubscriptionService {
	return &SubscriptionService{
		subscriptionRepository: subscriptionRepository,
		userRepository:         userRepository,
		calendarClient:         calendarClient,
		config:                 config,
		now:                    time.Now,
	}
}

// ServiceReady checks if the service is ready to manage subscriptions.
func (s *SubscriptionService) ServiceReady() bool {
	return s.subscriptionRepository != nil &&
		s.userRepository != nil &&
		s.calendarClient != nil
}

// CreateEventSubscription registers a calendar event watch for the user with
// a 2-hour expiry and the fixed client state, and persists the registration.
func (s *SubscriptionService) CreateEventSubscription(ctx context.Context, userID string) (*models.Subscription, error) {
	expires := s.now().Add(constants.EventSubscriptionTTL)
	notificationURL := s.config.WebhookBaseURL + constants.NotificationWebhookPath

	sub, err := s.calendarClient.CreateEventSubscription(ctx, userID, notificationURL, constants.EventSubscriptionClientState, expires)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create event subscription", logging.ErrKey, err,
			"user_id", userID,
		)
		return nil, domain.NewUnavailableError("failed to create event subscription", err)
	}

	if err := s.subscriptionRepository.Put(ctx, sub); err != nil {
		slog.ErrorContext(ctx, "failed to persist event subscription", logging.ErrKey, err,
			"subscription_id", sub.ID,
		)
		return nil, err
	}

	slog.InfoContext(ctx, "created event subscription",
		"subscription_id", sub.ID,
		"user_id", userID,
		"expires", sub.ExpirationDateTime,
	)
	return sub, nil
}

// CreateTranscriptSubscription registers a transcript watch for the meeting
// with an 8-hour expiry, a per-call random correlation token, and a distinct
// lifecycle callback for reauthorization events.
func (s *SubscriptionService) CreateTranscriptSubscription(ctx context.Context, meetingID string) (*models.Subscription, error) {
	expires := s.now().Add(constants.TranscriptSubscriptionTTL)
	notificationURL := s.config.WebhookBaseURL + constants.TranscriptWebhookPath
	lifecycleURL := s.config.WebhookBaseURL + constants.LifecycleWebhookPath
	clientState := uuid.New().String()

	sub, err := s.calendarClient.CreateTranscriptSubscription(ctx, meetingID, notificationURL, lifecycleURL, clientState, expires)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create transcript subscription", logging.ErrKey, err,
			"meeting_id", meetingID,
		)
		return nil, domain.NewUnavailableError("failed to create transcript subscription", err)
	}

	if err := s.subscriptionRepository.Put(ctx, sub); err != nil {
		slog.ErrorContext(ctx, "failed to persist transcript subscription", logging.ErrKey, err,
			"subscription_id", sub.ID,
		)
		return nil, err
	}

	slog.InfoContext(ctx, "created transcript subscription",
		"subscription_id", sub.ID,
		"meeting_id", meetingID,
		"expires", sub.ExpirationDateTime,
	)
	return sub, nil
}

// CreateCallRecordSubscription registers a watch on online meetings for call
// record correlation.
func (s *SubscriptionService) CreateCallRecordSubscription(ctx context.Context) (*models.Subscription, error) {
	expires := s.now().Add(constants.EventSubscriptionTTL)
	notificationURL := s.config.WebhookBaseURL + constants.CallRecordWebhookPath

	sub, err := s.calendarClient.CreateCallRecordSubscription(ctx, notificationURL, constants.EventSubscriptionClientState, expires)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create call record subscription", logging.ErrKey, err)
		return nil, domain.NewUnavailableError("failed to create call record subscription", err)
	}

	if err := s.subscriptionRepository.Put(ctx, sub); err != nil {
		slog.ErrorContext(ctx, "failed to persist call record subscription", logging.ErrKey, err,
			"subscription_id", sub.ID,
		)
		return nil, err
	}

	slog.InfoContext(ctx, "created call record subscription", "subscription_id", sub.ID)
	return sub, nil
}

// CreateSubscriptionsForAllUsers registers an event watch for every tracked
// user. Failures are logged per user; the iteration continues.
func (s *SubscriptionService) CreateSubscriptionsForAllUsers(ctx context.Context) error {
	users, err := s.userRepository.ListAll(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list users for subscription creation", logging.ErrKey, err)
		return err
	}

	var failures int
	for _, user := range users {
		if _, err := s.CreateEventSubscription(ctx, user.OID); err != nil {
			failures++
		}
	}

	slog.InfoContext(ctx, "created event subscriptions for all users",
		"user_count", len(users),
		"failures", failures,
	)
	return nil
}

// RenewDueSubscriptions is the daily sweep: every tracked subscription whose
// remaining lifetime is under the threshold is extended 3 days from now. A
// renewal failure leaves the stale expiry in place for the next sweep.
func (s *SubscriptionService) RenewDueSubscriptions(ctx context.Context) error {
	subs, err := s.subscriptionRepository.ListAll(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list tracked subscriptions", logging.ErrKey, err)
		return err
	}

	now := s.now()
	var renewed, failed int
	for _, sub := range subs {
		if !sub.NeedsRenewal(now, constants.RenewalThreshold) {
			continue
		}

		newExpiry := now.Add(constants.RenewalExtension)
		updated, err := s.calendarClient.RenewSubscription(ctx, sub.ID, newExpiry)
		if err != nil {
			slog.WarnContext(ctx, "failed to renew subscription, will retry next sweep",
				logging.ErrKey, err,
				"subscription_id", sub.ID,
				"expires", sub.ExpirationDateTime,
			)
			metrics.SubscriptionsRenewedTotal.WithLabelValues("error").Inc()
			failed++
			continue
		}

		if err := s.subscriptionRepository.Put(ctx, updated); err != nil {
			slog.ErrorContext(ctx, "failed to persist renewed subscription", logging.ErrKey, err,
				"subscription_id", sub.ID,
			)
			metrics.SubscriptionsRenewedTotal.WithLabelValues("error").Inc()
			failed++
			continue
		}

		metrics.SubscriptionsRenewedTotal.WithLabelValues("success").Inc()
		renewed++
	}

	slog.InfoContext(ctx, "subscription renewal sweep completed",
		"tracked", len(subs),
		"renewed", renewed,
		"failed", failed,
	)
	return nil
}

// ListAllSubscriptions enumerates all watch registrations held with the
// external API (administrative).
func (s *SubscriptionService) ListAllSubscriptions(ctx context.Context) ([]models.Subscription, error) {
	subs, err := s.calendarClient.ListSubscriptions(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list external subscriptions", logging.ErrKey, err)
		return nil, domain.NewUnavailableError("failed to list external subscriptions", err)
	}
	return subs, nil
}

// DeleteAllSubscriptions removes every watch registration, external and
// tracked (administrative).
func (s *SubscriptionService) DeleteAllSubscriptions(ctx context.Context) (int, error) {
	subs, err := s.calendarClient.ListSubscriptions(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list external subscriptions for deletion", logging.ErrKey, err)
		return 0, domain.NewUnavailableError("failed to list external subscriptions", err)
	}

	var deleted int
	for _, sub := range subs {
		if err := s.calendarClient.DeleteSubscription(ctx, sub.ID); err != nil {
			slog.WarnContext(ctx, "failed to delete subscription", logging.ErrKey, err,
				"subscription_id", sub.ID,
			)
			continue
		}
		if err := s.subscriptionRepository.Delete(ctx, sub.ID); err != nil && domain.GetErrorType(err) != domain.ErrorTypeNotFound {
			slog.WarnContext(ctx, "failed to remove tracked subscription", logging.ErrKey, err,
				"subscription_id", sub.ID,
			)
		}
		deleted++
	}

	slog.InfoContext(ctx, "deleted subscriptions", "deleted", deleted, "total", len(subs))
	return deleted, nil
}
