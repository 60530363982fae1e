// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"

	"github.com/peaknote/transcript-service/internal/domain"
	"github.com/peaknote/transcript-service/internal/logging"
)

// UserSyncService synchronizes directory users into the local user store.
// Users are reference data: targets for event watch subscriptions.
type UserSyncService struct {
	userRepository domain.UserRepository
	calendarClient domain.CalendarClient
}

// NewUserSyncService creates a new UserSyncService.
func NewUserSyncService(userRepository domain.UserRepository, calendarClient domain.CalendarClient) *UserSyncService {
	return &UserSyncService{
		userRepository: userRepository,
		calendarClient: calendarClient,
	}
}

// ServiceReady checks if the service is ready to sync users.
func (s *UserSyncService) ServiceReady() bool {
	return s.userRepository != nil && s.calendarClient != nil
}

// SyncUsers fetches all directory users and upserts them keyed by oid.
// Per-user persistence failures are logged and the sync continues.
func (s *UserSyncService) SyncUsers(ctx context.Context) (int, error) {
	users, err := s.calendarClient.FetchUsers(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch directory users", logging.ErrKey, err)
		return 0, domain.NewUnavailableError("failed to fetch directory users", err)
	}

	var synced int
	for i := range users {
		if users[i].Email == "" {
			continue
		}
		if err := s.userRepository.Put(ctx, &users[i]); err != nil {
			slog.WarnContext(ctx, "failed to persist user", logging.ErrKey, err, "oid", users[i].OID)
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "user sync completed", "fetched", len(users), "synced", synced)
	return synced, nil
}
