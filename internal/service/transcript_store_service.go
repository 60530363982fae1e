// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/peaknote/transcript-service/internal/domain"
	"github.com/peaknote/transcript-service/internal/domain/models"
	"github.com/peaknote/transcript-service/internal/logging"
	"github.com/peaknote/transcript-service/pkg/constants"
	"github.com/peaknote/transcript-service/pkg/metrics"
)

// TranscriptStoreService is the cache-consistent read/write path for
// transcript content and URL-to-event lookups. Reads cache both hits and
// misses; writes hold a distributed per-event lock and evict the cache twice,
// the second time after a short delay outside the critical section.
type TranscriptStoreService struct {
	transcriptRepository domain.TranscriptRepository
	eventRepository      domain.MeetingEventRepository
	cache                domain.Cache
	lockService          domain.LockService

	// doubleDeleteDelay is the pause before the second eviction. Shortened
	// in tests.
	doubleDeleteDelay time.Duration
	// afterWrite, when non-nil, is signaled once the delayed delete has run.
	afterWrite func(eventID string)
}

// NewTranscriptStoreService creates a new TranscriptStoreService.
func NewTranscriptStoreService(
	transcriptRepository domain.TranscriptRepository,
	eventRepository domain.MeetingEventRepository,
	cache domain.Cache,
	lockService domain.LockService,
) *TranscriptStoreService {
	return &TranscriptStoreService{
		transcriptRepository: transcriptRepository,
		eventRepository:      eventRepository,
		cache:                cache,
		lockService:          lockService,
		doubleDeleteDelay:    constants.DoubleDeleteDelay,
	}
}

// ServiceReady checks if the service is ready to serve transcript reads and writes.
func (s *TranscriptStoreService) ServiceReady() bool {
	return s.transcriptRepository != nil &&
		s.eventRepository != nil &&
		s.cache != nil &&
		s.lockService != nil
}

// GetEventIDsByURL returns the event ids tracked for a join URL, ordered.
// Misses are cached as negative entries so repeated lookups for unknown URLs
// stay in memory.
func (s *TranscriptStoreService) GetEventIDsByURL(ctx context.Context, joinURL string) ([]string, error) {
	cacheKey := constants.URLEventCachePrefix + joinURL

	if value, found := s.cache.Get(cacheKey); found {
		if value == nil {
			return nil, nil
		}
		return value.([]string), nil
	}

	eventIDs, err := s.eventRepository.ListEventIDsByJoinURL(ctx, joinURL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to look up events by join URL", logging.ErrKey, err)
		return nil, err
	}

	if len(eventIDs) == 0 {
		s.cache.Set(cacheKey, nil)
		return nil, nil
	}
	s.cache.Set(cacheKey, eventIDs)
	return eventIDs, nil
}

// GetTranscriptByEventID returns the latest transcript content for an event.
// A store miss is cached as a negative entry and surfaces as a not-found error.
func (s *TranscriptStoreService) GetTranscriptByEventID(ctx context.Context, eventID string) (string, error) {
	cacheKey := constants.TranscriptCachePrefix + eventID

	if value, found := s.cache.Get(cacheKey); found {
		if value == nil {
			return "", domain.NewNotFoundError("no transcript for event " + eventID)
		}
		return value.(string), nil
	}

	transcript, err := s.transcriptRepository.GetLatestByEventID(ctx, eventID)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			s.cache.Set(cacheKey, nil)
		} else {
			slog.ErrorContext(ctx, "failed to read transcript", logging.ErrKey, err, "event_id", eventID)
		}
		return "", err
	}

	s.cache.Set(cacheKey, transcript.ContentText)
	return transcript.ContentText, nil
}

// UpdateTranscript rewrites the latest transcript of an event under the
// distributed per-event lock. The cache entry is deleted before the store
// write and again after a fixed delay outside the lock, closing the race
// where a concurrent reader repopulates the cache with the stale value
// between the first delete and the store commit.
func (s *TranscriptStoreService) UpdateTranscript(ctx context.Context, eventID, content string) error {
	lockKey := constants.TranscriptLockPrefix + eventID
	cacheKey := constants.TranscriptCachePrefix + eventID

	if err := s.lockService.Acquire(ctx, lockKey, constants.TranscriptLockLease); err != nil {
		slog.ErrorContext(ctx, "failed to acquire transcript lock", logging.ErrKey, err, "event_id", eventID)
		return err
	}

	s.cache.Delete(cacheKey)

	writeErr := s.transcriptRepository.UpdateContentByEventID(ctx, eventID, content)

	if err := s.lockService.Release(ctx, lockKey); err != nil {
		slog.WarnContext(ctx, "failed to release transcript lock", logging.ErrKey, err, "event_id", eventID)
	}

	if writeErr != nil {
		slog.ErrorContext(ctx, "failed to update transcript content", logging.ErrKey, writeErr, "event_id", eventID)
		return writeErr
	}

	s.scheduleDelayedDelete(eventID, cacheKey)
	return nil
}

// SaveTranscript persists a new transcript for an event under the same
// locked, double-deleting write path as UpdateTranscript.
func (s *TranscriptStoreService) SaveTranscript(ctx context.Context, transcript *models.Transcript) error {
	lockKey := constants.TranscriptLockPrefix + transcript.EventID
	cacheKey := constants.TranscriptCachePrefix + transcript.EventID

	if err := s.lockService.Acquire(ctx, lockKey, constants.TranscriptLockLease); err != nil {
		slog.ErrorContext(ctx, "failed to acquire transcript lock", logging.ErrKey, err,
			"event_id", transcript.EventID,
		)
		return err
	}

	s.cache.Delete(cacheKey)

	writeErr := s.transcriptRepository.Create(ctx, transcript)

	if err := s.lockService.Release(ctx, lockKey); err != nil {
		slog.WarnContext(ctx, "failed to release transcript lock", logging.ErrKey, err,
			"event_id", transcript.EventID,
		)
	}

	if writeErr != nil {
		slog.ErrorContext(ctx, "failed to save transcript", logging.ErrKey, writeErr,
			"event_id", transcript.EventID,
		)
		return writeErr
	}

	metrics.TranscriptsSavedTotal.Inc()
	s.scheduleDelayedDelete(transcript.EventID, cacheKey)
	return nil
}

// scheduleDelayedDelete runs the second cache eviction after the configured
// delay, outside any lock.
func (s *TranscriptStoreService) scheduleDelayedDelete(eventID, cacheKey string) {
	time.AfterFunc(s.doubleDeleteDelay, func() {
		s.cache.Delete(cacheKey)
		if s.afterWrite != nil {
			s.afterWrite(eventID)
		}
	})
}
