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
	"github.com/peaknote/transcript-service/pkg/concurrent"
	"github.com/peaknote/transcript-service/pkg/constants"
	"github.com/peaknote/transcript-service/pkg/metrics"
)

// TranscriptProcessService downloads, summarizes and persists transcripts,
// advancing the owning MeetingEvent through PROCESSING to SAVED.
type TranscriptProcessService struct {
	eventRepository domain.MeetingEventRepository
	store           *TranscriptStoreService
	calendarClient  domain.CalendarClient
	summarizer      domain.Summarizer
	workerPool      *concurrent.WorkerPool

	// now is replaceable in tests.
	now func() time.Time
}

// NewTranscriptProcessService creates a new TranscriptProcessService.
func NewTranscriptProcessService(
	eventRepository domain.MeetingEventRepository,
	store *TranscriptStoreService,
	calendarClient domain.CalendarClient,
	summarizer domain.Summarizer,
	workerPool *concurrent.WorkerPool,
) *TranscriptProcessService {
	return &TranscriptProcessService{
		eventRepository: eventRepository,
		store:           store,
		calendarClient:  calendarClient,
		summarizer:      summarizer,
		workerPool:      workerPool,
		now:             time.Now,
	}
}

// ServiceReady checks if the service is ready to process transcripts.
func (s *TranscriptProcessService) ServiceReady() bool {
	return s.eventRepository != nil &&
		s.store != nil &&
		s.calendarClient != nil &&
		s.summarizer != nil &&
		s.workerPool != nil
}

// HandleTranscriptNotification processes one transcript change notification:
// the identifiers are parsed off the resource path, the notification is
// correlated to a subscribed MeetingEvent by meeting id, and the transcript
// is downloaded and stored. An unmatched notification is dropped with a
// warning, not retried.
func (s *TranscriptProcessService) HandleTranscriptNotification(ctx context.Context, payload []byte) error {
	envelope, err := ParseNotificationEnvelope(payload)
	if err != nil {
		return err
	}
	first, err := FirstNotification(envelope)
	if err != nil {
		return err
	}

	info, err := ParseTranscriptInfo(first.Resource)
	if err != nil {
		return err
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_id", info.MeetingID))

	event, err := s.eventRepository.GetByMeetingIDAndStatus(ctx, info.MeetingID, models.TranscriptStatusSubscribed)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			slog.WarnContext(ctx, "no subscribed meeting matches transcript notification, discarding",
				"transcript_id", info.TranscriptID,
			)
			return nil
		}
		return err
	}

	return s.processTranscript(ctx, event, info.UserID, info.TranscriptID)
}

// processTranscript downloads the transcript, advances the event to
// PROCESSING, summarizes and persists the content, and advances the event to
// SAVED. A failed download leaves the event SUBSCRIBED so the next sweep can
// retry it; a failure past PROCESSING marks the event FAILED.
func (s *TranscriptProcessService) processTranscript(ctx context.Context, event *models.MeetingEvent, userID, transcriptID string) error {
	ctx = logging.AppendCtx(ctx, slog.String("event_id", event.EventID))

	content, err := s.calendarClient.DownloadTranscript(ctx, userID, event.MeetingID, transcriptID)
	if err != nil {
		slog.WarnContext(ctx, "failed to download transcript, will retry next sweep", logging.ErrKey, err,
			"transcript_id", transcriptID,
		)
		return domain.NewUnavailableError("failed to download transcript", err)
	}

	event.TranscriptStatus = models.TranscriptStatusProcessing
	if err := s.eventRepository.Update(ctx, event); err != nil {
		slog.ErrorContext(ctx, "failed to mark event processing", logging.ErrKey, err)
		return err
	}

	// The raw transcript is not retained; only the summary is stored.
	summary := s.summarizer.Summarize(ctx, content)

	transcript := &models.Transcript{
		UID:         uuid.New().String(),
		EventID:     event.EventID,
		ContentText: summary,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.SaveTranscript(ctx, transcript); err != nil {
		s.markFailed(ctx, event)
		return err
	}

	event.TranscriptStatus = models.TranscriptStatusSaved
	if err := s.eventRepository.Update(ctx, event); err != nil {
		slog.ErrorContext(ctx, "failed to mark event saved", logging.ErrKey, err)
		return err
	}

	slog.InfoContext(ctx, "transcript saved",
		"transcript_uid", transcript.UID,
		"subject", event.Subject,
	)
	return nil
}

func (s *TranscriptProcessService) markFailed(ctx context.Context, event *models.MeetingEvent) {
	event.TranscriptStatus = models.TranscriptStatusFailed
	if err := s.eventRepository.Update(ctx, event); err != nil {
		slog.ErrorContext(ctx, "failed to mark event failed", logging.ErrKey, err)
	}
}

// CheckPendingTranscripts is the periodic sweep: subscribed meetings whose
// end time is more than the grace period in the past get a transcript
// download attempt. One event's failure never aborts the batch.
func (s *TranscriptProcessService) CheckPendingTranscripts(ctx context.Context) error {
	events, err := s.eventRepository.ListByStatus(ctx, models.TranscriptStatusSubscribed)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list subscribed events", logging.ErrKey, err)
		return err
	}

	now := s.now()
	var jobs []func() error
	for _, event := range events {
		if !event.ReadyForProcessing(now, constants.ProcessingGrace) {
			continue
		}
		jobs = append(jobs, func() error {
			return s.checkEventTranscript(ctx, event)
		})
	}

	if len(jobs) == 0 {
		return nil
	}

	errs := s.workerPool.RunAll(ctx, jobs...)
	for _, err := range errs {
		slog.WarnContext(ctx, "transcript check failed for an event", logging.ErrKey, err)
	}

	slog.InfoContext(ctx, "transcript check sweep completed",
		"checked", len(jobs),
		"failures", len(errs),
	)
	return nil
}

// checkEventTranscript lists the meeting's transcripts and processes the most
// recent one. A meeting with no transcripts yet stays subscribed for the next
// sweep.
func (s *TranscriptProcessService) checkEventTranscript(ctx context.Context, event *models.MeetingEvent) error {
	transcripts, err := s.calendarClient.ListTranscripts(ctx, event.UserID, event.MeetingID)
	if err != nil {
		metrics.RecordSweepRun("transcript-check", false)
		return domain.NewUnavailableError("failed to list meeting transcripts", err)
	}
	if len(transcripts) == 0 {
		slog.DebugContext(ctx, "meeting has no transcripts yet",
			"event_id", event.EventID,
			"meeting_id", event.MeetingID,
		)
		return nil
	}

	latest := transcripts[len(transcripts)-1]
	return s.processTranscript(ctx, event, event.UserID, latest.ID)
}
