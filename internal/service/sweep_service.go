// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/peaknote/transcript-service/internal/logging"
	"github.com/peaknote/transcript-service/pkg/metrics"
)

// Sweep schedules. The three sweeps run on uncoordinated timers and may
// execute concurrently with each other and with message consumption.
const (
	renewalSweepSchedule        = "30 2 * * *"
	subscribeTodaySweepSchedule = "0 6 * * *"
	transcriptCheckSchedule     = "*/10 * * * *"
)

// SweepService owns the periodic sweeps: daily subscription renewal, daily
// subscribe-today's-meetings, and the 10-minute transcript check.
type SweepService struct {
	subscriptionService *SubscriptionService
	meetingEventService *MeetingEventService
	transcriptService   *TranscriptProcessService

	cron *cron.Cron
}

// NewSweepService creates a new SweepService.
func NewSweepService(
	subscriptionService *SubscriptionService,
	meetingEventService *MeetingEventService,
	transcriptService *TranscriptProcessService,
) *SweepService {
	return &SweepService{
		subscriptionService: subscriptionService,
		meetingEventService: meetingEventService,
		transcriptService:   transcriptService,
		cron:                cron.New(),
	}
}

// ServiceReady checks if the service is ready to run sweeps.
func (s *SweepService) ServiceReady() bool {
	return s.subscriptionService != nil &&
		s.meetingEventService != nil &&
		s.transcriptService != nil
}

// Start registers the sweep schedules and starts the scheduler.
func (s *SweepService) Start(ctx context.Context) error {
	register := func(schedule, name string, run func(context.Context) error) error {
		_, err := s.cron.AddFunc(schedule, func() {
			sweepCtx := logging.AppendCtx(ctx, slog.String("sweep", name))
			slog.DebugContext(sweepCtx, "sweep starting")
			if err := run(sweepCtx); err != nil {
				slog.ErrorContext(sweepCtx, "sweep failed", logging.ErrKey, err)
				metrics.RecordSweepRun(name, false)
				return
			}
			metrics.RecordSweepRun(name, true)
		})
		return err
	}

	if err := register(renewalSweepSchedule, "subscription-renewal", s.subscriptionService.RenewDueSubscriptions); err != nil {
		return err
	}
	if err := register(subscribeTodaySweepSchedule, "subscribe-today", s.meetingEventService.SubscribeTodaysMeetings); err != nil {
		return err
	}
	if err := register(transcriptCheckSchedule, "transcript-check", s.transcriptService.CheckPendingTranscripts); err != nil {
		return err
	}

	s.cron.Start()
	slog.InfoContext(ctx, "sweep scheduler started")
	return nil
}

// Stop halts the scheduler and waits for running sweeps to finish.
func (s *SweepService) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	slog.Info("sweep scheduler stopped")
}
