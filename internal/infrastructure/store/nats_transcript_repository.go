// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"fmt"

	"github.com/peaknote/transcript-service/internal/domain"
	"github.com/peaknote/transcript-service/internal/domain/models"
)

// NatsTranscriptRepository is the NATS KV repository for summarized
// transcripts, keyed by transcript UID. Many transcripts may exist per event;
// the latest by creation time is authoritative.
type NatsTranscriptRepository struct {
	*NatsBaseRepository[models.Transcript]
}

// NewNatsTranscriptRepository creates a new NATS KV repository for transcripts.
func NewNatsTranscriptRepository(kvStore INatsKeyValue) *NatsTranscriptRepository {
	return &NatsTranscriptRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Transcript](kvStore, "transcript"),
	}
}

// Create stores a new transcript record.
func (r *NatsTranscriptRepository) Create(ctx context.Context, transcript *models.Transcript) error {
	return r.Put(ctx, transcript.UID, transcript)
}

// GetLatestByEventID returns the most recently created transcript for the event.
func (r *NatsTranscriptRepository) GetLatestByEventID(ctx context.Context, eventID string) (*models.Transcript, error) {
	transcripts, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var latest *models.Transcript
	for _, transcript := range transcripts {
		if transcript.EventID != eventID {
			continue
		}
		if latest == nil || transcript.CreatedAt.After(latest.CreatedAt) {
			latest = transcript
		}
	}

	if latest == nil {
		return nil, domain.NewNotFoundError(
			fmt.Sprintf("no transcript found for event '%s'", eventID))
	}

	return latest, nil
}

// UpdateContentByEventID rewrites the content of the event's latest transcript.
func (r *NatsTranscriptRepository) UpdateContentByEventID(ctx context.Context, eventID, content string) error {
	latest, err := r.GetLatestByEventID(ctx, eventID)
	if err != nil {
		return err
	}

	latest.ContentText = content
	return r.Put(ctx, latest.UID, latest)
}
