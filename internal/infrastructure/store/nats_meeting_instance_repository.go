// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/peaknote/transcript-service/internal/domain/models"
)

// NatsMeetingInstanceRepository is the NATS KV repository for materialized
// series occurrences, keyed by event ID.
type NatsMeetingInstanceRepository struct {
	*NatsBaseRepository[models.MeetingInstance]
}

// NewNatsMeetingInstanceRepository creates a new NATS KV repository for meeting instances.
func NewNatsMeetingInstanceRepository(kvStore INatsKeyValue) *NatsMeetingInstanceRepository {
	return &NatsMeetingInstanceRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.MeetingInstance](kvStore, "meeting instance"),
	}
}

// CreateIfAbsent stores the instance unless one already exists for its event
// ID. At most one instance may exist per event.
func (r *NatsMeetingInstanceRepository) CreateIfAbsent(ctx context.Context, instance *models.MeetingInstance) (bool, error) {
	return r.NatsBaseRepository.CreateIfAbsent(ctx, instance.EventID, instance)
}

// Update overwrites an instance record. Last writer wins.
func (r *NatsMeetingInstanceRepository) Update(ctx context.Context, instance *models.MeetingInstance) error {
	return r.Put(ctx, instance.EventID, instance)
}
