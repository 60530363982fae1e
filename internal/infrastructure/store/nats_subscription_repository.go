// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/peaknote/transcript-service/internal/domain/models"
)

// NatsSubscriptionRepository is the NATS KV repository for tracked watch
// subscriptions, keyed by the external subscription ID.
type NatsSubscriptionRepository struct {
	*NatsBaseRepository[models.Subscription]
}

// NewNatsSubscriptionRepository creates a new NATS KV repository for subscriptions.
func NewNatsSubscriptionRepository(kvStore INatsKeyValue) *NatsSubscriptionRepository {
	return &NatsSubscriptionRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Subscription](kvStore, "subscription"),
	}
}

// Put stores or overwrites a subscription record.
func (r *NatsSubscriptionRepository) Put(ctx context.Context, sub *models.Subscription) error {
	return r.NatsBaseRepository.Put(ctx, sub.ID, sub)
}
