// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/peaknote/transcript-service/internal/domain/models"
)

// NatsUserRepository is the NATS KV repository for directory users, keyed by OID.
type NatsUserRepository struct {
	*NatsBaseRepository[models.User]
}

// NewNatsUserRepository creates a new NATS KV repository for users.
func NewNatsUserRepository(kvStore INatsKeyValue) *NatsUserRepository {
	return &NatsUserRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.User](kvStore, "user"),
	}
}

// Put stores or overwrites a user record.
func (r *NatsUserRepository) Put(ctx context.Context, user *models.User) error {
	return r.NatsBaseRepository.Put(ctx, user.OID, user)
}
