// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

// Package lock provides a lease-based distributed lock on top of a NATS KV
// bucket. A lock is a key holding its acquisition timestamp; creation is
// atomic, and a holder that outlives the lease is considered stale and may be
// displaced by the next acquirer.
package lock

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/peaknote/transcript-service/internal/domain"
	"github.com/peaknote/transcript-service/internal/logging"
)

// KVStoreNameLocks is the NATS KV bucket holding lock keys.
const KVStoreNameLocks = "locks"

const retryInterval = 200 * time.Millisecond

// INatsLockKeyValue is the slice of the NATS KV interface the lock needs.
type INatsLockKeyValue interface {
	Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error)
	Create(context.Context, string, []byte, ...jetstream.KVCreateOpt) (uint64, error)
	Update(ctx context.Context, key string, value []byte, revision uint64) (uint64, error)
	Delete(context.Context, string, ...jetstream.KVDeleteOpt) error
}

// kvKey maps a logical lock key onto the character set NATS KV accepts.
// Callers use keys like "lock:transcript:{id}"; KV keys may only contain
// [-/_=.a-zA-Z0-9], so anything else becomes a dot.
func kvKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-', r == '/', r == '_', r == '=', r == '.':
			return r
		default:
			return '.'
		}
	}, key)
}

// NatsLockService implements domain.LockService over a NATS KV bucket.
type NatsLockService struct {
	kvStore INatsLockKeyValue
}

// NewNatsLockService creates a lock service backed by the given KV bucket.
func NewNatsLockService(kvStore INatsLockKeyValue) *NatsLockService {
	return &NatsLockService{kvStore: kvStore}
}

var _ domain.LockService = (*NatsLockService)(nil)

// Acquire takes the lock identified by key, retrying until the lease
// duration elapses. The lease also bounds how long a holder may keep the
// lock before it is treated as stale.
func (l *NatsLockService) Acquire(ctx context.Context, key string, lease time.Duration) error {
	if l.kvStore == nil {
		return domain.NewUnavailableError("lock service is not available")
	}

	storeKey := kvKey(key)
	deadline := time.Now().Add(lease)
	for {
		lockValue := strconv.FormatInt(time.Now().Unix(), 10)

		// Creation fails if the lock is already held.
		_, err := l.kvStore.Create(ctx, storeKey, []byte(lockValue))
		if err == nil {
			return nil
		}

		// Check whether the current holder is stale. Takeover is a
		// compare-and-swap on the revision we observed, so two contenders
		// racing for the same stale entry cannot both win.
		if entry, getErr := l.kvStore.Get(ctx, storeKey); getErr == nil {
			if heldSince, parseErr := strconv.ParseInt(string(entry.Value()), 10, 64); parseErr == nil {
				if time.Since(time.Unix(heldSince, 0)) > lease {
					if _, takeErr := l.kvStore.Update(ctx, storeKey, []byte(lockValue), entry.Revision()); takeErr == nil {
						slog.WarnContext(ctx, "displaced stale lock", "lock_key", key)
						return nil
					}
				}
			}
		}

		if time.Now().After(deadline) {
			return domain.NewConflictError("timed out acquiring lock '" + key + "'")
		}

		select {
		case <-ctx.Done():
			return domain.NewConflictError("context cancelled acquiring lock '"+key+"'", ctx.Err())
		case <-time.After(retryInterval):
		}
	}
}

// Release gives the lock up. A missing key means the lease already lapsed;
// that is not an error.
func (l *NatsLockService) Release(ctx context.Context, key string) error {
	if l.kvStore == nil {
		return domain.NewUnavailableError("lock service is not available")
	}

	if err := l.kvStore.Delete(ctx, kvKey(key)); err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil
		}
		slog.WarnContext(ctx, "failed to release lock", logging.ErrKey, err, "lock_key", key)
		return domain.NewInternalError("failed to release lock '"+key+"'", err)
	}
	return nil
}
