// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"
	"time"
)

// Cache is a TTL-bounded key/value cache. A nil value with found=true is a
// negative entry: the backing store is known not to have the key.
type Cache interface {
	Get(key string) (value any, found bool)
	Set(key string, value any)
	Delete(key string)
}

// LockService is a lease-based mutual-exclusion primitive usable across
// processes, identified by a key and bounded by the lease duration.
type LockService interface {
	// Acquire takes the lock or returns a conflict error once the acquisition
	// timeout elapses. A holder that outlives the lease may be displaced.
	Acquire(ctx context.Context, key string, lease time.Duration) error

	// Release gives the lock up. Releasing a lock that is no longer held is
	// not an error.
	Release(ctx context.Context, key string) error
}
