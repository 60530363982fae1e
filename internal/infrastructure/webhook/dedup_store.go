// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

// Package webhook contains webhook-ingress infrastructure: the TTL-aware
// deduplication store for notification signatures.
package webhook

import (
	"sync"
	"time"
)

// DedupStore remembers notification signatures for a fixed window so that
// duplicate deliveries can be absorbed at the gateway. Each signature expires
// independently; a notification repeated after the window is treated as new.
//
// The store owns a background sweeper; Close must be called when the gateway
// shuts down.
type DedupStore struct {
	mu        sync.Mutex
	seen      map[string]time.Time
	window    time.Duration
	done      chan struct{}
	closeOnce sync.Once

	// now is replaceable in tests.
	now func() time.Time
}

// NewDedupStore creates a dedup store whose entries live for window.
func NewDedupStore(window time.Duration) *DedupStore {
	s := &DedupStore{
		seen:   make(map[string]time.Time),
		window: window,
		done:   make(chan struct{}),
		now:    time.Now,
	}
	go s.sweep()
	return s
}

// Seen records the signature and reports whether it was already present
// within the window.
func (s *DedupStore) Seen(signature string) bool {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if expiry, ok := s.seen[signature]; ok && now.Before(expiry) {
		return true
	}
	s.seen[signature] = now.Add(s.window)
	return false
}

// Len returns the number of tracked signatures, expired entries included
// until the next sweep.
func (s *DedupStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

// Close stops the background sweeper.
func (s *DedupStore) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

func (s *DedupStore) sweep() {
	ticker := time.NewTicker(s.window)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			now := s.now()
			s.mu.Lock()
			for signature, expiry := range s.seen {
				if now.After(expiry) {
					delete(s.seen, signature)
				}
			}
			s.mu.Unlock()
		}
	}
}
