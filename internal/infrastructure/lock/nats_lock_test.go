// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package lock

import (
	"context"
	"regexp"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peaknote/transcript-service/internal/domain"
)

type fakeEntry struct {
	key      string
	value    []byte
	revision uint64
}

func (e *fakeEntry) Key() string                     { return e.key }
func (e *fakeEntry) Value() []byte                   { return e.value }
func (e *fakeEntry) Revision() uint64                { return e.revision }
func (e *fakeEntry) Created() time.Time              { return time.Now() }
func (e *fakeEntry) Delta() uint64                   { return 0 }
func (e *fakeEntry) Operation() jetstream.KeyValueOp { return jetstream.KeyValuePut }
func (e *fakeEntry) Bucket() string                  { return "locks" }

// validKVKey mirrors the key grammar nats.go enforces for KV buckets.
var validKVKey = regexp.MustCompile(`^[-/_=.a-zA-Z0-9]+$`)

type fakeLockKV struct {
	mu        sync.Mutex
	data      map[string][]byte
	revisions map[string]uint64
}

func newFakeLockKV() *fakeLockKV {
	return &fakeLockKV{
		data:      map[string][]byte{},
		revisions: map[string]uint64{},
	}
}

func (f *fakeLockKV) seed(key string, value []byte) {
	f.data[key] = value
	f.revisions[key] = 1
}

func (f *fakeLockKV) Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !validKVKey.MatchString(key) {
		return nil, jetstream.ErrInvalidKey
	}
	value, ok := f.data[key]
	if !ok {
		return nil, jetstream.ErrKeyNotFound
	}
	return &fakeEntry{key: key, value: value, revision: f.revisions[key]}, nil
}

func (f *fakeLockKV) Create(ctx context.Context, key string, value []byte, opts ...jetstream.KVCreateOpt) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !validKVKey.MatchString(key) {
		return 0, jetstream.ErrInvalidKey
	}
	if _, ok := f.data[key]; ok {
		return 0, jetstream.ErrKeyExists
	}
	f.data[key] = value
	f.revisions[key] = 1
	return 1, nil
}

func (f *fakeLockKV) Update(ctx context.Context, key string, value []byte, revision uint64) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !validKVKey.MatchString(key) {
		return 0, jetstream.ErrInvalidKey
	}
	if f.revisions[key] != revision {
		return 0, jetstream.ErrKeyExists
	}
	f.data[key] = value
	f.revisions[key] = revision + 1
	return revision + 1, nil
}

func (f *fakeLockKV) Delete(ctx context.Context, key string, opts ...jetstream.KVDeleteOpt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !validKVKey.MatchString(key) {
		return jetstream.ErrInvalidKey
	}
	if _, ok := f.data[key]; !ok {
		return jetstream.ErrKeyNotFound
	}
	delete(f.data, key)
	delete(f.revisions, key)
	return nil
}

func TestAcquireAndRelease(t *testing.T) {
	kv := newFakeLockKV()
	locks := NewNatsLockService(kv)
	ctx := context.Background()

	require.NoError(t, locks.Acquire(ctx, "lock:transcript:e1", time.Second))
	assert.Contains(t, kv.data, "lock.transcript.e1")

	require.NoError(t, locks.Release(ctx, "lock:transcript:e1"))
	assert.NotContains(t, kv.data, "lock.transcript.e1")
}

func TestAcquire_MapsKeysOntoKVGrammar(t *testing.T) {
	kv := newFakeLockKV()
	locks := NewNatsLockService(kv)
	ctx := context.Background()

	// Colons and spaces are outside the KV key grammar and must be
	// rewritten, not passed through to the bucket.
	require.NoError(t, locks.Acquire(ctx, "lock:transcript:AAMkAD A==", time.Second))

	for key := range kv.data {
		assert.Regexp(t, validKVKey, key)
	}
	assert.Contains(t, kv.data, "lock.transcript.AAMkAD.A==")
}

func TestAcquire_HeldLockTimesOut(t *testing.T) {
	kv := newFakeLockKV()
	locks := NewNatsLockService(kv)
	ctx := context.Background()

	// A fresh holder.
	kv.seed("lock.transcript.e1", []byte(strconv.FormatInt(time.Now().Unix(), 10)))

	start := time.Now()
	err := locks.Acquire(ctx, "lock:transcript:e1", 300*time.Millisecond)

	assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))
	assert.GreaterOrEqual(t, time.Since(start), 300*time.Millisecond)
}

func TestAcquire_DisplacesStaleHolder(t *testing.T) {
	kv := newFakeLockKV()
	locks := NewNatsLockService(kv)
	ctx := context.Background()

	// A holder whose lease lapsed long ago.
	stale := time.Now().Add(-time.Hour).Unix()
	kv.seed("lock.transcript.e1", []byte(strconv.FormatInt(stale, 10)))

	err := locks.Acquire(ctx, "lock:transcript:e1", time.Second)

	require.NoError(t, err)
}

// The takeover is a compare-and-swap on the observed revision, so when two
// contenders race for the same stale entry exactly one may win.
func TestAcquire_StaleTakeoverAdmitsOneWinner(t *testing.T) {
	staleValue := []byte(strconv.FormatInt(time.Now().Add(-time.Hour).Unix(), 10))

	kv := newFakeLockKV()
	kv.seed("lock.transcript.e1", staleValue)
	locks := NewNatsLockService(kv)

	staleEntry := &fakeEntry{key: "lock.transcript.e1", value: staleValue, revision: 1}

	// First contender swaps the stale entry out, bumping the revision.
	_, err := kv.Update(context.Background(), "lock.transcript.e1",
		[]byte(strconv.FormatInt(time.Now().Unix(), 10)), staleEntry.Revision())
	require.NoError(t, err)

	// Second contender still holds the stale observation. Its swap must be
	// rejected and its Acquire must keep waiting until the lease runs out.
	_, err = kv.Update(context.Background(), "lock.transcript.e1",
		[]byte("contender-two"), staleEntry.Revision())
	require.Error(t, err)

	err = locks.Acquire(context.Background(), "lock:transcript:e1", 300*time.Millisecond)
	assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))
}

func TestAcquire_ConcurrentStaleContenders(t *testing.T) {
	kv := newFakeLockKV()
	kv.seed("lock.transcript.e1", []byte(strconv.FormatInt(time.Now().Add(-time.Hour).Unix(), 10)))
	locks := NewNatsLockService(kv)

	var acquired int
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := locks.Acquire(context.Background(), "lock:transcript:e1", 500*time.Millisecond); err == nil {
				mu.Lock()
				acquired++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, acquired)
}

func TestAcquire_ContextCancel(t *testing.T) {
	kv := newFakeLockKV()
	locks := NewNatsLockService(kv)

	kv.seed("held", []byte(strconv.FormatInt(time.Now().Unix(), 10)))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := locks.Acquire(ctx, "held", time.Minute)

	assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))
}

func TestRelease_MissingKeyIsNotAnError(t *testing.T) {
	locks := NewNatsLockService(newFakeLockKV())

	err := locks.Release(context.Background(), "never-held")

	assert.NoError(t, err)
}
