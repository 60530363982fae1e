// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

// Package store contains the NATS KV repositories for the transcript service.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/peaknote/transcript-service/internal/domain"
	"github.com/peaknote/transcript-service/internal/logging"
)

// NATS Key-Value store bucket names.
const (
	KVStoreNameMeetingEvents    = "meeting-events"
	KVStoreNameMeetingInstances = "meeting-instances"
	KVStoreNameTranscripts      = "transcripts"
	KVStoreNameSubscriptions    = "subscriptions"
	KVStoreNameUsers            = "users"
)

// INatsKeyValue is the slice of the NATS KV interface the repositories need.
// It matches jetstream.KeyValue and allows for mocking in tests.
type INatsKeyValue interface {
	ListKeys(context.Context, ...jetstream.WatchOpt) (jetstream.KeyLister, error)
	Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error)
	Put(context.Context, string, []byte) (uint64, error)
	Create(context.Context, string, []byte, ...jetstream.KVCreateOpt) (uint64, error)
	Delete(context.Context, string, ...jetstream.KVDeleteOpt) error
}

// NatsBaseRepository provides the common NATS KV operations shared by all
// entity repositories.
type NatsBaseRepository[T any] struct {
	kvStore    INatsKeyValue
	entityName string // used in error messages (e.g. "meeting event", "transcript")
}

// NewNatsBaseRepository creates a new base repository for NATS KV operations.
func NewNatsBaseRepository[T any](kvStore INatsKeyValue, entityName string) *NatsBaseRepository[T] {
	return &NatsBaseRepository[T]{
		kvStore:    kvStore,
		entityName: entityName,
	}
}

// IsReady checks if the repository is ready for use.
func (r *NatsBaseRepository[T]) IsReady() bool {
	return r.kvStore != nil
}

// Get retrieves and unmarshals an entity from the NATS KV store.
func (r *NatsBaseRepository[T]) Get(ctx context.Context, key string) (*T, error) {
	if !r.IsReady() {
		return nil, domain.NewUnavailableError(fmt.Sprintf("%s repository is not available", r.entityName))
	}

	entry, err := r.kvStore.Get(ctx, key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, domain.NewNotFoundError(
				fmt.Sprintf("%s with key '%s' not found", r.entityName, key), err)
		}
		slog.ErrorContext(ctx, fmt.Sprintf("error getting %s from NATS KV", r.entityName),
			logging.ErrKey, err, "key", key)
		return nil, domain.NewInternalError(
			fmt.Sprintf("failed to retrieve %s from store", r.entityName), err)
	}

	entity, err := r.unmarshal(ctx, entry.Value())
	if err != nil {
		return nil, domain.NewInternalError(
			fmt.Sprintf("failed to unmarshal %s data", r.entityName), err)
	}

	return entity, nil
}

// Exists checks if an entity exists in the store.
func (r *NatsBaseRepository[T]) Exists(ctx context.Context, key string) (bool, error) {
	_, err := r.Get(ctx, key)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Put writes an entity, creating or overwriting it.
func (r *NatsBaseRepository[T]) Put(ctx context.Context, key string, entity *T) error {
	if !r.IsReady() {
		return domain.NewUnavailableError(fmt.Sprintf("%s repository is not available", r.entityName))
	}

	data, err := r.marshal(ctx, entity)
	if err != nil {
		return domain.NewInternalError(fmt.Sprintf("failed to marshal %s", r.entityName), err)
	}

	if _, err := r.kvStore.Put(ctx, key, data); err != nil {
		slog.ErrorContext(ctx, fmt.Sprintf("error writing %s to NATS KV", r.entityName),
			logging.ErrKey, err, "key", key)
		return domain.NewInternalError(fmt.Sprintf("failed to store %s", r.entityName), err)
	}

	return nil
}

// CreateIfAbsent writes the entity only if the key does not already exist.
// It reports whether a record was written.
func (r *NatsBaseRepository[T]) CreateIfAbsent(ctx context.Context, key string, entity *T) (bool, error) {
	if !r.IsReady() {
		return false, domain.NewUnavailableError(fmt.Sprintf("%s repository is not available", r.entityName))
	}

	data, err := r.marshal(ctx, entity)
	if err != nil {
		return false, domain.NewInternalError(fmt.Sprintf("failed to marshal %s", r.entityName), err)
	}

	if _, err := r.kvStore.Create(ctx, key, data); err != nil {
		if errors.Is(err, jetstream.ErrKeyExists) {
			return false, nil
		}
		slog.ErrorContext(ctx, fmt.Sprintf("error creating %s in NATS KV", r.entityName),
			logging.ErrKey, err, "key", key)
		return false, domain.NewInternalError(fmt.Sprintf("failed to create %s", r.entityName), err)
	}

	return true, nil
}

// Delete removes an entity from the store.
func (r *NatsBaseRepository[T]) Delete(ctx context.Context, key string) error {
	if !r.IsReady() {
		return domain.NewUnavailableError(fmt.Sprintf("%s repository is not available", r.entityName))
	}

	if err := r.kvStore.Delete(ctx, key); err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return domain.NewNotFoundError(
				fmt.Sprintf("%s with key '%s' not found", r.entityName, key), err)
		}
		slog.ErrorContext(ctx, fmt.Sprintf("error deleting %s from NATS KV", r.entityName),
			logging.ErrKey, err, "key", key)
		return domain.NewInternalError(fmt.Sprintf("failed to delete %s", r.entityName), err)
	}

	return nil
}

// ListAll retrieves every entity in the bucket. Lookups that need a secondary
// index (join URL, meeting ID) are scans over this listing; the buckets stay
// small enough for that to hold up, and hot lookups sit behind the cache.
func (r *NatsBaseRepository[T]) ListAll(ctx context.Context) ([]*T, error) {
	if !r.IsReady() {
		return nil, domain.NewUnavailableError(fmt.Sprintf("%s repository is not available", r.entityName))
	}

	keysLister, err := r.kvStore.ListKeys(ctx)
	if err != nil {
		slog.ErrorContext(ctx, fmt.Sprintf("error listing %s keys from NATS KV", r.entityName),
			logging.ErrKey, err)
		return nil, domain.NewInternalError(fmt.Sprintf("failed to list %s keys", r.entityName), err)
	}

	entities := []*T{}
	for key := range keysLister.Keys() {
		entry, err := r.kvStore.Get(ctx, key)
		if err != nil {
			if errors.Is(err, jetstream.ErrKeyNotFound) {
				// Deleted between listing and read.
				continue
			}
			slog.ErrorContext(ctx, fmt.Sprintf("error getting %s from NATS KV", r.entityName),
				logging.ErrKey, err, "key", key)
			return nil, domain.NewInternalError(
				fmt.Sprintf("failed to retrieve %s from store", r.entityName), err)
		}

		entity, err := r.unmarshal(ctx, entry.Value())
		if err != nil {
			slog.ErrorContext(ctx, fmt.Sprintf("error unmarshalling %s from NATS KV", r.entityName),
				logging.ErrKey, err, "key", key)
			return nil, domain.NewInternalError(
				fmt.Sprintf("failed to unmarshal %s data", r.entityName), err)
		}

		entities = append(entities, entity)
	}

	return entities, nil
}

func (r *NatsBaseRepository[T]) unmarshal(ctx context.Context, data []byte) (*T, error) {
	var entity T
	if err := json.Unmarshal(data, &entity); err != nil {
		slog.ErrorContext(ctx, fmt.Sprintf("error unmarshaling %s", r.entityName), logging.ErrKey, err)
		return nil, err
	}
	return &entity, nil
}

func (r *NatsBaseRepository[T]) marshal(ctx context.Context, entity *T) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		slog.ErrorContext(ctx, fmt.Sprintf("error marshaling %s", r.entityName), logging.ErrKey, err)
		return nil, err
	}
	return data, nil
}
