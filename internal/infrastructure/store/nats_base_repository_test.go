// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peaknote/transcript-service/internal/domain"
)

// testEntity for testing the base repository
type testEntity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestNatsBaseRepository_IsReady(t *testing.T) {
	tests := []struct {
		name     string
		kvStore  INatsKeyValue
		expected bool
	}{
		{name: "ready when kvStore is not nil", kvStore: newMockNatsKeyValue(), expected: true},
		{name: "not ready when kvStore is nil", kvStore: nil, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewNatsBaseRepository[testEntity](tt.kvStore, "test")
			assert.Equal(t, tt.expected, repo.IsReady())
		})
	}
}

func TestNatsBaseRepository_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("successful get", func(t *testing.T) {
		mockKV := newMockNatsKeyValue()
		repo := NewNatsBaseRepository[testEntity](mockKV, "test")

		entityJSON, _ := json.Marshal(&testEntity{ID: "test-1", Name: "first"})
		mockKV.data["test-key"] = entityJSON

		result, err := repo.Get(ctx, "test-key")

		require.NoError(t, err)
		assert.Equal(t, "test-1", result.ID)
	})

	t.Run("missing key maps to not found", func(t *testing.T) {
		repo := NewNatsBaseRepository[testEntity](newMockNatsKeyValue(), "test")

		_, err := repo.Get(ctx, "absent")

		assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
	})

	t.Run("corrupt value maps to internal", func(t *testing.T) {
		mockKV := newMockNatsKeyValue()
		repo := NewNatsBaseRepository[testEntity](mockKV, "test")
		mockKV.data["bad"] = []byte("{not json")

		_, err := repo.Get(ctx, "bad")

		assert.Equal(t, domain.ErrorTypeInternal, domain.GetErrorType(err))
	})
}

func TestNatsBaseRepository_PutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	mockKV := newMockNatsKeyValue()
	repo := NewNatsBaseRepository[testEntity](mockKV, "test")

	require.NoError(t, repo.Put(ctx, "k", &testEntity{ID: "k", Name: "v"}))

	got, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got.Name)

	exists, err := repo.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestNatsBaseRepository_CreateIfAbsent(t *testing.T) {
	ctx := context.Background()
	repo := NewNatsBaseRepository[testEntity](newMockNatsKeyValue(), "test")

	created, err := repo.CreateIfAbsent(ctx, "k", &testEntity{ID: "k"})
	require.NoError(t, err)
	assert.True(t, created)

	// Second create is a no-op, not an error.
	created, err = repo.CreateIfAbsent(ctx, "k", &testEntity{ID: "k", Name: "other"})
	require.NoError(t, err)
	assert.False(t, created)

	got, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "", got.Name)
}

func TestNatsBaseRepository_Delete(t *testing.T) {
	ctx := context.Background()
	mockKV := newMockNatsKeyValue()
	repo := NewNatsBaseRepository[testEntity](mockKV, "test")

	require.NoError(t, repo.Put(ctx, "k", &testEntity{ID: "k"}))
	require.NoError(t, repo.Delete(ctx, "k"))

	err := repo.Delete(ctx, "k")
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
}

func TestNatsBaseRepository_ListAll(t *testing.T) {
	ctx := context.Background()
	mockKV := newMockNatsKeyValue()
	repo := NewNatsBaseRepository[testEntity](mockKV, "test")

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Put(ctx, id, &testEntity{ID: id}))
	}

	entities, err := repo.ListAll(ctx)

	require.NoError(t, err)
	assert.Len(t, entities, 3)
}

func TestNatsBaseRepository_ListAllError(t *testing.T) {
	mockKV := newMockNatsKeyValue()
	mockKV.listError = errors.New("stream offline")
	repo := NewNatsBaseRepository[testEntity](mockKV, "test")

	_, err := repo.ListAll(context.Background())

	assert.Equal(t, domain.ErrorTypeInternal, domain.GetErrorType(err))
}
