// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkerPool_Run(t *testing.T) {
	pool := NewWorkerPool(2)

	var count atomic.Int32
	jobs := make([]func() error, 10)
	for i := range jobs {
		jobs[i] = func() error {
			count.Add(1)
			return nil
		}
	}

	err := pool.Run(context.Background(), jobs...)

	assert.NoError(t, err)
	assert.Equal(t, int32(10), count.Load())
}

func TestWorkerPool_RunReturnsFirstError(t *testing.T) {
	pool := NewWorkerPool(1)
	boom := errors.New("boom")

	err := pool.Run(context.Background(),
		func() error { return nil },
		func() error { return boom },
		func() error { return nil },
	)

	assert.ErrorIs(t, err, boom)
}

func TestWorkerPool_RunAllCollectsErrors(t *testing.T) {
	pool := NewWorkerPool(4)

	var count atomic.Int32
	errs := pool.RunAll(context.Background(),
		func() error { count.Add(1); return errors.New("first") },
		func() error { count.Add(1); return nil },
		func() error { count.Add(1); return errors.New("second") },
	)

	// Every job ran despite the failures.
	assert.Equal(t, int32(3), count.Load())
	assert.Len(t, errs, 2)
}

func TestWorkerPool_EmptyJobs(t *testing.T) {
	pool := NewWorkerPool(2)

	assert.NoError(t, pool.Run(context.Background()))
	assert.Nil(t, pool.RunAll(context.Background()))
}
