// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

// Package concurrent provides a bounded worker pool for fanning out
// independent jobs, such as per-event transcript checks during sweeps.
package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// WorkerPool runs jobs with a bounded number of concurrent goroutines.
type WorkerPool struct {
	workerCount int
}

// NewWorkerPool creates a worker pool with the given concurrency limit.
func NewWorkerPool(workerCount int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 1
	}
	return &WorkerPool{workerCount: workerCount}
}

// Run executes all jobs, cancelling remaining work on the first error.
func (wp *WorkerPool) Run(ctx context.Context, jobs ...func() error) error {
	if len(jobs) == 0 {
		return nil
	}

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(wp.workerCount)

	for _, job := range jobs {
		g.Go(func() error {
			select {
			case <-groupCtx.Done():
				return groupCtx.Err()
			default:
			}
			return job()
		})
	}

	return g.Wait()
}

// RunAll executes all jobs to completion regardless of failures and returns
// the non-nil errors. Sweeps use this so one bad event does not block the
// rest of the batch.
func (wp *WorkerPool) RunAll(ctx context.Context, jobs ...func() error) []error {
	if len(jobs) == 0 {
		return nil
	}

	errCh := make(chan error, len(jobs))

	g := new(errgroup.Group)
	g.SetLimit(wp.workerCount)

	for _, job := range jobs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return nil
			default:
			}
			if err := job(); err != nil {
				errCh <- err
			}
			return nil
		})
	}

	_ = g.Wait()
	close(errCh)

	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}
	return errs
}
