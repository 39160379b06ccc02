// Package workerpool provides simple concurrent processing utilities.
package workerpool

import (
	"context"
	"fmt"
	"iter"
	"sync"
	"sync/atomic"
)

// Process runs a worker pool over the provided work items, invoking process for each.
// If process returns an error, the pool cancels the context and stops further work.
func Process[T any](
	ctx context.Context,
	workerCount int,
	items iter.Seq[T],
	process func(context.Context, T) error,
	onCancel func(),
) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workerCount = max(workerCount, 1)
	tasks := make(chan T, workerCount)
	errs := make(chan error, workerCount)
	wg := sync.WaitGroup{}
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case item, ok := <-tasks:
					if !ok {
						return
					}
					if err := process(ctx, item); err != nil {
						select {
						case errs <- err:
						default:
						}
						if onCancel != nil {
							onCancel()
						}
						cancel()
						return
					}
				}
			}
		}()
	}

	go feed(ctx, items, tasks)

	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}

// Result summarizes an Each run.
type Result struct {
	Attempted uint64
	Failed    uint64
	// Err is set when the run stopped early because ctx was canceled.
	Err error
}

// Succeeded returns the number of items processed without error.
func (r Result) Succeeded() uint64 {
	return r.Attempted - r.Failed
}

// Each runs process for every item with at most workerCount concurrent calls.
// A failing item, including one that panics, is reported to onError and never
// cancels its siblings or the remaining items. Each returns once every item has
// been attempted or ctx is canceled.
func Each[T any](
	ctx context.Context,
	workerCount int,
	items iter.Seq[T],
	process func(context.Context, T) error,
	onError func(T, error),
) Result {
	workerCount = max(workerCount, 1)
	tasks := make(chan T, workerCount)

	var attempted, failed atomic.Uint64
	wg := sync.WaitGroup{}
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range tasks {
				if ctx.Err() != nil {
					continue
				}
				attempted.Add(1)
				if err := safeProcess(ctx, item, process); err != nil {
					failed.Add(1)
					if onError != nil {
						onError(item, err)
					}
				}
			}
		}()
	}

	feed(ctx, items, tasks)
	wg.Wait()

	return Result{
		Attempted: attempted.Load(),
		Failed:    failed.Load(),
		Err:       ctx.Err(),
	}
}

// feed pushes items into tasks until the sequence ends or ctx is done, then closes tasks.
func feed[T any](ctx context.Context, items iter.Seq[T], tasks chan<- T) {
	defer close(tasks)
	for item := range items {
		select {
		case <-ctx.Done():
			return
		case tasks <- item:
		}
	}
}

func safeProcess[T any](ctx context.Context, item T, process func(context.Context, T) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return process(ctx, item)
}
