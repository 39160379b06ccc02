package pipeline

import (
	"context"
	"sync"

	"github.com/goodnatureofminers/memtrace/internal/model"
)

// reorderBuffer releases fetched blocks strictly in ascending number order.
type reorderBuffer struct {
	mu       sync.Mutex
	next     uint64
	window   uint64
	pending  map[uint64]*model.Block
	advanced chan struct{}
	release  func(ctx context.Context, block *model.Block) error
}

func newReorderBuffer(start, window uint64, release func(context.Context, *model.Block) error) *reorderBuffer {
	return &reorderBuffer{
		next:     start,
		window:   max(window, 1),
		pending:  make(map[uint64]*model.Block),
		advanced: make(chan struct{}),
		release:  release,
	}
}

// wait blocks until number is within the window ahead of the next block to release.
func (r *reorderBuffer) wait(ctx context.Context, number uint64) error {
	for {
		r.mu.Lock()
		if number-r.next < r.window {
			r.mu.Unlock()
			return nil
		}
		advanced := r.advanced
		r.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-advanced:
		}
	}
}

// add stores block and releases every consecutive block that is now complete.
func (r *reorderBuffer) add(ctx context.Context, block *model.Block) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pending[block.Number] = block
	released := false
	for {
		b, ok := r.pending[r.next]
		if !ok {
			break
		}
		if err := r.release(ctx, b); err != nil {
			return err
		}
		delete(r.pending, r.next)
		r.next++
		released = true
	}
	if released {
		close(r.advanced)
		r.advanced = make(chan struct{})
	}
	return nil
}

func (r *reorderBuffer) buffered() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
