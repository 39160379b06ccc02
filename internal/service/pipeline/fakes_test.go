package pipeline

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/goodnatureofminers/memtrace/internal/model"
	"github.com/holiman/uint256"
)

type fakeSource struct {
	blocks    map[uint64]*model.Block
	traces    map[string]*model.TraceResult
	blockErrs map[uint64]error
	traceErrs map[string]error
	delay     func(number uint64) time.Duration
}

func (f *fakeSource) FetchBlock(ctx context.Context, number uint64) (*model.Block, error) {
	if f.delay != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay(number)):
		}
	}
	if err := f.blockErrs[number]; err != nil {
		return nil, err
	}
	if b, ok := f.blocks[number]; ok {
		return b, nil
	}
	return &model.Block{Number: number}, nil
}

func (f *fakeSource) FetchTrace(_ context.Context, hash string) (*model.TraceResult, error) {
	if err := f.traceErrs[hash]; err != nil {
		return nil, err
	}
	trace, ok := f.traces[hash]
	if !ok {
		return nil, fmt.Errorf("no trace for %s", hash)
	}
	return trace, nil
}

type memTransactions struct {
	mu  sync.Mutex
	txs []model.Transaction
}

func (m *memTransactions) Write(_ context.Context, txs ...model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txs = append(m.txs, txs...)
	return nil
}

func (m *memTransactions) all() []model.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.txs)
}

type memEvents struct {
	mu     sync.Mutex
	events []model.MemoryEvent
}

func (m *memEvents) Write(_ context.Context, events ...model.MemoryEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *memEvents) byTransaction() map[uint64][]model.MemoryEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[uint64][]model.MemoryEvent)
	for _, ev := range m.events {
		out[ev.TransactionID] = append(out[ev.TransactionID], ev)
	}
	return out
}

func words(values ...uint64) []uint256.Int {
	out := make([]uint256.Int, len(values))
	for i, v := range values {
		out[i].SetUint64(v)
	}
	return out
}

// twoWordWrites is the trace of a transaction storing two words and then calling out.
func twoWordWrites() *model.TraceResult {
	return &model.TraceResult{Steps: []model.Step{
		{Op: vm.MSTORE, Depth: 1, Stack: words(0, 1), GasCost: 6, MemorySize: 0},
		{Op: vm.MSTORE, Depth: 1, Stack: words(32, 1), GasCost: 6, MemorySize: 32},
		{Op: vm.CALL, Depth: 1, GasCost: 100, MemorySize: 64},
	}}
}

func ptr[T any](v T) *T {
	return &v
}
