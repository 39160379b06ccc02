package clickhouse

import (
	"context"
	"time"

	"github.com/goodnatureofminers/memtrace/internal/model"
	"github.com/goodnatureofminers/memtrace/pkg/batcher"
	"github.com/goodnatureofminers/memtrace/pkg/safe"
	"go.uber.org/zap"
)

const (
	defaultMirrorFlushSize     = 10_000
	defaultMirrorFlushInterval = 5 * time.Second
	defaultMirrorRPS           = 10
)

// Inserter writes rows of one run. *Repository satisfies it.
type Inserter interface {
	InsertTransactions(ctx context.Context, run model.BlockRange, txs []model.Transaction) error
	InsertMemoryEvents(ctx context.Context, run model.BlockRange, events []SequencedEvent) error
}

// MirrorConfig tunes the batching of mirrored rows.
type MirrorConfig struct {
	FlushSize     int
	FlushInterval time.Duration
	RPS           int
}

// MirrorStats reports rows delivered to and dropped by ClickHouse.
type MirrorStats struct {
	TransactionsFlushed uint64
	TransactionsDropped uint64
	EventsFlushed       uint64
	EventsDropped       uint64
}

// Mirror copies both record streams into ClickHouse in the background.
// Rows are buffered and flushed by size or interval.
type Mirror struct {
	transactions *batcher.Batcher[model.Transaction]
	events       *batcher.Batcher[SequencedEvent]
}

func NewMirror(repo Inserter, run model.BlockRange, cfg MirrorConfig, logger *zap.Logger) *Mirror {
	if cfg.FlushSize <= 0 {
		cfg.FlushSize = defaultMirrorFlushSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = defaultMirrorFlushInterval
	}
	if cfg.RPS <= 0 {
		cfg.RPS = defaultMirrorRPS
	}

	return &Mirror{
		transactions: batcher.New(logger.Named("transactions"), func(ctx context.Context, txs []model.Transaction) error {
			return repo.InsertTransactions(ctx, run, txs)
		}, cfg.FlushSize, cfg.FlushInterval, cfg.RPS),
		events: batcher.New(logger.Named("events"), func(ctx context.Context, events []SequencedEvent) error {
			return repo.InsertMemoryEvents(ctx, run, events)
		}, cfg.FlushSize, cfg.FlushInterval, cfg.RPS),
	}
}

// Start begins background flushing. Flushes use ctx.
func (m *Mirror) Start(ctx context.Context) {
	m.transactions.Start(ctx)
	m.events.Start(ctx)
}

// Stop flushes every queued row and stops background flushing.
func (m *Mirror) Stop() MirrorStats {
	m.transactions.Stop()
	m.events.Stop()
	return MirrorStats{
		TransactionsFlushed: m.transactions.Flushed(),
		TransactionsDropped: m.transactions.Dropped(),
		EventsFlushed:       m.events.Flushed(),
		EventsDropped:       m.events.Dropped(),
	}
}

// Transactions returns a writer feeding the transaction table.
func (m *Mirror) Transactions() *TransactionMirror {
	return &TransactionMirror{b: m.transactions}
}

// Events returns a writer feeding the memory event table.
func (m *Mirror) Events() *EventMirror {
	return &EventMirror{b: m.events}
}

type TransactionMirror struct {
	b *batcher.Batcher[model.Transaction]
}

func (t *TransactionMirror) Write(ctx context.Context, txs ...model.Transaction) error {
	for _, tx := range txs {
		if err := t.b.Add(ctx, tx); err != nil {
			return err
		}
	}
	return nil
}

type EventMirror struct {
	b *batcher.Batcher[SequencedEvent]
}

// Write queues events. Every call must carry all events of one transaction, in order.
func (e *EventMirror) Write(ctx context.Context, events ...model.MemoryEvent) error {
	for i, ev := range events {
		seq, err := safe.Uint32(i)
		if err != nil {
			return err
		}
		if err := e.b.Add(ctx, SequencedEvent{Seq: seq, Event: ev}); err != nil {
			return err
		}
	}
	return nil
}
