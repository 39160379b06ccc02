package pipeline

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync/atomic"
	"time"

	"github.com/goodnatureofminers/memtrace/internal/evm"
	"github.com/goodnatureofminers/memtrace/internal/model"
	"github.com/goodnatureofminers/memtrace/pkg/workerpool"
	"go.uber.org/zap"
)

// CallFrameSummary describes a completed reconstruction run.
type CallFrameSummary struct {
	Attempted uint64
	// Succeeded counts transactions whose events were reconstructed and written.
	Succeeded uint64
	// Reverted counts transactions the node reported as failed. They contribute no events.
	Reverted uint64
	Failed   uint64
	Events   uint64
}

// CallFrameStage traces every transaction of the transaction stream and appends
// the reconstructed memory events. A failing transaction never affects the others.
type CallFrameStage struct {
	workerCount int
	source      Source
	writer      EventWriter
	metrics     CallFrameStageMetrics
	logger      *zap.Logger
}

func NewCallFrameStage(
	source Source,
	writer EventWriter,
	metrics CallFrameStageMetrics,
	workerCount int,
	logger *zap.Logger,
) (*CallFrameStage, error) {
	if source == nil {
		return nil, errors.New("call frame stage source is required")
	}
	if writer == nil {
		return nil, errors.New("call frame stage writer is required")
	}
	if workerCount <= 0 {
		workerCount = DefaultWorkerCount
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CallFrameStage{
		workerCount: workerCount,
		source:      source,
		writer:      writer,
		metrics:     metrics,
		logger:      logger,
	}, nil
}

type callFrameRun struct {
	stage    *CallFrameStage
	reverted atomic.Uint64
	events   atomic.Uint64
	done     atomic.Uint64
}

// Run processes every transaction yielded by txs. A read error from txs stops
// the run and is returned once in-flight transactions have finished.
func (s *CallFrameStage) Run(ctx context.Context, txs iter.Seq2[model.Transaction, error]) (CallFrameSummary, error) {
	run := &callFrameRun{stage: s}

	var readErr error
	items := func(yield func(model.Transaction) bool) {
		for tx, err := range txs {
			if err != nil {
				readErr = err
				return
			}
			if !yield(tx) {
				return
			}
		}
	}

	res := workerpool.Each(ctx, s.workerCount, items, run.process, s.onError)

	reverted := run.reverted.Load()
	summary := CallFrameSummary{
		Attempted: res.Attempted,
		Succeeded: res.Succeeded() - reverted,
		Reverted:  reverted,
		Failed:    res.Failed,
		Events:    run.events.Load(),
	}
	if readErr != nil {
		return summary, fmt.Errorf("read transactions: %w", readErr)
	}
	return summary, res.Err
}

func (r *callFrameRun) process(ctx context.Context, tx model.Transaction) error {
	s := r.stage
	started := time.Now()
	outcome := outcomeFailed
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveTransaction(outcome, started)
		}
		if n := r.done.Add(1); n%progressLogInterval == 0 {
			s.logger.Info("call frame stage progress",
				zap.Uint64("transactions", n),
				zap.Uint64("events", r.events.Load()),
			)
		}
	}()

	if tx.ID == 0 {
		return errors.New("transaction has no id")
	}
	if tx.Hash == "" {
		return errors.New("transaction has no hash")
	}

	trace, err := s.source.FetchTrace(ctx, tx.Hash)
	if err != nil {
		return fmt.Errorf("fetch trace: %w", err)
	}
	if trace.Failed {
		outcome = outcomeReverted
		r.reverted.Add(1)
		s.logger.Debug("transaction reverted",
			zap.Uint64("tx_id", tx.ID),
			zap.String("tx_hash", tx.Hash),
		)
		return nil
	}

	events, err := evm.Reconstruct(tx.ID, *trace)
	if err != nil {
		return fmt.Errorf("reconstruct: %w", err)
	}
	if len(events) > 0 {
		if err := s.writer.Write(ctx, events...); err != nil {
			return fmt.Errorf("write events: %w", err)
		}
	}
	r.events.Add(uint64(len(events)))

	if s.metrics != nil {
		var expansion uint64
		for _, ev := range events {
			expansion += ev.MemoryExpansion
		}
		s.metrics.ObserveEvents(len(events), expansion)
	}
	outcome = outcomeSucceeded
	return nil
}

func (s *CallFrameStage) onError(tx model.Transaction, err error) {
	s.logger.Error("transaction failed",
		zap.Uint64("tx_id", tx.ID),
		zap.String("tx_hash", tx.Hash),
		zap.Uint64("block", tx.Block),
		zap.Error(err),
	)
}
