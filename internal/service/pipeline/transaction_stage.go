// Package pipeline runs the two stages of a memory trace run: block scanning and per-transaction reconstruction.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/goodnatureofminers/memtrace/internal/model"
	"github.com/goodnatureofminers/memtrace/pkg/workerpool"
	"go.uber.org/zap"
)

// TransactionSummary describes a completed block scan.
type TransactionSummary struct {
	Blocks       uint64
	Transactions uint64
	FirstID      uint64
	LastID       uint64
}

// TransactionStage fetches every block of a range and appends its transactions
// to the transaction stream with freshly minted identifiers.
type TransactionStage struct {
	workerCount int
	source      Source
	writer      TransactionWriter
	metrics     TransactionStageMetrics
	sequence    *Sequence
	logger      *zap.Logger
}

func NewTransactionStage(
	source Source,
	writer TransactionWriter,
	metrics TransactionStageMetrics,
	workerCount int,
	logger *zap.Logger,
) (*TransactionStage, error) {
	if source == nil {
		return nil, errors.New("transaction stage source is required")
	}
	if writer == nil {
		return nil, errors.New("transaction stage writer is required")
	}
	if workerCount <= 0 {
		workerCount = DefaultWorkerCount
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransactionStage{
		workerCount: workerCount,
		source:      source,
		writer:      writer,
		metrics:     metrics,
		sequence:    &Sequence{},
		logger:      logger,
	}, nil
}

// Run scans blocks start..end inclusive. Any block failure aborts the scan.
// Identifiers follow block order and on-chain order within a block.
func (s *TransactionStage) Run(ctx context.Context, start, end uint64) (TransactionSummary, error) {
	var summary TransactionSummary
	if err := (model.BlockRange{Start: start, End: end}).Validate(); err != nil {
		return summary, err
	}
	total := end - start + 1
	firstID := s.sequence.Last() + 1

	buffer := newReorderBuffer(start, uint64(s.workerCount)*reorderWindowPerWorker, func(ctx context.Context, block *model.Block) error {
		written, err := s.release(ctx, block)
		if err != nil {
			return err
		}
		summary.Blocks++
		summary.Transactions += uint64(written)
		if summary.Blocks%progressLogInterval == 0 {
			s.logger.Info("transaction stage progress",
				zap.Uint64("blocks", summary.Blocks),
				zap.Uint64("total_blocks", total),
				zap.Uint64("transactions", summary.Transactions),
			)
		}
		return nil
	})

	err := workerpool.Process(ctx, s.workerCount, blockRange(start, end), func(ctx context.Context, number uint64) error {
		if err := buffer.wait(ctx, number); err != nil {
			return err
		}
		block, err := s.fetchBlock(ctx, number)
		if err != nil {
			return err
		}
		return buffer.add(ctx, block)
	}, nil)
	if err != nil {
		s.logger.Error("transaction stage aborted",
			zap.Uint64("blocks_released", summary.Blocks),
			zap.Int("blocks_buffered", buffer.buffered()),
			zap.Error(err),
		)
		return summary, err
	}

	if summary.Transactions > 0 {
		summary.FirstID = firstID
		summary.LastID = s.sequence.Last()
	}
	return summary, nil
}

func (s *TransactionStage) fetchBlock(ctx context.Context, number uint64) (block *model.Block, err error) {
	started := time.Now()
	defer func() {
		if s.metrics == nil {
			return
		}
		n := 0
		if block != nil {
			n = len(block.Transactions)
		}
		s.metrics.ObserveBlock(err, n, started)
	}()

	block, err = s.source.FetchBlock(ctx, number)
	if err != nil {
		s.logger.Error("fetch block failed", zap.Uint64("block", number), zap.Error(err))
		return nil, fmt.Errorf("fetch block %d: %w", number, err)
	}
	if block.Number != number {
		return nil, fmt.Errorf("fetch block %d: got block %d", number, block.Number)
	}
	return block, nil
}

// release assigns identifiers to the block's transactions and appends them.
// It runs under the reorder buffer lock, so blocks are released one at a time.
func (s *TransactionStage) release(ctx context.Context, block *model.Block) (int, error) {
	if len(block.Transactions) == 0 {
		return 0, nil
	}
	txs := make([]model.Transaction, 0, len(block.Transactions))
	for _, tx := range block.Transactions {
		txs = append(txs, model.Transaction{
			ID:    s.sequence.Next(),
			Block: block.Number,
			Hash:  tx.Hash,
			To:    tx.To,
			Gas:   tx.Gas,
		})
	}
	if err := s.writer.Write(ctx, txs...); err != nil {
		s.logger.Error("write transactions failed", zap.Uint64("block", block.Number), zap.Error(err))
		return 0, fmt.Errorf("write transactions of block %d: %w", block.Number, err)
	}
	if s.metrics != nil {
		s.metrics.ObserveWritten(len(txs))
	}
	return len(txs), nil
}

// blockRange yields start..end inclusive without overflowing at the top of the range.
func blockRange(start, end uint64) iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		for n := start; ; n++ {
			if !yield(n) || n == end {
				return
			}
		}
	}
}
