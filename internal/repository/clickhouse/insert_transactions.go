package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/memtrace/internal/model"
)

const insertTransactionsQuery = `
INSERT INTO memtrace_transactions (
	run_start,
	run_end,
	id,
	block,
	tx_hash,
	tx_gas,
	to_address
) VALUES`

// InsertTransactions stores transactions of one run in ClickHouse.
func (r *Repository) InsertTransactions(ctx context.Context, run model.BlockRange, txs []model.Transaction) (err error) {
	started := time.Now()
	defer func() {
		r.metrics.Observe("insert_transactions", len(txs), err, started)
	}()

	if len(txs) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertTransactionsQuery)
	if err != nil {
		return fmt.Errorf("prepare transactions batch: %w", err)
	}

	for _, tx := range txs {
		if err = batch.Append(
			run.Start,
			run.End,
			tx.ID,
			tx.Block,
			tx.Hash,
			tx.Gas,
			tx.To,
		); err != nil {
			return fmt.Errorf("append transaction %d: %w", tx.ID, err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert transactions: %w", err)
	}
	return nil
}
