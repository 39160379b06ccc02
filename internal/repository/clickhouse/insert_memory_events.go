package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/memtrace/internal/model"
)

const insertMemoryEventsQuery = `
INSERT INTO memtrace_memory_events (
	run_start,
	run_end,
	transaction_id,
	seq,
	call_depth,
	opcode,
	instruction,
	region_offsets,
	region_sizes,
	opcode_gas_cost,
	pre_active_memory_size,
	post_active_memory_size,
	memory_expansion
) VALUES`

// SequencedEvent is a memory event with its position among the events of its transaction.
type SequencedEvent struct {
	Seq   uint32
	Event model.MemoryEvent
}

// InsertMemoryEvents stores memory events of one run in ClickHouse.
func (r *Repository) InsertMemoryEvents(ctx context.Context, run model.BlockRange, events []SequencedEvent) (err error) {
	started := time.Now()
	defer func() {
		r.metrics.Observe("insert_memory_events", len(events), err, started)
	}()

	if len(events) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertMemoryEventsQuery)
	if err != nil {
		return fmt.Errorf("prepare memory events batch: %w", err)
	}

	for _, e := range events {
		ev := e.Event
		offsets := make([]uint64, len(ev.Regions))
		sizes := make([]uint64, len(ev.Regions))
		for i, region := range ev.Regions {
			offsets[i] = region.Offset
			sizes[i] = region.Size
		}
		if err = batch.Append(
			run.Start,
			run.End,
			ev.TransactionID,
			e.Seq,
			ev.CallDepth,
			ev.Opcode.String(),
			string(ev.Instruction),
			offsets,
			sizes,
			ev.GasCost,
			ev.PreMemorySize,
			ev.PostMemorySize,
			ev.MemoryExpansion,
		); err != nil {
			return fmt.Errorf("append memory event of transaction %d: %w", ev.TransactionID, err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert memory events: %w", err)
	}
	return nil
}
