package pipeline

import (
	"context"

	"github.com/goodnatureofminers/memtrace/internal/model"
)

// TeeTransactions writes to primary first and then to every mirror.
func TeeTransactions(primary TransactionWriter, mirrors ...TransactionWriter) TransactionWriter {
	if len(mirrors) == 0 {
		return primary
	}
	return transactionTee(append([]TransactionWriter{primary}, mirrors...))
}

type transactionTee []TransactionWriter

func (t transactionTee) Write(ctx context.Context, txs ...model.Transaction) error {
	for _, w := range t {
		if err := w.Write(ctx, txs...); err != nil {
			return err
		}
	}
	return nil
}

// TeeEvents writes to primary first and then to every mirror.
func TeeEvents(primary EventWriter, mirrors ...EventWriter) EventWriter {
	if len(mirrors) == 0 {
		return primary
	}
	return eventTee(append([]EventWriter{primary}, mirrors...))
}

type eventTee []EventWriter

func (t eventTee) Write(ctx context.Context, events ...model.MemoryEvent) error {
	for _, w := range t {
		if err := w.Write(ctx, events...); err != nil {
			return err
		}
	}
	return nil
}
