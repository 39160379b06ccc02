package pipeline

import (
	"context"
	"time"

	"github.com/goodnatureofminers/memtrace/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Source interface {
		FetchBlock(ctx context.Context, number uint64) (*model.Block, error)
		FetchTrace(ctx context.Context, hash string) (*model.TraceResult, error)
	}
	TransactionWriter interface {
		Write(ctx context.Context, txs ...model.Transaction) error
	}
	EventWriter interface {
		Write(ctx context.Context, events ...model.MemoryEvent) error
	}
	TransactionStageMetrics interface {
		ObserveBlock(err error, transactions int, started time.Time)
		ObserveWritten(count int)
	}
	CallFrameStageMetrics interface {
		ObserveTransaction(outcome string, started time.Time)
		ObserveEvents(count int, expansion uint64)
	}
)
