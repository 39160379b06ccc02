package node

import (
	"context"
	"time"

	"github.com/goodnatureofminers/memtrace/internal/model"
)

// ObservedGateway records metrics for every call of the wrapped Source.
type ObservedGateway struct {
	source  Source
	metrics Metrics
}

func NewObservedGateway(source Source, metrics Metrics) *ObservedGateway {
	return &ObservedGateway{
		source:  source,
		metrics: metrics,
	}
}

func (g *ObservedGateway) FetchBlock(ctx context.Context, number uint64) (block *model.Block, err error) {
	started := time.Now()
	defer func() {
		g.metrics.Observe("fetch_block", err, started)
	}()
	return g.source.FetchBlock(ctx, number)
}

func (g *ObservedGateway) FetchTrace(ctx context.Context, hash string) (trace *model.TraceResult, err error) {
	started := time.Now()
	defer func() {
		g.metrics.Observe("fetch_trace", err, started)
	}()
	return g.source.FetchTrace(ctx, hash)
}
