package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	callFrameStageTransactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "call_frame_stage",
		Name:      "transactions_total",
		Help:      "Count of traced transactions by outcome.",
	}, []string{"outcome"})

	callFrameStageTransactionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "call_frame_stage",
		Name:      "transaction_duration_seconds",
		Help:      "Duration of tracing and reconstructing one transaction.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"outcome"})

	callFrameStageEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "call_frame_stage",
		Name:      "events_written_total",
		Help:      "Count of memory events appended to the event stream.",
	})

	callFrameStageExpansionBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "call_frame_stage",
		Name:      "transaction_memory_expansion_bytes",
		Help:      "Total memory expansion reconstructed per transaction.",
		Buckets:   prometheus.ExponentialBuckets(32, 4, 10), // 32B..8MiB
	})
)

// CallFrameStage tracks metrics for per-transaction reconstruction.
type CallFrameStage struct{}

// NewCallFrameStage constructs a CallFrameStage collector.
func NewCallFrameStage() *CallFrameStage {
	return &CallFrameStage{}
}

// ObserveTransaction records the outcome of one transaction: succeeded, reverted or failed.
func (m CallFrameStage) ObserveTransaction(outcome string, started time.Time) {
	callFrameStageTransactionsTotal.WithLabelValues(outcome).Inc()
	callFrameStageTransactionDuration.WithLabelValues(outcome).Observe(time.Since(started).Seconds())
}

// ObserveEvents records events written for one transaction and their summed expansion.
func (m CallFrameStage) ObserveEvents(count int, expansion uint64) {
	callFrameStageEventsTotal.Add(float64(count))
	callFrameStageExpansionBytes.Observe(float64(expansion))
}
