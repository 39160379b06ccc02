package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transactionStageBlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "transaction_stage",
		Name:      "blocks_total",
		Help:      "Count of blocks fetched by the transaction stage.",
	}, []string{"status"})

	transactionStageBlockDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "transaction_stage",
		Name:      "block_duration_seconds",
		Help:      "Duration of fetching a single block.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})

	transactionStageBlockSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "transaction_stage",
		Name:      "block_transactions",
		Help:      "Number of transactions per fetched block.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1..2048
	})

	transactionStageWrittenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "transaction_stage",
		Name:      "transactions_written_total",
		Help:      "Count of transaction records appended to the transaction stream.",
	})
)

// TransactionStage tracks metrics for the block scan.
type TransactionStage struct{}

// NewTransactionStage constructs a TransactionStage collector.
func NewTransactionStage() *TransactionStage {
	return &TransactionStage{}
}

// ObserveBlock records fetching of one block.
func (m TransactionStage) ObserveBlock(err error, transactions int, started time.Time) {
	status := statusOf(err)
	transactionStageBlocksTotal.WithLabelValues(status).Inc()
	transactionStageBlockDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
	if err == nil {
		transactionStageBlockSize.Observe(float64(transactions))
	}
}

// ObserveWritten records transaction records appended to the stream.
func (m TransactionStage) ObserveWritten(count int) {
	transactionStageWrittenTotal.Add(float64(count))
}
