// Package metrics exposes application metrics collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "memtrace"

var (
	nodeRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "node_gateway",
		Name:      "operations_total",
		Help:      "Count of node JSON-RPC operations.",
	}, []string{"operation", "mode", "status"})
	nodeRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "node_gateway",
		Name:      "operation_duration_seconds",
		Help:      "Duration of node JSON-RPC operations.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"operation", "mode", "status"})
)

// NodeGateway tracks metrics for calls to the execution node.
type NodeGateway struct {
	mode string
}

// NewNodeGateway constructs a metrics collector for node calls made in the given trace mode.
func NewNodeGateway(mode string) *NodeGateway {
	if mode == "" {
		mode = "unknown"
	}
	return &NodeGateway{mode: mode}
}

// Observe records a single node call outcome and duration.
func (m NodeGateway) Observe(operation string, err error, started time.Time) {
	status := statusOf(err)
	nodeRequestsTotal.WithLabelValues(operation, m.mode, status).Inc()
	nodeRequestDuration.WithLabelValues(operation, m.mode, status).Observe(time.Since(started).Seconds())
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
