// Package metrics holds the Prometheus collectors for ledger operations.
// Collectors register with the default registry on import.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

var (
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "spinwallet",
			Name:      "ledger_operations_total",
			Help:      "Ledger operations by name and result.",
		},
		[]string{"operation", "result"},
	)

	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "spinwallet",
			Name:      "ledger_operation_duration_seconds",
			Help:      "Latency of ledger operations, including the database unit of work.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	settlementsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "spinwallet",
			Name:      "wagering_settlements_total",
			Help:      "Bonus wallets transferred into real money.",
		},
	)
)

// ObserveOperation records one finished operation.
func ObserveOperation(operation, result string, started time.Time) {
	operationsTotal.WithLabelValues(operation, result).Inc()
	operationDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

func AddSettlements(n int) {
	if n <= 0 {
		return
	}

	settlementsTotal.Add(float64(n))
}
