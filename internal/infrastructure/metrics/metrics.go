package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Trade operation metrics
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec

	// Reversal metrics
	GroupsDeleted  prometheus.Counter
	GroupsRestored prometheus.Counter

	// Ledger gauges
	AssetBalance      *prometheus.GaugeVec
	OpenDebts         *prometheus.GaugeVec
	OpenReceivables   *prometheus.GaugeVec
	TransactionsTotal prometheus.Gauge

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Snapshot sync metrics
	SyncAttempts prometheus.Counter
	SyncFailures prometheus.Counter
	SyncDuration prometheus.Histogram
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		OperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "treasury_operations_total",
				Help: "Total trade operations by name and outcome",
			},
			[]string{"operation", "status"},
		),
		OperationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "treasury_operation_duration_seconds",
				Help:    "Duration of trade operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		GroupsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "treasury_groups_deleted_total",
			Help: "Total transaction groups reversed",
		}),
		GroupsRestored: promauto.NewCounter(prometheus.CounterOpts{
			Name: "treasury_groups_restored_total",
			Help: "Total transaction groups restored",
		}),

		AssetBalance: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "treasury_asset_balance",
				Help: "Current balance per asset",
			},
			[]string{"asset"},
		),
		OpenDebts: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "treasury_open_debts",
				Help: "Remaining unarchived debt per currency",
			},
			[]string{"currency"},
		),
		OpenReceivables: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "treasury_open_receivables",
				Help: "Remaining unarchived receivables per currency",
			},
			[]string{"currency"},
		),
		TransactionsTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "treasury_transactions_total",
			Help: "Number of entries in the transaction log",
		}),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "treasury_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "treasury_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		SyncAttempts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "treasury_sync_attempts_total",
			Help: "Total snapshot sync attempts",
		}),
		SyncFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "treasury_sync_failures_total",
			Help: "Total snapshot sync attempts that exhausted retries",
		}),
		SyncDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "treasury_sync_duration_seconds",
			Help:    "Duration of snapshot sync uploads",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
