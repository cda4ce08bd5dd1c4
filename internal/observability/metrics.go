package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for one ledger run.
// Each instance owns its registry so runs and tests never share collectors.
type Metrics struct {
	registry *prometheus.Registry

	// --- Engine ---
	TransactionsApplied  *prometheus.CounterVec
	TransactionsRejected *prometheus.CounterVec
	ApplyDuration        *prometheus.HistogramVec
	BalanceDrift         prometheus.Counter

	// --- Ingestion ---
	InputRows prometheus.Counter

	// --- Final state ---
	Clients            prometheus.Gauge
	LockedClients      prometheus.Gauge
	StoredTransactions prometheus.Gauge
	HeldFunds          prometheus.Gauge
	RunDuration        prometheus.Gauge
}

// NewMetrics creates and registers all metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	latencyBuckets := []float64{
		0.0000001, 0.0000005, 0.000001, 0.000005, 0.00001,
		0.00005, 0.0001, 0.0005, 0.001,
	}

	return &Metrics{
		registry: reg,

		TransactionsApplied: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "txledger_transactions_applied_total",
			Help: "Transactions applied to client accounts",
		}, []string{"kind"}),

		TransactionsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "txledger_transactions_rejected_total",
			Help: "Transactions dropped by business rules",
		}, []string{"kind", "reason"}),

		ApplyDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "txledger_apply_duration_seconds",
			Help:    "Time to apply a single transaction",
			Buckets: latencyBuckets,
		}, []string{"kind"}),

		BalanceDrift: factory.NewCounter(prometheus.CounterOpts{
			Name: "txledger_balance_drift_total",
			Help: "Applied transactions after which total strayed from available + held beyond float tolerance",
		}),

		InputRows: factory.NewCounter(prometheus.CounterOpts{
			Name: "txledger_input_rows_total",
			Help: "Data rows parsed from the input file",
		}),

		Clients: factory.NewGauge(prometheus.GaugeOpts{
			Name: "txledger_clients",
			Help: "Client accounts in the final snapshot",
		}),

		LockedClients: factory.NewGauge(prometheus.GaugeOpts{
			Name: "txledger_locked_clients",
			Help: "Client accounts locked by a chargeback",
		}),

		StoredTransactions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "txledger_stored_transactions",
			Help: "Deposits and withdrawals retained for dispute lookup",
		}),

		HeldFunds: factory.NewGauge(prometheus.GaugeOpts{
			Name: "txledger_held_funds",
			Help: "Sum of held balances across all clients",
		}),

		RunDuration: factory.NewGauge(prometheus.GaugeOpts{
			Name: "txledger_run_duration_seconds",
			Help: "Wall time from start of ingestion to rendered report",
		}),
	}
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteToTextfile dumps all metrics in the text exposition format, suitable
// for the node_exporter textfile collector.
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
