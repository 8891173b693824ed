package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Event metrics
	EventsCreated  prometheus.Counter
	EventsDeleted  prometheus.Counter
	EventAmount    prometheus.Histogram
	EventErrors    *prometheus.CounterVec
	CascadeDeletes prometheus.Histogram

	// Balance replay metrics
	BalanceReplays       prometheus.Counter
	BalanceReplayEvents  prometheus.Histogram
	BalanceReplaySeconds prometheus.Histogram

	// Derived record metrics
	CreditsUpserted    prometheus.Counter
	CreditsDeleted     prometheus.Counter
	TaxPaymentsCreated prometheus.Counter
	TaxPaymentsDeleted prometheus.Counter

	// Transfer metrics
	TransfersCreated prometheus.Counter
	TransferLegs     *prometheus.CounterVec

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Outbox metrics
	OutboxPublished prometheus.Counter
	OutboxPending   prometheus.Gauge
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Event metrics
		EventsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finbook_events_created_total",
			Help: "Total number of events recorded",
		}),
		EventsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finbook_events_deleted_total",
			Help: "Total number of events deleted",
		}),
		EventAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "finbook_event_amount",
			Help:    "Event amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		EventErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finbook_event_errors_total",
				Help: "Total number of event errors by type",
			},
			[]string{"error_type"},
		),
		CascadeDeletes: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "finbook_cascade_deleted_records",
			Help:    "Records removed per delete including cascaded ones",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		}),

		// Balance replay metrics
		BalanceReplays: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finbook_balance_replays_total",
			Help: "Total number of balance replays",
		}),
		BalanceReplayEvents: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "finbook_balance_replay_events",
			Help:    "Events scanned per balance replay",
			Buckets: []float64{10, 100, 1000, 10000, 100000},
		}),
		BalanceReplaySeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "finbook_balance_replay_duration_seconds",
			Help:    "Duration of balance replays",
			Buckets: prometheus.DefBuckets,
		}),

		// Derived record metrics
		CreditsUpserted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finbook_credits_upserted_total",
			Help: "Total number of credit records created or incremented",
		}),
		CreditsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finbook_credits_deleted_total",
			Help: "Total number of credit records deleted",
		}),
		TaxPaymentsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finbook_tax_payments_created_total",
			Help: "Total number of tax payments created",
		}),
		TaxPaymentsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finbook_tax_payments_deleted_total",
			Help: "Total number of tax payments deleted",
		}),

		// Transfer metrics
		TransfersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finbook_transfers_created_total",
			Help: "Total number of transfers created",
		}),
		TransferLegs: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finbook_transfer_legs_total",
				Help: "Total transfer legs by purpose",
			},
			[]string{"purpose"},
		),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finbook_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finbook_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "finbook_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finbook_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finbook_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finbook_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Outbox metrics
		OutboxPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finbook_outbox_published_total",
			Help: "Total number of outbox records published",
		}),
		OutboxPending: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "finbook_outbox_pending",
			Help: "Current number of unpublished outbox records",
		}),
	}
}
