package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	Registrations       *prometheus.CounterVec
	WishlistOps         *prometheus.CounterVec
	FeaturedRecomputes  prometheus.Counter
	AnnouncementRuns    prometheus.Counter
	CacheMisses         *prometheus.CounterVec
	TxRetries           prometheus.Counter
	RecomputeDurationMs prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		Registrations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "confhub_registrations_total",
			Help: "Conference registration outcomes by operation and result",
		}, []string{"op", "result"}),
		WishlistOps: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "confhub_wishlist_ops_total",
			Help: "Wishlist mutation outcomes by operation and result",
		}, []string{"op", "result"}),
		FeaturedRecomputes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "confhub_featured_recomputes_total",
			Help: "Featured speaker recomputation runs",
		}),
		AnnouncementRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "confhub_announcement_runs_total",
			Help: "Announcement generator runs",
		}),
		CacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "confhub_cache_misses_total",
			Help: "Derived-data cache misses by key class",
		}, []string{"key"}),
		TxRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "confhub_tx_retries_total",
			Help: "Transaction retries after serialization conflicts",
		}),
		RecomputeDurationMs: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "confhub_featured_recompute_duration_ms",
			Help:    "Latency of featured speaker recomputation in milliseconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
		}),
	}
}

// NewForTest returns unregistered metrics safe for parallel test packages.
func NewForTest() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		Registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "confhub_registrations_total",
		}, []string{"op", "result"}),
		WishlistOps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "confhub_wishlist_ops_total",
		}, []string{"op", "result"}),
		FeaturedRecomputes: factory.NewCounter(prometheus.CounterOpts{
			Name: "confhub_featured_recomputes_total",
		}),
		AnnouncementRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "confhub_announcement_runs_total",
		}),
		CacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "confhub_cache_misses_total",
		}, []string{"key"}),
		TxRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "confhub_tx_retries_total",
		}),
		RecomputeDurationMs: factory.NewHistogram(prometheus.HistogramOpts{
			Name: "confhub_featured_recompute_duration_ms",
		}),
	}
}
