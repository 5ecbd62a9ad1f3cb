// Package observability provides structured logging setup and
// Prometheus metrics for long grid search runs.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Simulation metrics
	GamesSimulated prometheus.Counter
	GamesSkipped   prometheus.Counter
	TradesBooked   prometheus.Counter
	FallbackExits  prometheus.Counter
	ForcedCloses   prometheus.Counter

	// Grid search metrics
	GridSearchesTotal   prometheus.Counter
	GridSearchDuration  prometheus.Histogram
	GridPointsEvaluated prometheus.Counter
}

// NewMetrics creates a Metrics instance with all metrics registered on
// the default registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "divergence_backtest"
	}

	return &Metrics{
		GamesSimulated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_simulated_total",
			Help:      "Games fed through the full simulation pipeline.",
		}),
		GamesSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_skipped_total",
			Help:      "Games excluded for alignment failures or insufficient data.",
		}),
		TradesBooked: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trades_booked_total",
			Help:      "Closed trade records produced by simulations.",
		}),
		FallbackExits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_exits_total",
			Help:      "Exits priced from a penalized mid instead of a firm quote.",
		}),
		ForcedCloses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forced_closes_total",
			Help:      "Positions force-closed at stream end.",
		}),
		GridSearchesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grid_searches_total",
			Help:      "Completed grid search runs.",
		}),
		GridSearchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "grid_search_duration_seconds",
			Help:      "Wall time of complete grid search runs.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		GridPointsEvaluated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grid_points_evaluated_total",
			Help:      "Threshold pairs evaluated across all runs.",
		}),
	}
}

// Handler returns the HTTP handler exposing the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordTrades updates the trade counters from a batch of booked
// trades.
func (m *Metrics) RecordTrades(total, fallbackExits, forcedCloses int) {
	m.TradesBooked.Add(float64(total))
	m.FallbackExits.Add(float64(fallbackExits))
	m.ForcedCloses.Add(float64(forcedCloses))
}
