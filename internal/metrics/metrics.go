// Package metrics provides the centralized Prometheus metrics registry for
// the predictions service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RacesScoredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitwall",
		Name:      "races_scored_total",
		Help:      "Total number of successful race scoring runs",
	})
	ScoringFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitwall",
		Name:      "scoring_failures_total",
		Help:      "Total number of failed race scoring runs",
	})
	PredictionsSubmittedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitwall",
		Name:      "predictions_submitted_total",
		Help:      "Total number of prediction sets submitted",
	})
	PredictionsRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pitwall",
		Name:      "predictions_rejected_total",
		Help:      "Total number of rejected prediction submissions",
	}, []string{"reason"})
	LeaderboardCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitwall",
		Name:      "leaderboard_cache_hits_total",
		Help:      "Total number of leaderboard reads served from cache",
	})
	LeaderboardCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitwall",
		Name:      "leaderboard_cache_misses_total",
		Help:      "Total number of leaderboard reads that hit the database",
	})
	CalendarSyncsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitwall",
		Name:      "calendar_syncs_total",
		Help:      "Total number of calendar sync runs",
	})
)

// Gauge metrics
var (
	LiveClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pitwall",
		Name:      "live_clients",
		Help:      "Number of connected live update clients",
	})
)

// Histogram metrics
var (
	ScoringDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pitwall",
		Name:      "scoring_duration_seconds",
		Help:      "Duration of race scoring runs in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	CalendarSyncDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pitwall",
		Name:      "calendar_sync_duration_seconds",
		Help:      "Duration of calendar sync runs in seconds",
		Buckets:   []float64{0.5, 1, 5, 10, 30, 60, 300},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(RacesScoredTotal)
		registry.MustRegister(ScoringFailuresTotal)
		registry.MustRegister(PredictionsSubmittedTotal)
		registry.MustRegister(PredictionsRejectedTotal)
		registry.MustRegister(LeaderboardCacheHitsTotal)
		registry.MustRegister(LeaderboardCacheMissesTotal)
		registry.MustRegister(CalendarSyncsTotal)

		registry.MustRegister(LiveClients)

		registry.MustRegister(ScoringDuration)
		registry.MustRegister(CalendarSyncDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordRaceScored records a completed scoring run.
func RecordRaceScored(durationSeconds float64) {
	RacesScoredTotal.Inc()
	ScoringDuration.Observe(durationSeconds)
}

// RecordScoringFailure records a failed scoring run.
func RecordScoringFailure() {
	ScoringFailuresTotal.Inc()
}

// RecordPredictionSubmitted records an accepted prediction submission.
func RecordPredictionSubmitted() {
	PredictionsSubmittedTotal.Inc()
}

// RecordPredictionRejected records a rejected prediction submission.
func RecordPredictionRejected(reason string) {
	PredictionsRejectedTotal.WithLabelValues(reason).Inc()
}

// RecordLeaderboardCacheHit records a leaderboard cache hit.
func RecordLeaderboardCacheHit() {
	LeaderboardCacheHitsTotal.Inc()
}

// RecordLeaderboardCacheMiss records a leaderboard cache miss.
func RecordLeaderboardCacheMiss() {
	LeaderboardCacheMissesTotal.Inc()
}

// RecordCalendarSync records a calendar sync run.
func RecordCalendarSync(durationSeconds float64) {
	CalendarSyncsTotal.Inc()
	CalendarSyncDuration.Observe(durationSeconds)
}

// UpdateLiveClients updates the connected live client gauge.
func UpdateLiveClients(count float64) {
	LiveClients.Set(count)
}
