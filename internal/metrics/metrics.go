// Package metrics provides the Prometheus registry for touchline runs.
package metrics

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "touchline"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Data access metrics
var (
	SeasonCacheRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "season_cache_requests_total",
		Help:      "Season cache lookups by league and outcome",
	}, []string{"league", "outcome"})
	SeasonLoadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "season_loads_total",
		Help:      "Season files parsed by league and status",
	}, []string{"league", "status"})
	SeasonFetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "season_fetches_total",
		Help:      "Season file downloads by league and status",
	}, []string{"league", "status"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(SeasonCacheRequestsTotal)
		registry.MustRegister(SeasonLoadsTotal)
		registry.MustRegister(SeasonFetchesTotal)

		registry.MustRegister(BacktestRunsTotal)
		registry.MustRegister(BacktestBetsTotal)
		registry.MustRegister(BacktestSeasonErrorsTotal)
		registry.MustRegister(BacktestROI)
		registry.MustRegister(BacktestDuration)

		registry.MustRegister(RecommendationsTotal)
		registry.MustRegister(RecommendationConfidence)

		registry.MustRegister(ScheduledJobRunsTotal)
		registry.MustRegister(ScheduledJobDuration)
		registry.MustRegister(ScheduledJobLastSuccess)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// WriteTextfile writes the registry in the node exporter textfile format.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, GetRegistry()); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

// RecordCacheRequest records a season cache hit or miss.
func RecordCacheRequest(league string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	SeasonCacheRequestsTotal.WithLabelValues(league, outcome).Inc()
}

// RecordSeasonLoad records a season file parse.
func RecordSeasonLoad(league string, err error) {
	SeasonLoadsTotal.WithLabelValues(league, status(err)).Inc()
}

// RecordSeasonFetch records a season file download.
func RecordSeasonFetch(league string, err error) {
	SeasonFetchesTotal.WithLabelValues(league, status(err)).Inc()
}

func status(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
