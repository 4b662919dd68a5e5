// Package metrics defines backtesting-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Backtest counter vectors
var (
	BacktestRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backtest_runs_total",
		Help:      "Total number of backtest runs by strategy and status",
	}, []string{"strategy", "status"})
	BacktestBetsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backtest_bets_total",
		Help:      "Bet records generated by strategy and direction",
	}, []string{"strategy", "direction"})
	BacktestSeasonErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backtest_season_errors_total",
		Help:      "Seasons excluded from an aggregate by strategy and error kind",
	}, []string{"strategy", "kind"})
)

// Backtest gauge vectors
var (
	BacktestROI = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "backtest_roi_percent",
		Help:      "Overall ROI of the latest backtest run per strategy and league",
	}, []string{"strategy", "league"})
)

// Backtest histograms
var (
	BacktestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backtest_duration_seconds",
		Help:      "Duration of backtest runs in seconds",
		Buckets:   []float64{0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
	}, []string{"strategy"})
)

// RecordBacktestRun records a backtest run event.
// status should be one of: "success", "failure"
func RecordBacktestRun(strategy, status string, durationSeconds float64) {
	BacktestRunsTotal.WithLabelValues(strategy, status).Inc()
	BacktestDuration.WithLabelValues(strategy).Observe(durationSeconds)
}

// RecordBets adds generated bets for a strategy and direction.
func RecordBets(strategy, direction string, count int) {
	BacktestBetsTotal.WithLabelValues(strategy, direction).Add(float64(count))
}

// RecordSeasonError records a season excluded from an aggregate.
func RecordSeasonError(strategy, kind string) {
	BacktestSeasonErrorsTotal.WithLabelValues(strategy, kind).Inc()
}

// UpdateROI sets the latest overall ROI for a strategy.
func UpdateROI(strategy, league string, roi float64) {
	BacktestROI.WithLabelValues(strategy, league).Set(roi)
}
