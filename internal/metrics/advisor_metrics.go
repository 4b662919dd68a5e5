package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RecommendationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recommendations_total",
		Help:      "Fixture recommendations by advisor and originating strategy",
	}, []string{"advisor", "strategy"})
	RecommendationConfidence = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "recommendation_confidence",
		Help:      "Confidence of fixture recommendations by advisor",
		Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
	}, []string{"advisor"})
)

// RecordRecommendation records one fixture recommendation. strategy is
// "none" when the advisor found no opportunity.
func RecordRecommendation(advisor, strategy string, confidence float64) {
	RecommendationsTotal.WithLabelValues(advisor, strategy).Inc()
	RecommendationConfidence.WithLabelValues(advisor).Observe(confidence)
}
