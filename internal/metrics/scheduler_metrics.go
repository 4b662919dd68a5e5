package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ScheduledJobRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scheduled_job_runs_total",
		Help:      "Scheduled job executions by job and status",
	}, []string{"job", "status"})
	ScheduledJobDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scheduled_job_duration_seconds",
		Help:      "Scheduled job run time",
		Buckets:   prometheus.DefBuckets,
	}, []string{"job"})
	ScheduledJobLastSuccess = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "scheduled_job_last_success_timestamp_seconds",
		Help:      "Unix time of the last successful run of each job",
	}, []string{"job"})
)

// RecordJobRun records one execution of a scheduled job
func RecordJobRun(job string, err error, durationSeconds float64, finishedUnix float64) {
	ScheduledJobRunsTotal.WithLabelValues(job, status(err)).Inc()
	ScheduledJobDuration.WithLabelValues(job).Observe(durationSeconds)
	if err == nil {
		ScheduledJobLastSuccess.WithLabelValues(job).Set(finishedUnix)
	}
}
