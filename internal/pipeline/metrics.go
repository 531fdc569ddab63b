package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "triptime_pipeline_run_duration_seconds",
		Help:    "Duration of full pipeline invocations.",
		Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"pipeline", "result"})

	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "triptime_pipeline_runs_total",
		Help: "Total pipeline invocations grouped by outcome.",
	}, []string{"pipeline", "result"})

	predictionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "triptime_predictions_total",
		Help: "Total trip duration predictions produced.",
	})
)

func observeRun(pipeline string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	runDuration.WithLabelValues(pipeline, result).Observe(time.Since(start).Seconds())
	runsTotal.WithLabelValues(pipeline, result).Inc()
}
