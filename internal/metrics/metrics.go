// Package metrics exposes Prometheus instrumentation for the
// processing and retention paths.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/RutikGawali1/Serverless-Image-Processing-Pipeline/pkg/thumbnailer"
)

var (
	invocationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "image_pipeline_invocations_total",
		Help: "Processing invocations by terminal status and failure reason.",
	}, []string{"status", "reason"})

	processingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "image_pipeline_processing_duration_seconds",
		Help:    "Wall-clock duration of processing invocations.",
		Buckets: prometheus.DefBuckets,
	})

	notificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "image_pipeline_notifications_total",
		Help: "Best-effort notification publishes by outcome.",
	}, []string{"outcome"})

	retentionDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "image_pipeline_retention_deleted_total",
		Help: "Destination objects removed by the retention sweeper.",
	})
)

// ObserveResult records one processing invocation
func ObserveResult(result *thumbnailer.ProcessingResult) {
	invocationsTotal.WithLabelValues(string(result.Status), string(result.FailureReason)).Inc()
	processingDuration.Observe(result.Duration.Seconds())

	switch {
	case result.NotificationSent:
		notificationsTotal.WithLabelValues("sent").Inc()
	case result.NotificationError != "":
		notificationsTotal.WithLabelValues("failed").Inc()
	}
}

// ObserveSweep records objects removed by one retention sweep
func ObserveSweep(deleted int) {
	retentionDeletedTotal.Add(float64(deleted))
}
