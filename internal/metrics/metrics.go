// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	AttendanceRecordsSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attendance_records_saved_total",
		Help: "Attendance rows written by the batch write path.",
	})

	ActivityLogsPersisted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "activity_logs_persisted_total",
		Help: "Activity rows flushed to Postgres by the activity worker.",
	})

	NotificationStreams = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "notification_streams_active",
		Help: "Open websocket notification streams.",
	})
)
