package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "syllabus_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "syllabus_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	courseWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "syllabus_course_writes_total",
		Help: "Course synchronizer writes by operation and result",
	}, []string{"operation", "result"})

	exportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "syllabus_exports_total",
		Help: "Rendered course documents by format and result",
	}, []string{"format", "result"})

	evaluatorDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "syllabus_evaluator_duration_seconds",
		Help:    "Duration of text evaluation calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"evaluator", "result"})

	versionCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "syllabus_version_cache_lookups_total",
		Help: "Version list cache lookups by outcome",
	}, []string{"outcome"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveCourseWrite counts one synchronizer write.
func ObserveCourseWrite(operation string, err error) {
	courseWrites.WithLabelValues(operation, result(err)).Inc()
}

// ObserveExport counts one rendered document.
func ObserveExport(format string, err error) {
	exportsTotal.WithLabelValues(format, result(err)).Inc()
}

// ObserveEvaluation records the duration of an evaluator call.
func ObserveEvaluation(evaluator string, err error, duration time.Duration) {
	evaluatorDuration.WithLabelValues(evaluator, result(err)).Observe(duration.Seconds())
}

// ObserveCacheLookup counts a version cache hit or miss.
func ObserveCacheLookup(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	versionCacheLookups.WithLabelValues(outcome).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
