package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	backendRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "likedposts_backend_requests_total",
		Help: "Backend calls issued by the data fetcher, by operation and status code.",
	}, []string{"operation", "status"})

	backendDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "likedposts_backend_request_duration_seconds",
		Help:    "Latency of backend calls issued by the data fetcher.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "likedposts_http_requests_total",
		Help: "Requests served by the web client.",
	}, []string{"method", "status"})

	httpDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "likedposts_http_request_duration_seconds",
		Help:    "Latency of requests served by the web client.",
		Buckets: prometheus.DefBuckets,
	})

	registry = newRegistry()
)

func newRegistry() *prometheus.Registry {
	r := prometheus.NewRegistry()
	r.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		backendRequests,
		backendDuration,
		httpRequests,
		httpDuration,
	)
	return r
}

// Registry returns the registry served on /metrics.
func Registry() *prometheus.Registry {
	return registry
}

// ObserveBackend records one backend call. status is 0 for transport errors.
func ObserveBackend(operation string, status int, took time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	backendRequests.WithLabelValues(operation, label).Inc()
	backendDuration.WithLabelValues(operation).Observe(took.Seconds())
}

// ObserveHTTP records one served request.
func ObserveHTTP(method string, status int, took time.Duration) {
	httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	httpDuration.Observe(took.Seconds())
}
