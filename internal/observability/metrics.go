package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "benc",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"service", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "benc",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)
	decodeOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "benc",
			Subsystem: "decode",
			Name:      "operations_total",
			Help:      "Decode operations by outcome.",
		},
		[]string{"service", "outcome"},
	)
	decodeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "benc",
			Subsystem: "decode",
			Name:      "duration_seconds",
			Help:      "Decode duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "outcome"},
	)
	decodeInputBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "benc",
			Subsystem: "decode",
			Name:      "input_bytes",
			Help:      "Decode input sizes in bytes.",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
		},
		[]string{"service"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, decodeOps, decodeDuration, decodeInputBytes)
	})
}

func RecordHTTPRequest(service, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(service, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(service, method, path, statusLabel).Observe(duration.Seconds())
}

// RecordDecode counts one decode call. Outcome is "ok" or the short
// failure kind the handlers report to clients.
func RecordDecode(service, outcome string, inputBytes int, duration time.Duration) {
	RegisterMetrics()
	decodeOps.WithLabelValues(service, outcome).Inc()
	decodeDuration.WithLabelValues(service, outcome).Observe(duration.Seconds())
	decodeInputBytes.WithLabelValues(service).Observe(float64(inputBytes))
}
