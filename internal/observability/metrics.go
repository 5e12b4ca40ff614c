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
			Namespace: "rgbctl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total admin HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rgbctl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
	sessionCommands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rgbctl",
			Subsystem: "session",
			Name:      "commands_total",
			Help:      "Commands decoded from the source, by kind.",
		},
		[]string{"kind"},
	)
	sessionDisconnects = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rgbctl",
			Subsystem: "session",
			Name:      "disconnects_total",
			Help:      "Session terminations, by reason.",
		},
		[]string{"reason"},
	)
	logToggles = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "rgbctl",
			Subsystem: "log",
			Name:      "toggles_total",
			Help:      "Manual selection toggles applied to the command log.",
		},
	)
	logEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "rgbctl",
			Subsystem: "log",
			Name:      "entries",
			Help:      "Entries currently held by the command log.",
		},
	)
	sourceCommands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rgbctl",
			Subsystem: "source",
			Name:      "commands_sent_total",
			Help:      "Commands written by the simulated source, by kind.",
		},
		[]string{"kind"},
	)
)

// Disconnect reasons.
const (
	ReasonConnect   = "connect"
	ReasonTruncated = "truncated"
	ReasonIO        = "io"
	ReasonShutdown  = "shutdown"
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			httpDuration,
			sessionCommands,
			sessionDisconnects,
			logToggles,
			logEntries,
			sourceCommands,
		)
	})
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}

func RecordCommand(kind string, logLen int) {
	RegisterMetrics()
	sessionCommands.WithLabelValues(kind).Inc()
	logEntries.Set(float64(logLen))
}

func RecordDisconnect(reason string) {
	RegisterMetrics()
	sessionDisconnects.WithLabelValues(reason).Inc()
}

func RecordToggle() {
	RegisterMetrics()
	logToggles.Inc()
}

func RecordSourceCommand(kind string) {
	RegisterMetrics()
	sourceCommands.WithLabelValues(kind).Inc()
}
