package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mesozoic/internal/driver"
)

// Transpile outcomes used as the "outcome" label.
const (
	outcomeOK     = "ok"
	outcomeFailed = "failed"
	outcomeError  = "error"
)

// metrics holds the collectors of one Server. Each Server has its own
// registry, so several servers in one process never collide.
type metrics struct {
	registry   *prometheus.Registry
	requests   *prometheus.CounterVec
	transpiles *prometheus.CounterVec
	duration   prometheus.Histogram
	inputBytes prometheus.Counter
}

func newMetrics(memo *driver.Memo) *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mesozoic",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		transpiles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mesozoic",
			Name:      "transpile_total",
			Help:      "Transpile requests by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mesozoic",
			Name:      "transpile_duration_seconds",
			Help:      "Time spent transpiling one request body.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		inputBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mesozoic",
			Name:      "transpile_input_bytes_total",
			Help:      "Source bytes accepted for transpilation.",
		}),
	}
	m.registry.MustRegister(
		m.requests,
		m.transpiles,
		m.duration,
		m.inputBytes,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "mesozoic",
			Subsystem: "memo",
			Name:      "entries",
			Help:      "Results held in the in-memory cache.",
		}, func() float64 { return float64(memo.Len()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "mesozoic",
			Subsystem: "memo",
			Name:      "hits_total",
			Help:      "In-memory cache hits.",
		}, func() float64 {
			hits, _ := memo.Stats()
			return float64(hits)
		}),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "mesozoic",
			Subsystem: "memo",
			Name:      "misses_total",
			Help:      "In-memory cache misses.",
		}, func() float64 {
			_, misses := memo.Stats()
			return float64(misses)
		}),
	)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *metrics) observeRequest(route string, status int) {
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

func (m *metrics) observeTranspile(outcome string, size int, elapsed time.Duration) {
	m.transpiles.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
	m.inputBytes.Add(float64(size))
}
