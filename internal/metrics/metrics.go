// Package metrics holds fnplot's Prometheus instruments.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zephyrtronium/fnplot"
)

// Rejection reasons.
const (
	ReasonRequest = "request"
	ReasonLex     = "lex"
	ReasonParse   = "parse"
)

// Metrics is the set of instruments. A nil *Metrics records nothing, so
// callers need not check whether metrics are enabled.
type Metrics struct {
	registry *prometheus.Registry

	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	rejections  *prometheus.CounterVec
	points      prometheus.Counter
	pointErrors *prometheus.CounterVec
}

// New creates and registers the instruments under namespace in a new
// registry, along with the Go runtime and process collectors.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route and status.",
			},
			[]string{"route", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route.",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"route"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "expression_rejections_total",
				Help:      "Requests rejected before sampling, by reason.",
			},
			[]string{"reason"},
		),
		points: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sample_points_total",
				Help:      "Points evaluated.",
			},
		),
		pointErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sample_point_errors_total",
				Help:      "Points that failed to evaluate, by kind of failure.",
			},
			[]string{"kind"},
		),
	}
	reg.MustRegister(
		m.requests,
		m.duration,
		m.rejections,
		m.points,
		m.pointErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry holding the instruments.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

// ObserveRequest records a finished HTTP request.
func (m *Metrics) ObserveRequest(route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(route).Observe(d.Seconds())
}

// Reject records a request rejected for reason.
func (m *Metrics) Reject(reason string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(reason).Inc()
}

// ObserveSeries records the points of a sampled series.
func (m *Metrics) ObserveSeries(pts []fnplot.SamplePoint) {
	if m == nil {
		return
	}
	m.points.Add(float64(len(pts)))
	for _, p := range pts {
		if !p.OK() {
			m.pointErrors.WithLabelValues(kindLabel(p.Err.Kind)).Inc()
		}
	}
}

func kindLabel(k fnplot.EvalErrorKind) string {
	switch k {
	case fnplot.DivisionByZero:
		return "division_by_zero"
	case fnplot.DomainError:
		return "domain"
	case fnplot.Overflow:
		return "overflow"
	case fnplot.NotANumber:
		return "nan"
	default:
		return "unknown"
	}
}
