package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Business metrics
	chatsTotal       *prometheus.CounterVec
	tokensTotal      *prometheus.CounterVec
	costTotal        *prometheus.CounterVec
	rateLimitedTotal prometheus.Counter
	logSubscribers   prometheus.Gauge
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	// Business metrics
	r.chatsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_chats_total",
			Help: "Total number of dispatched chats",
		},
		[]string{"provider"},
	)
	r.tokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_tokens_total",
			Help: "Total tokens consumed across chats",
		},
		[]string{"provider"},
	)
	r.costTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_cost_usd_total",
			Help: "Total estimated USD cost across chats",
		},
		[]string{"provider"},
	)
	r.rateLimitedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hermes_rate_limited_total",
			Help: "Total number of admission-denied requests",
		},
	)
	r.logSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "hermes_log_subscribers",
			Help: "Number of authenticated log stream subscribers",
		},
	)

	reg.MustRegister(r.chatsTotal)
	reg.MustRegister(r.tokensTotal)
	reg.MustRegister(r.costTotal)
	reg.MustRegister(r.rateLimitedTotal)
	reg.MustRegister(r.logSubscribers)

	return r
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// RecordChat records one dispatched chat with its usage and cost.
func (r *Registry) RecordChat(provider string, tokens int, cost float64) {
	r.chatsTotal.WithLabelValues(provider).Inc()
	r.tokensTotal.WithLabelValues(provider).Add(float64(tokens))
	r.costTotal.WithLabelValues(provider).Add(cost)
}

// RecordRateLimited records an admission-denied request.
func (r *Registry) RecordRateLimited() {
	r.rateLimitedTotal.Inc()
}

// SetLogSubscribers sets the current log subscriber count.
func (r *Registry) SetLogSubscribers(count int) {
	r.logSubscribers.Set(float64(count))
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
