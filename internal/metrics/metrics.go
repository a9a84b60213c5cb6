package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "adhyayanx"

// Auth flow names used as label values
const (
	FlowSignup         = "signup"
	FlowLogin          = "login"
	FlowRefresh        = "refresh"
	FlowLogout         = "logout"
	FlowForgotPassword = "forgot_password"
	FlowResetPassword  = "reset_password"
)

// Outcome label values
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	flowsTotal      *prometheus.CounterVec
	revokedTotal    *prometheus.CounterVec
}

// New creates collectors registered in own registry together with go and process collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "The total number of http requests by route and status code",
		}, []string{"route", "status"}),

		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "The http request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),

		flowsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_flows_total",
			Help:      "The total number of auth flow runs by outcome",
		}, []string{"flow", "outcome"}),

		revokedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_tokens_revoked_total",
			Help:      "The total number of revoked refresh tokens",
		}, []string{"flow"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestsTotal,
		m.requestDuration,
		m.flowsTotal,
		m.revokedTotal,
	)

	return m
}

func (m *Metrics) ObserveRequest(route string, status int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func (m *Metrics) FlowDone(flow string, outcome string) {
	m.flowsTotal.WithLabelValues(flow, outcome).Inc()
}

func (m *Metrics) TokensRevoked(flow string, n int) {
	m.revokedTotal.WithLabelValues(flow).Add(float64(n))
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes collected metrics in prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
