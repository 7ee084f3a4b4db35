// Package metrics exposes business and HTTP metrics through Prometheus.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus implements service.Metrics and records HTTP traffic.
type Prometheus struct {
	submissions     *prometheus.CounterVec
	participants    prometheus.Histogram
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New registers every collector in reg. Passing a fresh registry keeps tests
// isolated from the global one.
func New(reg prometheus.Registerer) *Prometheus {
	factory := promauto.With(reg)
	return &Prometheus{
		submissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skill_radar_submissions_total",
				Help: "Answer sets stored, by destination.",
			},
			[]string{"kind"},
		),
		participants: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "skill_radar_session_participants",
				Help:    "Participants per computed session result.",
				Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
			},
		),
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skill_radar_http_requests_total",
				Help: "HTTP requests served, by route and status.",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "skill_radar_http_request_duration_seconds",
				Help:    "HTTP request latency.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

func (p *Prometheus) IncSubmissions(kind string) {
	p.submissions.WithLabelValues(kind).Inc()
}

func (p *Prometheus) ObserveParticipants(n int) {
	p.participants.Observe(float64(n))
}

// ObserveRequest records one served request. route is the matched route
// pattern, not the raw path, to keep label cardinality bounded.
func (p *Prometheus) ObserveRequest(method, route string, status int, latency time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	p.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.requestDuration.WithLabelValues(method, route).Observe(latency.Seconds())
}
