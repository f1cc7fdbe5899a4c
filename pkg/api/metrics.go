package api

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeOK         = "ok"
	outcomeTransport  = "transport_error"
	outcomeInvalid    = "invalid_json"
	outcomeStatus     = "unexpected_status"
	outcomeMissingKey = "missing_key"
)

// Metrics holds the Prometheus collectors updated by a Client. A nil
// *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates and registers the client collectors on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "polyteia",
			Subsystem: "sdk",
			Name:      "requests_total",
			Help:      "Platform API round trips by operation and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "polyteia",
			Subsystem: "sdk",
			Name:      "request_duration_seconds",
			Help:      "Platform API round trip latency by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	for _, c := range []prometheus.Collector{m.requests, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(operation, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(operation, outcome).Inc()
	m.duration.WithLabelValues(operation).Observe(d.Seconds())
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, ErrInvalidJSON):
		return outcomeInvalid
	case errors.Is(err, ErrUnexpectedStatus):
		return outcomeStatus
	case errors.Is(err, ErrMissingKey):
		return outcomeMissingKey
	default:
		return outcomeTransport
	}
}
