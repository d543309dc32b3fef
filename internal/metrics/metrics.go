package metrics

import (
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
)

// Metrics implements bing.Recorder.
type Metrics struct {
	SearchRequestsTotal   *prometheus.CounterVec
	SearchRequestDuration *prometheus.HistogramVec
	registry              prometheus.Gatherer
}

// New registers the collectors with reg. A nil reg uses a private registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		SearchRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bing_search_requests_total",
				Help: "Total number of Bing API requests by vertical and outcome",
			},
			[]string{"vertical", "outcome"},
		),
		SearchRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bing_search_request_duration_seconds",
				Help:    "Bing API request duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"vertical"},
		),
		registry: reg,
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteText writes every gathered family to w in the Prometheus text format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) RecordSearch(vertical, outcome string, duration time.Duration) {
	m.SearchRequestsTotal.WithLabelValues(vertical, outcome).Inc()
	m.SearchRequestDuration.WithLabelValues(vertical).Observe(duration.Seconds())
}
