package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/muliwe/go-triangle-classifier/internal/triangle"
)

// Metrics holds Prometheus metrics for the classify endpoint
type Metrics struct {
	ClassificationsTotal *prometheus.CounterVec
	ClassifyDuration     prometheus.Histogram
	RequestErrorsTotal   *prometheus.CounterVec
}

// NewMetrics registers and returns server metrics on the given registerer
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ClassificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triangle_classifications_total",
			Help: "Total classifications by resulting label.",
		}, []string{"label"}),
		ClassifyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "triangle_classify_duration_seconds",
			Help:    "Time spent handling a classify request in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8), // 10us .. ~160ms
		}),
		RequestErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triangle_request_errors_total",
			Help: "Classify requests rejected before classification, by reason.",
		}, []string{"reason"}),
	}

	reg.MustRegister(m.ClassificationsTotal, m.ClassifyDuration, m.RequestErrorsTotal)

	// Expose every label from the start so rates are defined before first use.
	for _, l := range triangle.Labels() {
		m.ClassificationsTotal.WithLabelValues(l.Key())
	}
	return m
}

// observe records one completed classification
func (m *Metrics) observe(label triangle.Label, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ClassificationsTotal.WithLabelValues(label.Key()).Inc()
	m.ClassifyDuration.Observe(elapsed.Seconds())
}

// reject records a request that never reached the classifier
func (m *Metrics) reject(reason string) {
	if m == nil {
		return
	}
	m.RequestErrorsTotal.WithLabelValues(reason).Inc()
}
