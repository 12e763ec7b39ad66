package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector Prometheus metrics for outbound ML API traffic. A nil *Collector records nothing.
type Collector struct {
	registry *prometheus.Registry

	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	healthProbes     *prometheus.CounterVec
}

// NewCollector Registers against the given registry, or a fresh one when nil
func NewCollector(namespace string, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ml_api",
			Name:      "requests_total",
			Help:      "Outbound ML API requests by upstream path and outcome",
		}, []string{"path", "outcome"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ml_api",
			Name:      "request_duration_seconds",
			Help:      "Outbound ML API request latency",
			// Upper bucket matches the request timeout
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"path"}),
		healthProbes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ml_api",
			Name:      "health_probes_total",
			Help:      "ML API health probes by reported status",
		}, []string{"status"}),
	}

	registry.MustRegister(
		c.upstreamRequests, c.upstreamDuration, c.healthProbes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) RecordUpstream(path, outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.upstreamRequests.WithLabelValues(path, outcome).Inc()
	c.upstreamDuration.WithLabelValues(path).Observe(elapsed.Seconds())
}

func (c *Collector) RecordProbe(status string) {
	if c == nil {
		return
	}
	c.healthProbes.WithLabelValues(status).Inc()
}

// Handler Exposes this collector's registry, including Go runtime and process metrics
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
