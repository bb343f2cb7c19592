// Package metrics implements the Prometheus collector referenced in
// SPEC_FULL.md's domain stack: a publish duration histogram (§4.3's
// publication duration stat, observed on success), live
// session/subscription gauges, and a Prometheus-backed redelivery
// Counter (§4.1.6). It re-bases the teacher's hand-rolled
// pkg/metrics.Collector/RateTracker pair onto the real
// github.com/prometheus/client_golang client, keeping the same
// "collector owns broker-wide gauges/rates" shape.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector is the central metrics aggregation point, mirroring the
// teacher's pkg/metrics.Collector but backed by real Prometheus
// instruments instead of hand-rolled RateTrackers.
type Collector struct {
	PublishDuration     *prometheus.HistogramVec
	ActiveSessions      prometheus.Gauge
	ActiveSubscriptions *prometheus.GaugeVec
	RedeliveryTotal     *prometheus.CounterVec
}

// NewCollector builds and registers every instrument against reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		PublishDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rascal",
			Subsystem: "publication",
			Name:      "duration_seconds",
			Help:      "Time from publish call to success, per publication name.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"publication"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rascal",
			Subsystem: "broker",
			Name:      "active_sessions",
			Help:      "Number of currently active subscription sessions.",
		}),
		ActiveSubscriptions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "rascal",
			Subsystem: "subscription",
			Name:      "active",
			Help:      "Whether a named subscription currently has a live session (1) or not (0).",
		}, []string{"subscription"}),
		RedeliveryTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rascal",
			Subsystem: "redelivery",
			Name:      "total",
			Help:      "Total redelivery increments observed, per counter name.",
		}, []string{"counter"}),
	}
	reg.MustRegister(c.PublishDuration, c.ActiveSessions, c.ActiveSubscriptions, c.RedeliveryTotal)
	return c
}

// ObservePublishDuration records a completed publish's duration in seconds.
func (c *Collector) ObservePublishDuration(publication string, seconds float64) {
	c.PublishDuration.WithLabelValues(publication).Observe(seconds)
}

// SessionStarted/SessionStopped track the live session gauge as Sessions
// are created and cancelled (§4.4).
func (c *Collector) SessionStarted(subscription string) {
	c.ActiveSessions.Inc()
	c.ActiveSubscriptions.WithLabelValues(subscription).Set(1)
}

func (c *Collector) SessionStopped(subscription string) {
	c.ActiveSessions.Dec()
	c.ActiveSubscriptions.WithLabelValues(subscription).Set(0)
}
