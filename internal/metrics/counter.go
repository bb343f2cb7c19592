package metrics

import (
	"context"
	"sync"

	"github.com/andrelcunha/rascal-go/internal/counters"
	"github.com/andrelcunha/rascal-go/topology"
)

// prometheusCounter is the "prometheus" redelivery Counter type (§4.1.6):
// per-message counts live in a local map (a Prometheus counter cannot
// report an arbitrary current value per message-ID without unbounded
// label cardinality), while every Incr also increments a bounded,
// counter-named Prometheus total so operators can alert on redelivery
// volume.
type prometheusCounter struct {
	mu      sync.Mutex
	counts  map[string]int
	name    string
	metrics *Collector
}

func (c *prometheusCounter) Get(_ context.Context, messageID string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[messageID], nil
}

func (c *prometheusCounter) Incr(_ context.Context, messageID string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[messageID]++
	if c.metrics != nil {
		c.metrics.RedeliveryTotal.WithLabelValues(c.name).Inc()
	}
	return c.counts[messageID], nil
}

func (c *prometheusCounter) Clear(_ context.Context, messageID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.counts, messageID)
	return nil
}

// DefaultCollector is the process-wide Collector new prometheusCounters
// report into when built through counters.New(&topology.CounterConfig{Type: "prometheus"}).
// rascal.Create sets this once, from Components.Collector, before wiring
// any counter, when Components.Collector is non-nil; otherwise it stays
// nil and metrics are a no-op.
var DefaultCollector *Collector

func init() {
	counters.Register("prometheus", func(cfg *topology.CounterConfig) (counters.Counter, error) {
		return &prometheusCounter{counts: map[string]int{}, name: cfg.Name, metrics: DefaultCollector}, nil
	})
}
