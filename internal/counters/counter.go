// Package counters implements the redelivery Counter component referenced
// by §3/§4.1.6: a small keyed-by-message-identity tracker a subscription's
// handler consults to decide whether to dead-letter a message after N
// redelivery attempts.
package counters

import (
	"context"
	"fmt"

	"github.com/andrelcunha/rascal-go/topology"
)

// Counter tracks redelivery attempts per message identity. Get/Incr/Clear
// make the "redelivery counters" concept in §3/§4.1.6 concrete, the way
// the teacher's pkg/persistence splits a storage concern into an
// interface plus swappable backends.
type Counter interface {
	Get(ctx context.Context, messageID string) (int, error)
	Incr(ctx context.Context, messageID string) (int, error)
	Clear(ctx context.Context, messageID string) error
}

// Factory builds a Counter from a resolved CounterConfig.
type Factory func(cfg *topology.CounterConfig) (Counter, error)

var registry = map[string]Factory{
	"stub":     func(*topology.CounterConfig) (Counter, error) { return stubCounter{}, nil },
	"inmemory": func(*topology.CounterConfig) (Counter, error) { return newInMemoryCounter(), nil },
	"sqlite":   newSQLiteCounter,
}

// Register adds (or replaces) a backend under name. internal/metrics calls
// this from an init() to plug in its Prometheus-backed counter without
// internal/counters needing to import internal/metrics.
func Register(name string, factory Factory) {
	registry[name] = factory
}

// New builds the Counter named by cfg.Type, per §4.2's "Every Counter's
// type is known to the component registry" rule.
func New(cfg *topology.CounterConfig) (Counter, error) {
	factory, ok := registry[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("unknown counter type: %s", cfg.Type)
	}
	return factory(cfg)
}
