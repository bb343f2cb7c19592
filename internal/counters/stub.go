package counters

import "context"

// stubCounter is the default redelivery counter (§4.1.1's baseline picks
// it unless overridden): it tracks nothing and always reports 0, matching
// rascal's "no redelivery tracking configured" default.
type stubCounter struct{}

func (stubCounter) Get(context.Context, string) (int, error)  { return 0, nil }
func (stubCounter) Incr(context.Context, string) (int, error) { return 0, nil }
func (stubCounter) Clear(context.Context, string) error       { return nil }
