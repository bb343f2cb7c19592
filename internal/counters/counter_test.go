package counters

import (
	"context"
	"testing"

	"github.com/andrelcunha/rascal-go/topology"
)

func TestStubCounterAlwaysZero(t *testing.T) {
	c, err := New(&topology.CounterConfig{Type: "stub"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()
	if n, err := c.Incr(ctx, "m1"); err != nil || n != 0 {
		t.Errorf("Incr = (%d, %v), want (0, nil)", n, err)
	}
	if n, err := c.Get(ctx, "m1"); err != nil || n != 0 {
		t.Errorf("Get = (%d, %v), want (0, nil)", n, err)
	}
	if err := c.Clear(ctx, "m1"); err != nil {
		t.Errorf("Clear: %v", err)
	}
}

func TestInMemoryCounterTracksPerMessage(t *testing.T) {
	c, err := New(&topology.CounterConfig{Type: "inmemory"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	for i, want := range []int{1, 2, 3} {
		n, err := c.Incr(ctx, "m1")
		if err != nil {
			t.Fatalf("Incr #%d: %v", i, err)
		}
		if n != want {
			t.Errorf("Incr #%d = %d, want %d", i, n, want)
		}
	}
	if n, _ := c.Get(ctx, "m2"); n != 0 {
		t.Errorf("Get(m2) = %d, want 0 (distinct message id)", n)
	}

	if err := c.Clear(ctx, "m1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n, _ := c.Get(ctx, "m1"); n != 0 {
		t.Errorf("Get(m1) after Clear = %d, want 0", n)
	}
}

func TestSQLiteCounterTracksPerMessage(t *testing.T) {
	c, err := New(&topology.CounterConfig{
		Type:    "sqlite",
		Options: map[string]any{"path": ":memory:"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	if n, err := c.Incr(ctx, "m1"); err != nil || n != 1 {
		t.Errorf("Incr = (%d, %v), want (1, nil)", n, err)
	}
	if n, err := c.Incr(ctx, "m1"); err != nil || n != 2 {
		t.Errorf("second Incr = (%d, %v), want (2, nil)", n, err)
	}
	if n, err := c.Get(ctx, "m1"); err != nil || n != 2 {
		t.Errorf("Get = (%d, %v), want (2, nil)", n, err)
	}
	if err := c.Clear(ctx, "m1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n, _ := c.Get(ctx, "m1"); n != 0 {
		t.Errorf("Get after Clear = %d, want 0", n)
	}
}

func TestNewUnknownCounterType(t *testing.T) {
	if _, err := New(&topology.CounterConfig{Type: "bogus"}); err == nil {
		t.Error("expected an error for an unknown counter type")
	}
}
