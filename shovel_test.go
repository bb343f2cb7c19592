package rascal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrelcunha/rascal-go/internal/transport"
)

// TestForwardPreservesIdentity covers scenario S6: a message received on
// subscription s1 (queue q1) and forwarded via publication p2 (exchange
// e2) arrives with identical messageId, contentType == text/plain, and
// the rascal.original* headers naming the source exchange/routingKey.
func TestForwardPreservesIdentity(t *testing.T) {
	raw := map[string]any{
		"vhosts": map[string]any{
			"/": map[string]any{
				"namespace": "ns",
				"exchanges": map[string]any{"e1": map[string]any{}, "e2": map[string]any{}},
				"queues":    map[string]any{"q1": map[string]any{}, "q2": map[string]any{}},
				"bindings":  map[string]any{"e2-> q2": map[string]any{}},
			},
		},
		"publications": map[string]any{
			"p2": map[string]any{"vhost": "/", "exchange": "e2"},
		},
	}
	cfg, err := Configure(raw)
	require.NoError(t, err)

	fake := transport.NewFake()
	broker, err := Create(cfg, Components{Dialer: fake})
	require.NoError(t, err)
	defer broker.Shutdown()

	ctx := context.Background()
	// connect + declare topology before forwarding, the way RunShovels
	// would via an antecedent Subscribe.
	_, err = broker.Connect(ctx, "/")
	require.NoError(t, err)

	// q2's wire-level name is its namespace-qualified FQN, not its logical
	// name, since the vhost in this fixture sets namespace: "ns".
	q2, err := fake.Consume(ctx, "ns:q2", "watcher", false)
	require.NoError(t, err)

	delivery := transport.Delivery{
		Message: transport.Message{
			MessageID:   "abc-123",
			ContentType: "text/plain",
			Exchange:    "ns:e1",
			RoutingKey:  "rk1",
			Body:        []byte("hi"),
		},
	}

	handle, err := broker.Forward(ctx, "p2", delivery, PublishOverrides{})
	require.NoError(t, err)

	select {
	case id := <-handle.Success:
		assert.Equal(t, "abc-123", id)
	case err := <-handle.Err:
		t.Fatalf("forward failed: %v", err)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for forward confirmation")
	}

	select {
	case d := <-q2:
		assert.Equal(t, "abc-123", d.Message.MessageID)
		assert.Equal(t, "text/plain", d.Message.ContentType)
		assert.Equal(t, "ns:e1", d.Message.Headers["rascal.originalExchange"])
		assert.Equal(t, "rk1", d.Message.Headers["rascal.originalRoutingKey"])
		assert.Equal(t, false, d.Message.Headers["rascal.restoreRoutingHeaders"])
		assert.Equal(t, "hi", string(d.Message.Body))
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for forwarded message on q2")
	}
}

// TestRunShovelsBridgesSubscriptionToPublication covers §4.1.5: a
// configured shovel subscribes to its source queue and forwards every
// delivery through its publication automatically, without the
// application calling Forward itself.
func TestRunShovelsBridgesSubscriptionToPublication(t *testing.T) {
	raw := map[string]any{
		"vhosts": map[string]any{
			"/": map[string]any{
				"exchanges": map[string]any{"e1": map[string]any{}, "e2": map[string]any{}},
				"queues":    map[string]any{"q1": map[string]any{}, "q2": map[string]any{}},
				"bindings":  map[string]any{"e1-> q1": map[string]any{}, "e2-> q2": map[string]any{}},
			},
		},
		"publications": map[string]any{
			"p2": map[string]any{"vhost": "/", "exchange": "e2"},
		},
		"subscriptions": map[string]any{
			"s1": map[string]any{"vhost": "/", "queue": "q1"},
		},
		"shovels": map[string]any{
			"sh1": map[string]any{"subscription": "s1", "publication": "p2"},
		},
	}
	cfg, err := Configure(raw)
	require.NoError(t, err)

	fake := transport.NewFake()
	broker, err := Create(cfg, Components{Dialer: fake})
	require.NoError(t, err)
	defer broker.Shutdown()

	ctx := context.Background()
	require.NoError(t, broker.RunShovels(ctx))

	watcher, err := fake.Consume(ctx, "q2", "watcher", false)
	require.NoError(t, err)

	// "/e1" is the auto-created publication for vhost "/"'s exchange e1
	// (§4.1.3's <vhost>/<entity> naming rule).
	handle, err := broker.Publish(ctx, "/e1", []byte("shovel me"), PublishOverrides{})
	require.NoError(t, err)
	<-handle.Success

	select {
	case d := <-watcher:
		assert.Equal(t, "shovel me", string(d.Message.Body))
		// the forwarded message names the queue the shovel consumed from,
		// not the exchange/routingKey it was delivered through.
		assert.Equal(t, "q1", d.Message.Headers["rascal.originalQueue"])
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for shovelled message on q2")
	}
}
