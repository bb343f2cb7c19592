package rascal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrelcunha/rascal-go/internal/transport"
)

func basicTopology(t *testing.T) (*Config, *transport.Fake) {
	t.Helper()
	raw := map[string]any{
		"vhosts": map[string]any{
			"/": map[string]any{
				"exchanges": map[string]any{"e1": map[string]any{}},
				"queues":    map[string]any{"q1": map[string]any{}},
				"bindings":  map[string]any{"e1-> q1": map[string]any{}},
			},
		},
		"publications": map[string]any{
			"p1": map[string]any{"vhost": "/", "exchange": "e1"},
		},
		"subscriptions": map[string]any{
			"s1": map[string]any{"vhost": "/", "queue": "q1"},
		},
	}
	cfg, err := Configure(raw)
	require.NoError(t, err)
	return cfg, transport.NewFake()
}

func TestBrokerPublishDeliversToBoundQueue(t *testing.T) {
	cfg, fake := basicTopology(t)
	broker, err := Create(cfg, Components{Dialer: fake})
	require.NoError(t, err)
	defer broker.Shutdown()

	ctx := context.Background()
	session, err := broker.Subscribe(ctx, "s1", SubscribeOverrides{})
	require.NoError(t, err)

	handle, err := broker.Publish(ctx, "p1", "hello", PublishOverrides{})
	require.NoError(t, err)

	select {
	case id := <-handle.Success:
		assert.NotEmpty(t, id)
	case err := <-handle.Err:
		t.Fatalf("publish failed: %v", err)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for publish confirmation")
	}

	select {
	case msg := <-session.Messages:
		assert.Equal(t, "hello", string(msg.Content))
		assert.Equal(t, "text/plain", msg.Message.ContentType)
		require.NoError(t, msg.Ack())
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delivered message")
	}
}

func TestBrokerPublishUnknownName(t *testing.T) {
	cfg, fake := basicTopology(t)
	broker, err := Create(cfg, Components{Dialer: fake})
	require.NoError(t, err)
	defer broker.Shutdown()

	_, err = broker.Publish(context.Background(), "missing", "x", PublishOverrides{})
	require.Error(t, err)
	assert.Equal(t, "Unknown publication: missing", err.Error())
}

func TestBrokerSubscribeUnknownName(t *testing.T) {
	cfg, fake := basicTopology(t)
	broker, err := Create(cfg, Components{Dialer: fake})
	require.NoError(t, err)
	defer broker.Shutdown()

	_, err = broker.Subscribe(context.Background(), "missing", SubscribeOverrides{})
	require.Error(t, err)
	assert.Equal(t, "Unknown subscription: missing", err.Error())
}

func TestBrokerGetFullyQualifiedName(t *testing.T) {
	cfg, fake := basicTopology(t)
	broker, err := Create(cfg, Components{Dialer: fake})
	require.NoError(t, err)
	defer broker.Shutdown()

	fqn, err := broker.GetFullyQualifiedName("/", "e1")
	require.NoError(t, err)
	assert.Equal(t, "e1", fqn)

	_, err = broker.GetFullyQualifiedName("missing", "e1")
	require.Error(t, err)
	assert.Equal(t, "Unknown vhost: missing", err.Error())
}

func TestBrokerUnsubscribeAllCancelsSessions(t *testing.T) {
	cfg, fake := basicTopology(t)
	broker, err := Create(cfg, Components{Dialer: fake})
	require.NoError(t, err)
	defer broker.Shutdown()

	session, err := broker.Subscribe(context.Background(), "s1", SubscribeOverrides{})
	require.NoError(t, err)

	broker.UnsubscribeAll()

	select {
	case <-session.Cancelled:
	case <-time.After(time.Second):
		t.Fatal("expected session to be cancelled")
	}
}
