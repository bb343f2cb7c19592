package configurator

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConfigureDefaultPublicationCreation covers scenario S1: a bare
// exchange yields an auto-created publication named after the vhost/entity
// pair, with a display-facing destination that always carries the
// namespace separator, even when the namespace is empty.
func TestConfigureDefaultPublicationCreation(t *testing.T) {
	raw := map[string]any{
		"vhosts": map[string]any{
			"/": map[string]any{
				"exchanges": map[string]any{
					"e1": map[string]any{},
				},
			},
		},
	}

	cfg, err := Configure(raw)
	require.NoError(t, err)

	pub, ok := cfg.Publications["/e1"]
	require.True(t, ok, "expected auto-created publication /e1")
	assert.Equal(t, "/", pub.Vhost)
	assert.Equal(t, "e1", pub.Exchange)
	assert.True(t, pub.AutoCreated)
	assert.Equal(t, ":e1", pub.Destination)
}

// TestConfigureDuplicatePublicationAcrossVhosts covers scenario S2: two
// vhosts each declaring a publication named p1 fail configuration with the
// literal error text §7 mandates.
func TestConfigureDuplicatePublicationAcrossVhosts(t *testing.T) {
	raw := map[string]any{
		"vhosts": map[string]any{
			"/": map[string]any{
				"exchanges":    map[string]any{"e1": map[string]any{}},
				"publications": map[string]any{"p1": map[string]any{"exchange": "e1"}},
			},
			"v2": map[string]any{
				"exchanges":    map[string]any{"e1": map[string]any{}},
				"publications": map[string]any{"p1": map[string]any{"exchange": "e1"}},
			},
		},
	}

	_, err := Configure(raw)
	require.Error(t, err)
	assert.Equal(t, "Duplicate publication: p1", err.Error())
}

// TestConfigureBindingFanOut covers scenario S3: a binding declaring
// multiple keys fans out into one binding per key, named
// `<origName>:<key>` with bindingKey set to that key.
func TestConfigureBindingFanOut(t *testing.T) {
	raw := map[string]any{
		"vhosts": map[string]any{
			"/": map[string]any{
				"exchanges": map[string]any{"e1": map[string]any{}},
				"queues":    map[string]any{"q1": map[string]any{}},
				"bindings": map[string]any{
					"e1[ k1, k2 ]-> q1": map[string]any{},
				},
			},
		},
	}

	cfg, err := Configure(raw)
	require.NoError(t, err)

	vhost := cfg.Vhosts["/"]
	require.Len(t, vhost.Bindings, 2)

	b1, ok := vhost.Bindings["e1[ k1, k2 ]-> q1:k1"]
	require.True(t, ok)
	assert.Equal(t, "k1", b1.BindingKey)
	assert.Equal(t, "e1", b1.Source)
	assert.Equal(t, "q1", b1.Destination)

	b2, ok := vhost.Bindings["e1[ k1, k2 ]-> q1:k2"]
	require.True(t, ok)
	assert.Equal(t, "k2", b2.BindingKey)
}

// TestConfigureNamespaceQualificationWithReplyTo covers scenario S4: a
// replyTo queue's fullyQualifiedName is namespace:name:<uuid>, and a
// publication's replyTo field resolves to that exact FQN.
func TestConfigureNamespaceQualificationWithReplyTo(t *testing.T) {
	raw := map[string]any{
		"vhosts": map[string]any{
			"/": map[string]any{
				"namespace": "ns",
				"exchanges": map[string]any{"e1": map[string]any{}},
				"queues": map[string]any{
					"q1": map[string]any{"replyTo": true},
				},
				"publications": map[string]any{
					"p1": map[string]any{"exchange": "e1", "replyTo": "q1"},
				},
			},
		},
	}

	cfg, err := Configure(raw)
	require.NoError(t, err)

	q1 := cfg.Vhosts["/"].Queues["q1"]
	require.NotEmpty(t, q1.ReplyToTag)
	assert.True(t, strings.HasPrefix(q1.FullyQualifiedName, "ns:q1:"))
	assert.Equal(t, "ns:q1:"+q1.ReplyToTag, q1.FullyQualifiedName)

	pub := cfg.Publications["p1"]
	assert.Equal(t, q1.FullyQualifiedName, pub.ReplyTo)
}

// TestConfigureUnknownReplyQueue covers §7's literal error text for a
// publication whose replyTo names a queue the vhost doesn't have.
func TestConfigureUnknownReplyQueue(t *testing.T) {
	raw := map[string]any{
		"vhosts": map[string]any{
			"/": map[string]any{
				"exchanges":    map[string]any{"e1": map[string]any{}},
				"publications": map[string]any{"p1": map[string]any{"exchange": "e1", "replyTo": "q9"}},
			},
		},
	}

	_, err := Configure(raw)
	require.Error(t, err)
	assert.Equal(t, "Publication: p1 refers to an unknown reply queue: q9", err.Error())
}

// TestConfigureUnknownSubscriptionQueue covers the subscription half of the
// same rule.
func TestConfigureUnknownSubscriptionQueue(t *testing.T) {
	raw := map[string]any{
		"vhosts": map[string]any{
			"/": map[string]any{
				"subscriptions": map[string]any{"s1": map[string]any{"queue": "q9"}},
			},
		},
	}

	_, err := Configure(raw)
	require.Error(t, err)
	assert.Equal(t, "Subscription: s1 refers to an unknown queue: q9", err.Error())
}

// TestConfigureIsIdempotent covers invariant 7: feeding an already
// configured result back through Configure is a fixed point.
func TestConfigureIsIdempotent(t *testing.T) {
	raw := map[string]any{
		"vhosts": map[string]any{
			"/": map[string]any{
				"exchanges": map[string]any{"e1": map[string]any{}},
			},
		},
	}

	first, err := Configure(raw)
	require.NoError(t, err)

	encoded, err := json.Marshal(first)
	require.NoError(t, err)
	var reraw map[string]any
	require.NoError(t, json.Unmarshal(encoded, &reraw))

	second, err := Configure(reraw)
	require.NoError(t, err)

	assert.Len(t, second.Publications, len(first.Publications))
	firstPub := first.Publications["/e1"]
	secondPub := second.Publications["/e1"]
	require.NotNil(t, secondPub)
	assert.Equal(t, firstPub.Destination, secondPub.Destination)
	assert.Equal(t, firstPub.Vhost, secondPub.Vhost)
	assert.Equal(t, firstPub.AutoCreated, secondPub.AutoCreated)

	firstExch := first.Vhosts["/"].Exchanges["e1"]
	secondExch := second.Vhosts["/"].Exchanges["e1"]
	assert.Equal(t, firstExch.FullyQualifiedName, secondExch.FullyQualifiedName)
}

// TestConfigureExactlyOneOfExchangeOrQueue covers invariant 4 for an
// explicit publication naming a queue instead of an exchange.
func TestConfigureExactlyOneOfExchangeOrQueue(t *testing.T) {
	raw := map[string]any{
		"vhosts": map[string]any{
			"/": map[string]any{
				"queues":       map[string]any{"q1": map[string]any{}},
				"publications": map[string]any{"p1": map[string]any{"queue": "q1"}},
			},
		},
	}

	cfg, err := Configure(raw)
	require.NoError(t, err)
	pub := cfg.Publications["p1"]
	assert.Empty(t, pub.Exchange)
	assert.Equal(t, "q1", pub.Queue)
}
