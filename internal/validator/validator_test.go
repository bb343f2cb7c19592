package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrelcunha/rascal-go/topology"
)

func baseConfig() *topology.Config {
	return &topology.Config{
		Vhosts: map[string]*topology.VhostConfig{
			"/": {
				Name: "/",
				Connections: []*topology.ConnectionConfig{
					{Protocol: "amqp", Hostname: "localhost"},
				},
				Exchanges: map[string]*topology.ExchangeConfig{
					"e1": {Name: "e1", FullyQualifiedName: "e1"},
				},
				Queues: map[string]*topology.QueueConfig{
					"q1": {Name: "q1", FullyQualifiedName: "q1"},
				},
			},
		},
		Publications: map[string]*topology.PublicationConfig{
			"p1": {Name: "p1", Vhost: "/", Exchange: "e1"},
		},
		Subscriptions: map[string]*topology.SubscriptionConfig{
			"s1": {Name: "s1", Vhost: "/", Queue: "q1"},
		},
	}
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	assert.NoError(t, Validate(baseConfig()))
}

func TestValidatePublicationWithBothExchangeAndQueue(t *testing.T) {
	cfg := baseConfig()
	cfg.Publications["p1"].Queue = "q1"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Equal(t, "Publication: p1 declares both an exchange and a queue", err.Error())
}

func TestValidatePublicationUnknownExchange(t *testing.T) {
	cfg := baseConfig()
	cfg.Publications["p1"].Exchange = "missing"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Equal(t, "Publication: p1 refers to an unknown exchange: missing", err.Error())
}

func TestValidatePublicationUnknownReplyQueue(t *testing.T) {
	cfg := baseConfig()
	cfg.Publications["p1"].ReplyTo = "q9"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Equal(t, "Publication: p1 refers to an unknown reply queue: q9", err.Error())
}

func TestValidateSubscriptionUnknownQueue(t *testing.T) {
	cfg := baseConfig()
	cfg.Subscriptions["s1"].Queue = "missing"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Equal(t, "Subscription: s1 refers to an unknown queue: missing", err.Error())
}

func TestValidateShovelUnknownSubscription(t *testing.T) {
	cfg := baseConfig()
	cfg.Shovels = map[string]*topology.ShovelConfig{
		"sh1": {Name: "sh1", Subscription: "missing", Publication: "p1"},
	}

	err := Validate(cfg)
	require.Error(t, err)
	assert.Equal(t, "Shovel: sh1 refers to an unknown subscription: missing", err.Error())
}

func TestValidateCounterUnknownType(t *testing.T) {
	cfg := baseConfig()
	cfg.Redeliveries.Counters = map[string]*topology.CounterConfig{
		"c1": {Name: "c1", Type: "bogus"},
	}

	err := Validate(cfg)
	require.Error(t, err)
	assert.Equal(t, "Counter: c1 has an unknown type: bogus", err.Error())
}

func TestValidateConnectionUnsupportedProtocol(t *testing.T) {
	cfg := baseConfig()
	cfg.Vhosts["/"].Connections[0].Protocol = "http"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Equal(t, "Vhost: / connection 0 has an unsupported protocol: http", err.Error())
}
