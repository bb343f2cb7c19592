package configurator

import "github.com/andrelcunha/rascal-go/topology"

// defaultBaseline mirrors the built-in baseline merged underneath every
// user config (§4.1.1): default vhost options, default publication /
// subscription options, default counters, default connection options.
func defaultBaseline() *topology.Config {
	return &topology.Config{
		Defaults: topology.DefaultsConfig{
			Vhost: topology.VhostConfig{
				Namespace:          "",
				Concurrency:        1,
				ConnectionStrategy: "random",
				PublicationChannelPools: map[string]int{
					"regularPool": 1,
					"confirmPool": 1,
				},
			},
			Exchange: topology.ExchangeConfig{
				Type:    "topic",
				Options: map[string]any{"durable": true},
			},
			Queue: topology.QueueConfig{
				Options: map[string]any{"durable": true},
			},
			Publication: topology.PublicationConfig{
				Confirm: boolPtr(true),
			},
			Subscription: topology.SubscriptionConfig{
				Prefetch:     10,
				Redeliveries: "stub",
			},
			Connection: topology.ConnectionConfig{
				Protocol: "amqp",
				Hostname: "localhost",
				Port:     topology.DefaultAMQPPort,
				User:     "guest",
				Password: "guest",
				Options: map[string]string{
					"heartbeat": "10",
				},
			},
			Redeliveries: topology.RedeliveriesConfig{
				Counters: map[string]*topology.CounterConfig{
					"stub":     {Type: "stub"},
					"inmemory": {Type: "inmemory"},
					"sqlite":   {Type: "sqlite", Options: map[string]any{"path": "rascal-redeliveries.db"}},
				},
			},
		},
	}
}

func boolPtr(b bool) *bool { return &b }
