// Package validator implements the Validator component of §4.2: a second,
// pure pass over an already-merged-and-expanded topology.Config enforcing
// semantic rules that a deep merge cannot express on its own.
package validator

import "github.com/andrelcunha/rascal-go/topology"

// knownCounterTypes is the component registry referenced by §4.2's
// "Every Counter's type is known to the component registry" rule. It
// mirrors the concrete backends internal/counters ships, plus the
// "prometheus" type internal/metrics registers.
var knownCounterTypes = map[string]bool{
	"stub":       true,
	"inmemory":   true,
	"sqlite":     true,
	"prometheus": true,
}

// Validate runs every rule in §4.2 and returns the first violation found,
// or nil when the config is semantically sound.
func Validate(cfg *topology.Config) error {
	if err := validatePublications(cfg); err != nil {
		return err
	}
	if err := validateSubscriptions(cfg); err != nil {
		return err
	}
	if err := validateShovels(cfg); err != nil {
		return err
	}
	if err := validateCounters(cfg); err != nil {
		return err
	}
	if err := validateConnections(cfg); err != nil {
		return err
	}
	return nil
}

func validatePublications(cfg *topology.Config) error {
	for name, pub := range cfg.Publications {
		hasExchange := pub.Exchange != "" || (pub.Exchange == "" && pub.Queue == "")
		hasQueue := pub.Queue != ""
		if hasExchange && hasQueue {
			return newValidationError("Publication: %s declares both an exchange and a queue", name)
		}

		vhost, ok := cfg.Vhosts[pub.Vhost]
		if !ok {
			return newValidationError("Publication: %s refers to an unknown vhost: %s", name, pub.Vhost)
		}
		if hasQueue {
			if _, ok := vhost.Queues[pub.Queue]; !ok {
				return newValidationError("Publication: %s refers to an unknown queue: %s", name, pub.Queue)
			}
		} else if _, ok := vhost.Exchanges[pub.Exchange]; !ok {
			return newValidationError("Publication: %s refers to an unknown exchange: %s", name, pub.Exchange)
		}
		if pub.ReplyTo != "" && !fqnKnown(vhost, pub.ReplyTo) {
			return newValidationError("Publication: %s refers to an unknown reply queue: %s", name, pub.ReplyTo)
		}
	}
	return nil
}

func validateSubscriptions(cfg *topology.Config) error {
	for name, sub := range cfg.Subscriptions {
		vhost, ok := cfg.Vhosts[sub.Vhost]
		if !ok {
			return newValidationError("Subscription: %s refers to an unknown vhost: %s", name, sub.Vhost)
		}
		if _, ok := vhost.Queues[sub.Queue]; !ok {
			return newValidationError("Subscription: %s refers to an unknown queue: %s", name, sub.Queue)
		}
	}
	return nil
}

func validateShovels(cfg *topology.Config) error {
	for name, shovel := range cfg.Shovels {
		if _, ok := cfg.Subscriptions[shovel.Subscription]; !ok {
			return newValidationError("Shovel: %s refers to an unknown subscription: %s", name, shovel.Subscription)
		}
		if _, ok := cfg.Publications[shovel.Publication]; !ok {
			return newValidationError("Shovel: %s refers to an unknown publication: %s", name, shovel.Publication)
		}
	}
	return nil
}

func validateCounters(cfg *topology.Config) error {
	for name, counter := range cfg.Redeliveries.Counters {
		if !knownCounterTypes[counter.Type] {
			return newValidationError("Counter: %s has an unknown type: %s", name, counter.Type)
		}
	}
	return nil
}

func validateConnections(cfg *topology.Config) error {
	for vhostName, vhost := range cfg.Vhosts {
		for i, conn := range vhost.Connections {
			if conn.Protocol != "amqp" && conn.Protocol != "amqps" {
				return newValidationError("Vhost: %s connection %d has an unsupported protocol: %s", vhostName, i, conn.Protocol)
			}
		}
	}
	return nil
}

func fqnKnown(vhost *topology.VhostConfig, fqn string) bool {
	for _, q := range vhost.Queues {
		if q.FullyQualifiedName == fqn {
			return true
		}
	}
	return false
}
