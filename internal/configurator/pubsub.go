package configurator

import (
	"github.com/andrelcunha/rascal-go/topology"
)

// autoCreatePublicationsAndSubscriptions implements §4.1.3: every
// vhost/exchange pair and vhost/queue pair gets a same-named auto-created
// publication/subscription unless an explicit entry already claims that
// name.
func autoCreatePublicationsAndSubscriptions(cfg *topology.Config) {
	if cfg.Publications == nil {
		cfg.Publications = map[string]*topology.PublicationConfig{}
	}
	if cfg.Subscriptions == nil {
		cfg.Subscriptions = map[string]*topology.SubscriptionConfig{}
	}

	for vhostName, vhost := range cfg.Vhosts {
		for exchName := range vhost.Exchanges {
			name := autoName(vhostName, exchName)
			if _, exists := cfg.Publications[name]; exists {
				continue
			}
			cfg.Publications[name] = &topology.PublicationConfig{
				Name:        name,
				Vhost:       vhostName,
				Exchange:    exchName,
				AutoCreated: true,
			}
		}
		for queueName := range vhost.Queues {
			name := autoName(vhostName, queueName)
			if _, exists := cfg.Subscriptions[name]; exists {
				continue
			}
			cfg.Subscriptions[name] = &topology.SubscriptionConfig{
				Name:        name,
				Vhost:       vhostName,
				Queue:       queueName,
				AutoCreated: true,
			}
		}
	}
}

// autoName implements the `<vhost>/<entity>` naming rule, collapsing to
// `/<entity>` when the vhost is already named `/`.
func autoName(vhost, entity string) string {
	if vhost == "/" {
		return "/" + entity
	}
	return vhost + "/" + entity
}

// destinationName formats a publication's display-facing destination
// string (scenario S1: a namespace-less exchange `e1` yields destination
// `:e1`, not the bare `e1` that topology.Qualify's identity rule gives
// its fullyQualifiedName). Unlike Qualify, the namespace separator is
// always present; wire-level routing uses the looked-up entity's
// FullyQualifiedName instead, not this string.
func destinationName(namespace, name string) string {
	return namespace + ":" + name
}

// resolvePublications implements the publication half of §4.1.4: apply
// defaults and resolve destination/replyTo FQNs. Name uniqueness across
// vhosts is enforced earlier, in promoteVhostCollections.
func resolvePublications(cfg *topology.Config) error {
	for name, pub := range cfg.Publications {
		pub.Name = name
		if err := applyDefaults(pub, &cfg.Defaults.Publication); err != nil {
			return newConfigError("publication %s: %v", name, err)
		}
		pub.Name = name

		vhost, ok := cfg.Vhosts[pub.Vhost]
		if !ok {
			continue
		}

		if pub.Queue != "" {
			if _, ok := vhost.Queues[pub.Queue]; !ok {
				return newConfigError("publication %s: queue %s not found in vhost %s", name, pub.Queue, pub.Vhost)
			}
			pub.Destination = destinationName(vhost.Namespace, pub.Queue)
		} else if _, ok := vhost.Exchanges[pub.Exchange]; ok {
			pub.Destination = destinationName(vhost.Namespace, pub.Exchange)
		}

		if pub.ReplyTo != "" {
			q, ok := vhost.Queues[pub.ReplyTo]
			if !ok {
				return newConfigError("Publication: %s refers to an unknown reply queue: %s", name, pub.ReplyTo)
			}
			pub.ReplyTo = q.FullyQualifiedName
		}
	}
	return nil
}

// resolveSubscriptions implements the subscription half of §4.1.4: apply
// defaults and resolve the source queue's FQN. Name uniqueness across
// vhosts is enforced earlier, in promoteVhostCollections.
func resolveSubscriptions(cfg *topology.Config) error {
	for name, sub := range cfg.Subscriptions {
		sub.Name = name
		if err := applyDefaults(sub, &cfg.Defaults.Subscription); err != nil {
			return newConfigError("subscription %s: %v", name, err)
		}
		sub.Name = name

		vhost, ok := cfg.Vhosts[sub.Vhost]
		if !ok {
			continue
		}
		q, ok := vhost.Queues[sub.Queue]
		if !ok {
			return newConfigError("Subscription: %s refers to an unknown queue: %s", name, sub.Queue)
		}
		sub.Source = q.FullyQualifiedName

		if sub.Encryption == nil && len(cfg.Encryption) > 0 {
			sub.Encryption = cfg.Encryption
		}
	}
	return nil
}

// nameClaims tracks, for the uniqueness-per-name-across-vhosts rule in
// §4.1.4/scenario S2, which vhost first claimed a given publication or
// subscription name. kind is "publication" or "subscription", matching
// §7's literal error text (`Duplicate publication: p1`).
type nameClaims struct {
	kind   string
	owners map[string]string
}

func newNameClaims(kind string) nameClaims {
	return nameClaims{kind: kind, owners: map[string]string{}}
}

func (c nameClaims) claim(name, vhost string) error {
	if owner, ok := c.owners[name]; ok && owner != vhost {
		return newConfigError("Duplicate %s: %s", c.kind, name)
	}
	c.owners[name] = vhost
	return nil
}
