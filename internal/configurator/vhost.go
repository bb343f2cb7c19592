package configurator

import (
	"math/rand"
	"sort"

	"github.com/andrelcunha/rascal-go/topology"
)

// expandVhosts implements §4.1.2: apply defaults, resolve connections,
// exchanges, queues and bindings for every vhost, then promote any
// vhost-local publications/subscriptions up to the root collections.
func expandVhosts(cfg *topology.Config, strategyIndex *hostIndexCache) error {
	pubClaims := newNameClaims("publication")
	subClaims := newNameClaims("subscription")
	for name, vhost := range cfg.Vhosts {
		vhost.Name = name

		if err := applyDefaults(vhost, &cfg.Defaults.Vhost); err != nil {
			return newConfigError("vhost %s: %v", name, err)
		}
		vhost.Name = name // applyDefaults may have copied the zero-valued Name from defaults

		if err := resolveConnections(vhost, &cfg.Defaults.Connection, strategyIndex); err != nil {
			return err
		}

		if err := resolveExchanges(vhost, &cfg.Defaults.Exchange); err != nil {
			return err
		}

		if err := resolveQueues(vhost, &cfg.Defaults.Queue); err != nil {
			return err
		}

		resolveBindings(vhost)

		if err := promoteVhostCollections(cfg, vhost, pubClaims, subClaims); err != nil {
			return err
		}
	}
	return nil
}

func promoteVhostCollections(cfg *topology.Config, vhost *topology.VhostConfig, pubClaims, subClaims nameClaims) error {
	if cfg.Publications == nil {
		cfg.Publications = map[string]*topology.PublicationConfig{}
	}
	if cfg.Subscriptions == nil {
		cfg.Subscriptions = map[string]*topology.SubscriptionConfig{}
	}
	for name, pub := range vhost.Publications {
		if err := pubClaims.claim(name, vhost.Name); err != nil {
			return err
		}
		pub.Name = name
		pub.Vhost = vhost.Name
		cfg.Publications[name] = pub
	}
	for name, sub := range vhost.Subscriptions {
		if err := subClaims.claim(name, vhost.Name); err != nil {
			return err
		}
		sub.Name = name
		sub.Vhost = vhost.Name
		cfg.Subscriptions[name] = sub
	}
	vhost.Publications = nil
	vhost.Subscriptions = nil
	return nil
}

func resolveExchanges(vhost *topology.VhostConfig, defaults *topology.ExchangeConfig) error {
	if vhost.Exchanges == nil {
		vhost.Exchanges = map[string]*topology.ExchangeConfig{}
	}
	if _, ok := vhost.Exchanges[topology.DefaultExchangeName]; !ok {
		vhost.Exchanges[topology.DefaultExchangeName] = &topology.ExchangeConfig{}
	}
	for name, exch := range vhost.Exchanges {
		exch.Name = name
		if err := applyDefaults(exch, defaults); err != nil {
			return newConfigError("vhost %s exchange %s: %v", vhost.Name, name, err)
		}
		exch.Name = name
		exch.FullyQualifiedName = topology.Qualify(name, vhost.Namespace)
	}
	return nil
}

func resolveQueues(vhost *topology.VhostConfig, defaults *topology.QueueConfig) error {
	for name, q := range vhost.Queues {
		q.Name = name
		if err := applyDefaults(q, defaults); err != nil {
			return newConfigError("vhost %s queue %s: %v", vhost.Name, name, err)
		}
		q.Name = name
		q.FullyQualifiedName = topology.Qualify(name, vhost.Namespace, q.ReplyToTag)
	}
	return nil
}

func resolveBindings(vhost *topology.VhostConfig) {
	for name, b := range vhost.Bindings {
		b.Name = name
		if b.QualifyBindingKeys && b.BindingKey != "" {
			b.BindingKey = topology.Qualify(b.BindingKey, vhost.Namespace)
		}
	}
}

// hostIndexCache caches the once-drawn random ordering index per
// "host:port" for the life of the process (§4.1.2.3, §5 "process-wide,
// write-once per host").
type hostIndexCache struct {
	mu      chan struct{}
	indices map[string]int
}

func newHostIndexCache() *hostIndexCache {
	c := &hostIndexCache{mu: make(chan struct{}, 1), indices: map[string]int{}}
	c.mu <- struct{}{}
	return c
}

func (c *hostIndexCache) indexFor(hostPort string) int {
	<-c.mu
	defer func() { c.mu <- struct{}{} }()
	if idx, ok := c.indices[hostPort]; ok {
		return idx
	}
	idx := rand.Int()
	c.indices[hostPort] = idx
	return idx
}

func sortConnectionsByIndex(conns []*topology.ConnectionConfig) {
	sort.SliceStable(conns, func(i, j int) bool {
		return conns[i].Index < conns[j].Index
	})
	for _, c := range conns {
		c.Index = 0
	}
}
