package configurator

import (
	"fmt"

	"github.com/andrelcunha/rascal-go/topology"
)

// resolveConnections implements §4.1.2.3: normalize `connection`/
// `connections` into one array (already done in normalizeRaw), merge each
// entry's attributes (URL-derived over config attrs over vhost defaults),
// recompose url/loggableUrl, build the sibling management block, and
// assign a failover index (fixed = input order, otherwise a stable
// per-host random order).
func resolveConnections(vhost *topology.VhostConfig, defaults *topology.ConnectionConfig, cache *hostIndexCache) error {
	for i, entry := range vhost.Connections {
		base := cloneConnection(defaults)
		if err := applyDefaults(entry, base); err != nil {
			return newConfigError("vhost %s connection %d: %v", vhost.Name, i, err)
		}
		merged := entry

		if merged.URL != "" {
			urlAttrs, err := topology.ParseConnectionURL(merged.URL)
			if err != nil {
				return newConfigError("vhost %s connection %d: %v", vhost.Name, i, err)
			}
			urlAttrs.PreEncoded = merged.PreEncoded
			urlAttrs.SocketOptions = merged.SocketOptions
			urlAttrs.Management = merged.Management
			if err := applyDefaults(urlAttrs, merged); err != nil {
				return newConfigError("vhost %s connection %d: %v", vhost.Name, i, err)
			}
			merged = urlAttrs
		}
		if merged.Protocol == "" {
			merged.Protocol = "amqp"
		}
		if merged.Hostname == "" {
			merged.Hostname = "localhost"
		}
		if merged.Port == 0 {
			merged.Port = topology.DefaultAMQPPort
		}

		merged.URL = topology.RecomposeURL(merged)
		merged.LoggableURL = topology.LoggableURL(merged.URL)

		resolveManagement(merged)

		if vhost.ConnectionStrategy == "fixed" {
			merged.Index = i
		} else {
			merged.Index = cache.indexFor(fmt.Sprintf("%s:%d", merged.Hostname, merged.Port))
		}

		*vhost.Connections[i] = *merged
	}
	sortConnectionsByIndex(vhost.Connections)
	return nil
}

func resolveManagement(c *topology.ConnectionConfig) {
	m := &c.Management
	if m.Hostname == "" {
		m.Hostname = c.Hostname
	}
	user := m.User
	password := m.Password
	if user == "" {
		user = c.User
		password = c.Password
	}
	if m.Port == 0 {
		m.Port = 15672
	}
	scheme := "http"
	if c.Protocol == "amqps" {
		scheme = "https"
	}
	auth := ""
	if user != "" {
		auth = user
		if password != "" {
			auth += ":" + password
		}
		auth += "@"
	}
	m.URL = fmt.Sprintf("%s://%s%s:%d/api", scheme, auth, m.Hostname, m.Port)
	m.LoggableURL = topology.LoggableURL(m.URL)
}

func cloneConnection(c *topology.ConnectionConfig) *topology.ConnectionConfig {
	clone := *c
	if c.Options != nil {
		clone.Options = make(map[string]string, len(c.Options))
		for k, v := range c.Options {
			clone.Options[k] = v
		}
	}
	return &clone
}
