// Package configurator implements the Configurator component of §4.1: a
// pure, synchronous transform from a possibly sparse user configuration
// tree into the fully resolved topology.Config described in §3. Any
// failure along the way is reported as a *ConfigurationError.
package configurator

import "github.com/andrelcunha/rascal-go/topology"

// hostIndexes is shared by every Configure call, so each host:port keeps
// the random failover index it first drew for the life of the process.
var hostIndexes = newHostIndexCache()

// Configure runs the full pipeline: shape normalization, baseline merge,
// vhost expansion, auto-publication/subscription synthesis, and
// publication/subscription/shovel/counter resolution (§4.1.1-§4.1.6).
func Configure(raw map[string]any) (*topology.Config, error) {
	normalized, err := normalizeRaw(raw)
	if err != nil {
		return nil, err
	}

	var user topology.Config
	if err := decodeInto(normalized, &user); err != nil {
		return nil, newConfigError("decoding configuration: %v", err)
	}

	cfg, err := mergeBaseline(&user)
	if err != nil {
		return nil, newConfigError("merging baseline defaults: %v", err)
	}

	if err := expandVhosts(cfg, hostIndexes); err != nil {
		return nil, err
	}

	autoCreatePublicationsAndSubscriptions(cfg)

	if err := resolvePublications(cfg); err != nil {
		return nil, err
	}
	if err := resolveSubscriptions(cfg); err != nil {
		return nil, err
	}
	if err := resolveShovels(cfg); err != nil {
		return nil, err
	}
	if err := resolveCounters(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
