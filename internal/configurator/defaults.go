package configurator

import "dario.cat/mergo"

// applyDefaults fills zero-valued fields of entry from defaults, leaving
// any field the caller already set untouched. Used wherever §4.1 says
// "apply defaults" for a single entity (vhost, exchange, queue,
// publication, subscription, shovel, counter).
func applyDefaults(entry, defaults any) error {
	return mergo.Merge(entry, defaults)
}
