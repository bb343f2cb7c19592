package configurator

import "github.com/andrelcunha/rascal-go/topology"

// resolveCounters implements §4.1.6: the counter's `type` is already
// defaulted to its own name at the raw stage (normalize.go); here we look
// up `defaults.redeliveries.counters.<type>` and merge it in, entry
// values winning.
func resolveCounters(cfg *topology.Config) error {
	for name, counter := range cfg.Redeliveries.Counters {
		counter.Name = name
		if counter.Type == "" {
			counter.Type = name
		}
		if typeDefaults, ok := cfg.Defaults.Redeliveries.Counters[counter.Type]; ok {
			if err := applyDefaults(counter, typeDefaults); err != nil {
				return newConfigError("counter %s: %v", name, err)
			}
		}
		counter.Name = name
		counter.Type = typeOrName(counter.Type, name)
	}
	return nil
}

func typeOrName(t, name string) string {
	if t == "" {
		return name
	}
	return t
}
