package configurator

import "github.com/andrelcunha/rascal-go/topology"

// resolveShovels implements §4.1.5: the `subscription -> publication` name
// is already parsed into fields at the raw stage (normalize.go's
// parseShovelName); here we just apply shovel defaults and verify both
// ends exist.
func resolveShovels(cfg *topology.Config) error {
	for name, shovel := range cfg.Shovels {
		shovel.Name = name
		if err := applyDefaults(shovel, &cfg.Defaults.Shovel); err != nil {
			return newConfigError("shovel %s: %v", name, err)
		}
		shovel.Name = name

		if _, ok := cfg.Subscriptions[shovel.Subscription]; !ok {
			return newConfigError("shovel %s: subscription %s not found", name, shovel.Subscription)
		}
		if _, ok := cfg.Publications[shovel.Publication]; !ok {
			return newConfigError("shovel %s: publication %s not found", name, shovel.Publication)
		}
	}
	return nil
}
