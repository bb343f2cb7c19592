package configurator

import (
	"dario.cat/mergo"

	"github.com/andrelcunha/rascal-go/topology"
)

// mergeBaseline deep-merges the user config on top of the built-in
// baseline (§4.1.1). mergo.Merge with WithOverride gives exactly the
// spec's semantics: destination (here, the user config merged over the
// baseline copy) wins on scalars, maps recurse key-by-key, and slices are
// replaced wholesale rather than concatenated.
func mergeBaseline(user *topology.Config) (*topology.Config, error) {
	result := defaultBaseline()
	if user == nil {
		return result, nil
	}
	if err := mergo.Merge(result, user, mergo.WithOverride); err != nil {
		return nil, newConfigError("failed to merge configuration: %v", err)
	}
	return result, nil
}
