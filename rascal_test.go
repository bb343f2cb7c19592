package rascal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigParsesYAMLAndValidates(t *testing.T) {
	yamlDoc := []byte(`
vhosts:
  /:
    exchanges:
      e1: {}
    queues:
      q1: {}
    bindings:
      "e1-> q1": {}
publications:
  p1:
    vhost: /
    exchange: e1
subscriptions:
  s1:
    vhost: /
    queue: q1
`)

	cfg, err := LoadConfig(yamlDoc)
	require.NoError(t, err)

	pub, ok := cfg.Publications["p1"]
	require.True(t, ok)
	assert.Equal(t, "e1", pub.Exchange)

	sub, ok := cfg.Subscriptions["s1"]
	require.True(t, ok)
	assert.Equal(t, "q1", sub.Source)
}

func TestLoadConfigRejectsInvalidYAML(t *testing.T) {
	_, err := LoadConfig([]byte("not: [valid"))
	require.Error(t, err)
}

func TestConfigureSurfacesValidationErrors(t *testing.T) {
	raw := map[string]any{
		"publications": map[string]any{
			"p1": map[string]any{"vhost": "/", "exchange": "e1"},
		},
	}
	_, err := Configure(raw)
	require.Error(t, err)
	assert.Equal(t, "Publication: p1 refers to an unknown vhost: /", err.Error())
}
