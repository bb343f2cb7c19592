// Package rascal is a Go port of the Rascal configuration/lifecycle model
// for AMQP 0-9-1 clients (see SPEC_FULL.md): a Configurator that expands a
// sparse topology description into a fully resolved one, a Validator that
// checks it, and a Broker that owns the live topology and exposes the
// verb surface applications call (create, publish, subscribe, shovel,
// teardown). internal/transport is the only package that talks AMQP on
// the wire; everything above it works in terms of names and resolved
// configuration.
package rascal

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/andrelcunha/rascal-go/internal/configurator"
	"github.com/andrelcunha/rascal-go/internal/validator"
	"github.com/andrelcunha/rascal-go/topology"
)

// Config is the fully resolved topology tree (§3). Applications typically
// obtain one through LoadConfig rather than building it directly, since
// the raw/sparse input shapes in §9 only exist before configuration.
type Config = topology.Config

// LoadConfig parses YAML topology configuration bytes (§6), runs the
// Configurator (§4.1) and Validator (§4.2), and returns the fully
// resolved Config a Broker can be created from.
func LoadConfig(data []byte) (*Config, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing topology yaml: %w", err)
	}
	return Configure(raw)
}

// Configure runs the Configurator and Validator over an already-decoded
// raw topology tree (map[string]any, e.g. from JSON or hand-built test
// fixtures) instead of YAML bytes.
func Configure(raw map[string]any) (*Config, error) {
	cfg, err := configurator.Configure(raw)
	if err != nil {
		return nil, err
	}
	if err := validator.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
