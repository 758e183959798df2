package config

import (
	"fmt"
	"time"

	"github.com/mvp-joe/cprotos/internal/protos"
)

// DefaultConfigName is the base name of the project config file, searched
// for as .cprotos.yaml / .cprotos.yml in the working directory.
const DefaultConfigName = ".cprotos"

// Config represents the complete cprotos configuration.
// It can be loaded from .cprotos.yaml with environment variable and flag overrides.
type Config struct {
	Debug  bool         `yaml:"debug" mapstructure:"debug"`
	Filter FilterConfig `yaml:"filter" mapstructure:"filter"`
	Watch  WatchConfig  `yaml:"watch" mapstructure:"watch"`
}

// FilterConfig selects functions by name. Patterns use glob syntax
// (*, ?, [abc], {a,b}).
type FilterConfig struct {
	Include []string `yaml:"include" mapstructure:"include"` // keep only matching names; empty keeps all
	Exclude []string `yaml:"exclude" mapstructure:"exclude"` // drop matching names

	names    *protos.NameFilter
	compiled bool
}

// NameFilter compiles Include and Exclude into a name filter. The result is
// cached, so Validate and later callers share one compilation; changes to
// the pattern lists after the first call are not seen. A nil filter keeps
// every name.
func (f *FilterConfig) NameFilter() (*protos.NameFilter, error) {
	if f.compiled {
		return f.names, nil
	}

	names, err := protos.NewNameFilter(f.Include, f.Exclude)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}
	f.names, f.compiled = names, true
	return names, nil
}

// WatchConfig configures --watch.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" mapstructure:"debounce"` // quiet period before re-running
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Debug: false,
		Filter: FilterConfig{
			Include: []string{},
			Exclude: []string{},
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
	}
}
