package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file, environment variables and flags.
	// Priority: defaults → config file → environment variables → flags
	Load() (*Config, error)

	// ConfigFileUsed returns the config file read by the last Load, if any.
	ConfigFileUsed() string
}

// LoaderOption configures a Loader.
type LoaderOption func(*loader)

// WithConfigFile reads path instead of searching for .cprotos.yaml.
// Unlike the search, a missing explicit file is an error.
func WithConfigFile(path string) LoaderOption {
	return func(l *loader) {
		l.configFile = path
	}
}

// WithFlag binds a command line flag to a config key. The flag only wins
// when it was set explicitly.
func WithFlag(key string, flag *pflag.Flag) LoaderOption {
	return func(l *loader) {
		if flag != nil {
			l.flags[key] = flag
		}
	}
}

type loader struct {
	rootDir    string
	configFile string
	flags      map[string]*pflag.Flag
	used       string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string, opts ...LoaderOption) Loader {
	l := &loader{
		rootDir: rootDir,
		flags:   make(map[string]*pflag.Flag),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Explicitly set flags
// 2. Environment variables (CPROTOS_*)
// 3. Config file (.cprotos.yaml / .cprotos.yml, or the explicit file)
// 4. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(l.rootDir)
	}

	// Enable environment variable overrides
	v.SetEnvPrefix("CPROTOS")
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., CPROTOS_WATCH_DEBOUNCE)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("debug")
	v.BindEnv("filter.include")
	v.BindEnv("filter.exclude")
	v.BindEnv("watch.debounce")

	setDefaults(v)

	for key, flag := range l.flags {
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", flag.Name, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable when searching - we'll use defaults + env vars
		var notFound viper.ConfigFileNotFoundError
		if l.configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	l.used = v.ConfigFileUsed()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ConfigFileUsed returns the path of the config file read by Load.
func (l *loader) ConfigFileUsed() string {
	return l.used
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("debug", defaults.Debug)
	v.SetDefault("filter.include", defaults.Filter.Include)
	v.SetDefault("filter.exclude", defaults.Filter.Exclude)
	v.SetDefault("watch.debounce", defaults.Watch.Debounce)
}
