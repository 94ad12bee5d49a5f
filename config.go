package ioc

import (
	"gopkg.in/yaml.v3"

	"github.com/xraph/ioc/internal/adapter"
	"github.com/xraph/ioc/internal/logger"
	"github.com/xraph/ioc/internal/metrics"
	"github.com/xraph/ioc/internal/tracing"
)

// ConflictPolicy decides what happens when a contract or collection key is
// registered twice.
type ConflictPolicy = adapter.ConflictPolicy

const (
	// ConflictError rejects the second registration (default).
	ConflictError = adapter.ConflictError
	// ConflictOverwrite lets the later registration silently replace the earlier one.
	ConflictOverwrite = adapter.ConflictOverwrite
)

// MetricsConfig controls the prometheus collectors.
type MetricsConfig = metrics.Config

// TracingConfig controls span emission.
type TracingConfig = tracing.Config

// Config is the adapter configuration. It can be built in code or decoded
// from YAML handed over by the bootstrapper:
//
//	name: app
//	conflict_policy: overwrite
//	log_level: debug
//	metrics:
//	  enabled: true
//	  namespace: app_ioc
//	tracing:
//	  enabled: false
type Config struct {
	Name           string         `yaml:"name"`
	ConflictPolicy ConflictPolicy `yaml:"conflict_policy"`
	LogLevel       string         `yaml:"log_level"`
	Metrics        MetricsConfig  `yaml:"metrics"`
	Tracing        TracingConfig  `yaml:"tracing"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		Name:           "ioc",
		ConflictPolicy: ConflictError,
		Metrics:        metrics.DefaultConfig(),
		Tracing:        tracing.DefaultConfig(),
	}
}

// ParseConfig decodes YAML over DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, ErrInvalidConfig("yaml", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if c.Name == "" {
		return ErrInvalidConfig("name", errNew("name is required"))
	}
	if !c.ConflictPolicy.Valid() {
		return ErrInvalidConfig("conflict_policy", errNew("unknown policy "+string(c.ConflictPolicy)))
	}
	if _, _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return ErrInvalidConfig("log_level", err)
	}
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return ErrInvalidConfig("metrics.namespace", errNew("namespace is required when metrics are enabled"))
	}
	return nil
}

// runtimeConfig is a config section bound from a confy manager. Pointer
// fields tell an absent key apart from a zero value.
type runtimeConfig struct {
	Name           *string         `yaml:"name" json:"name"`
	ConflictPolicy *ConflictPolicy `yaml:"conflict_policy" json:"conflict_policy"`
	LogLevel       *string         `yaml:"log_level" json:"log_level"`
	Metrics        *struct {
		Enabled   *bool   `yaml:"enabled" json:"enabled"`
		Namespace *string `yaml:"namespace" json:"namespace"`
	} `yaml:"metrics" json:"metrics"`
	Tracing *struct {
		Enabled    *bool   `yaml:"enabled" json:"enabled"`
		TracerName *string `yaml:"tracer_name" json:"tracer_name"`
	} `yaml:"tracing" json:"tracing"`
}

// merge overlays the keys present in runtime onto c.
func (c Config) merge(runtime runtimeConfig) Config {
	set(&c.Name, runtime.Name)
	set(&c.ConflictPolicy, runtime.ConflictPolicy)
	set(&c.LogLevel, runtime.LogLevel)
	if m := runtime.Metrics; m != nil {
		set(&c.Metrics.Enabled, m.Enabled)
		set(&c.Metrics.Namespace, m.Namespace)
	}
	if t := runtime.Tracing; t != nil {
		set(&c.Tracing.Enabled, t.Enabled)
		set(&c.Tracing.TracerName, t.TracerName)
	}
	return c
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
