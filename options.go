package ioc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xraph/confy"
	"go.opentelemetry.io/otel/trace"

	"github.com/xraph/ioc/internal/logger"
)

type settings struct {
	config         Config
	logger         logger.Logger
	registerer     prometheus.Registerer
	tracerProvider trace.TracerProvider
	configManager  confy.Confy
	configKey      string
}

func newSettings() *settings {
	return &settings{config: DefaultConfig()}
}

// Option configures New.
type Option func(*settings)

// WithConfig replaces the whole configuration.
func WithConfig(config Config) Option {
	return func(s *settings) {
		s.config = config
	}
}

// WithName sets the adapter name used in logs.
func WithName(name string) Option {
	return func(s *settings) {
		s.config.Name = name
	}
}

// WithConflictPolicy sets how duplicate registrations are handled.
func WithConflictPolicy(policy ConflictPolicy) Option {
	return func(s *settings) {
		s.config.ConflictPolicy = policy
	}
}

// WithLogLevel builds a development logger at the given level
// ("debug", "info", "warn", "error") unless WithLogger is also used.
func WithLogLevel(level string) Option {
	return func(s *settings) {
		s.config.LogLevel = level
	}
}

// WithLogger sets the logger. It takes precedence over the configured level.
func WithLogger(l Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// WithMetricsRegisterer registers the adapter's collectors with reg.
// Without it the collectors are kept unregistered.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(s *settings) {
		s.registerer = reg
	}
}

// WithTracerProvider records spans for resolutions and build-ups.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *settings) {
		s.tracerProvider = tp
	}
}

// WithConfigManager binds the section under key from a confy manager on top
// of the configuration. Values present in the section win; a missing section
// keeps the configuration as is.
func WithConfigManager(cm confy.Confy, key string) Option {
	return func(s *settings) {
		s.configManager = cm
		s.configKey = key
	}
}
