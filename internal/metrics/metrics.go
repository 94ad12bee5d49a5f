package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config controls the adapter's prometheus collectors.
type Config struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// DefaultConfig returns the defaults used when no metrics config is supplied.
func DefaultConfig() Config {
	return Config{Enabled: true, Namespace: "ioc"}
}

// Outcome labels for resolution and disposal counters.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Collector records registrations, resolutions and disposals.
// A Collector built from a disabled config is a no-op.
type Collector struct {
	enabled bool

	RegistrationsTotal *prometheus.CounterVec
	ResolutionsTotal   *prometheus.CounterVec
	ResolveDuration    *prometheus.HistogramVec
	DisposalsTotal     *prometheus.CounterVec
}

// New creates the collectors and registers them with reg when reg is non-nil.
func New(config Config, reg prometheus.Registerer) (*Collector, error) {
	if !config.Enabled {
		return &Collector{}, nil
	}

	c := &Collector{
		enabled: true,
		RegistrationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "registrations_total",
			Help:      "Total number of bindings registered, by lifetime and kind.",
		}, []string{"lifetime", "kind"}),
		ResolutionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "resolutions_total",
			Help:      "Total number of resolutions, by operation and outcome.",
		}, []string{"operation", "outcome"}),
		ResolveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "resolve_duration_seconds",
			Help:      "Resolution latency, by operation.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"operation"}),
		DisposalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "disposals_total",
			Help:      "Owned instances released on dispose, by outcome.",
		}, []string{"outcome"}),
	}

	if reg != nil {
		for _, col := range []prometheus.Collector{
			c.RegistrationsTotal,
			c.ResolutionsTotal,
			c.ResolveDuration,
			c.DisposalsTotal,
		} {
			if err := reg.Register(col); err != nil {
				return nil, err
			}
		}
	}

	return c, nil
}

// Registered counts one binding.
func (c *Collector) Registered(lifetime, kind string) {
	if !c.enabled {
		return
	}
	c.RegistrationsTotal.WithLabelValues(lifetime, kind).Inc()
}

// Resolved counts one resolution and observes its latency.
func (c *Collector) Resolved(operation string, started time.Time, err error) {
	if !c.enabled {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	c.ResolutionsTotal.WithLabelValues(operation, outcome).Inc()
	c.ResolveDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// Disposed counts one released instance.
func (c *Collector) Disposed(err error) {
	if !c.enabled {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	c.DisposalsTotal.WithLabelValues(outcome).Inc()
}
