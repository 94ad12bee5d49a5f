// Package adapter implements the IoC facade over a vessel container.
//
// The adapter owns one vessel.Vessel. Lifetime handling, singleton caching and
// construction ordering stay with vessel; the adapter keeps only what vessel
// cannot express on its own: reflect.Type contracts, keyed collections in
// registration order, field injection and disposal of owned instances.
package adapter

import (
	"context"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"github.com/xraph/vessel"

	"github.com/xraph/ioc/internal/contract"
	"github.com/xraph/ioc/internal/errors"
	"github.com/xraph/ioc/internal/logger"
	"github.com/xraph/ioc/internal/metrics"
	"github.com/xraph/ioc/internal/tracing"
)

// ConflictPolicy decides what happens when a contract or collection key is
// registered twice.
type ConflictPolicy string

const (
	// ConflictError rejects the second registration.
	ConflictError ConflictPolicy = "error"
	// ConflictOverwrite lets the later registration replace the earlier one.
	ConflictOverwrite ConflictPolicy = "overwrite"
)

// Valid reports whether p is a known policy.
func (p ConflictPolicy) Valid() bool {
	return p == ConflictError || p == ConflictOverwrite
}

// Creator builds one instance for a factory registration.
type Creator func() (any, error)

// Initializer is implemented by type-registered implementations that need a
// hook after their fields have been injected.
type Initializer interface {
	Initialize() error
}

// Disposer is implemented by owned instances that release resources on Dispose.
type Disposer interface {
	Dispose() error
}

// Registration describes one binding held by the adapter.
type Registration struct {
	Contract    string
	Key         string
	Lifetime    contract.Lifetime
	Kind        contract.Kind
	BackingName string
}

// Options configures an Adapter.
type Options struct {
	ID             string
	Name           string
	Logger         logger.Logger
	ConflictPolicy ConflictPolicy
	Metrics        *metrics.Collector
	Tracer         *tracing.Tracer
}

type binding struct {
	reg Registration
}

type collection struct {
	members []*binding
	byKey   map[string]int
}

// Adapter is the Container Adapter.
type Adapter struct {
	id      string
	name    string
	backing vessel.Vessel
	log     logger.Logger
	policy  ConflictPolicy
	metrics *metrics.Collector
	tracer  *tracing.Tracer

	mu          sync.RWMutex
	defaults    map[reflect.Type]*binding
	collections map[reflect.Type]*collection
	generations map[string]int
	order       []*binding
	owned       []any
	ownedSet    map[any]struct{}
	started     bool
	disposed    bool
}

// New creates an adapter over a fresh vessel container and registers the
// adapter into it under its own contract.
func New(opts Options) (*Adapter, error) {
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if opts.Name == "" {
		opts.Name = "ioc"
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNoopLogger()
	}
	if opts.ConflictPolicy == "" {
		opts.ConflictPolicy = ConflictError
	}
	if !opts.ConflictPolicy.Valid() {
		return nil, errors.ErrInvalidConfig("conflict_policy", errors.New("unknown policy "+string(opts.ConflictPolicy)))
	}
	if opts.Metrics == nil {
		m, err := metrics.New(metrics.Config{}, nil)
		if err != nil {
			return nil, err
		}
		opts.Metrics = m
	}
	if opts.Tracer == nil {
		opts.Tracer = tracing.New(tracing.Config{}, nil, opts.ID)
	}

	a := &Adapter{
		id:          opts.ID,
		name:        opts.Name,
		backing:     vessel.New(),
		log:         opts.Logger.Named(opts.Name).With(logger.AdapterID(opts.ID)),
		policy:      opts.ConflictPolicy,
		metrics:     opts.Metrics,
		tracer:      opts.Tracer,
		defaults:    make(map[reflect.Type]*binding),
		collections: make(map[reflect.Type]*collection),
		generations: make(map[string]int),
		ownedSet:    make(map[any]struct{}),
	}

	if err := a.RegisterSelf(reflect.TypeFor[*Adapter]()); err != nil {
		return nil, err
	}

	return a, nil
}

// RegisterSelf binds the adapter itself to serviceType. The adapter is not
// owned by itself, so Dispose never releases it.
func (a *Adapter) RegisterSelf(serviceType reflect.Type) error {
	if serviceType == nil || !reflect.TypeOf(a).AssignableTo(serviceType) {
		return errors.ErrInvalidBinding(contract.Name(serviceType), "adapter is not assignable to the contract")
	}
	return a.bindDefault(serviceType, contract.Singleton, contract.KindInstance, func(vessel.Vessel) (any, error) {
		return a, nil
	})
}

// ID returns the adapter instance id used in logs and spans.
func (a *Adapter) ID() string {
	return a.id
}

// Name returns the adapter name.
func (a *Adapter) Name() string {
	return a.name
}

// Vessel returns the backing container.
func (a *Adapter) Vessel() vessel.Vessel {
	return a.backing
}

// Registrations lists every binding in registration order.
func (a *Adapter) Registrations() []Registration {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]Registration, 0, len(a.order))
	for _, b := range a.order {
		out = append(out, b.reg)
	}
	return out
}

// Start forwards to the backing container, which builds its registrations and
// starts those implementing the vessel service contract.
func (a *Adapter) Start(ctx context.Context) error {
	if err := a.checkOpen("start"); err != nil {
		return err
	}
	if err := a.backing.Start(ctx); err != nil {
		return errors.NewServiceError(a.name, "start", err)
	}

	a.mu.Lock()
	a.started = true
	a.mu.Unlock()

	a.log.Info("container started")
	return nil
}

func (a *Adapter) checkOpen(operation string) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.disposed {
		return errors.ErrAdapterDisposed(operation)
	}
	return nil
}
