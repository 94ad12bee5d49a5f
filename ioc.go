// Package ioc is a uniform inversion-of-control facade over the vessel
// container.
//
// Applications register their services once in a composition root and
// resolve them while composing:
//
//	c, err := ioc.New(ioc.WithName("app"))
//	if err != nil { ... }
//	defer c.Close()
//
//	_ = ioc.RegisterSingletonAs[Store, *PostgresStore](c)
//	_ = ioc.RegisterCollectionTypes[Handler](c,
//	    ioc.TypeOf[*AuthHandler](),
//	    ioc.TypeOf[*AuditHandler](),
//	)
//
//	store, err := ioc.Resolve[Store](c)
//	handlers, err := ioc.ResolveAll[Handler](c) // AuthHandler, AuditHandler
//
// Type registrations are built by allocating the implementation and injecting
// its `inject`-tagged fields; see Container.BuildUp.
package ioc

import (
	"context"
	"reflect"

	"github.com/google/uuid"

	"github.com/xraph/ioc/internal/adapter"
	"github.com/xraph/ioc/internal/logger"
	"github.com/xraph/ioc/internal/metrics"
	"github.com/xraph/ioc/internal/tracing"
)

// Registrar binds service contracts.
type Registrar interface {
	RegisterTransientType(serviceType, implType reflect.Type) error
	RegisterTransientFactory(serviceType reflect.Type, creator Creator) error
	RegisterSingletonType(serviceType, implType reflect.Type) error
	RegisterSingletonFactory(serviceType reflect.Type, creator Creator) error
	RegisterInstanceOf(serviceType reflect.Type, instance any) error
	RegisterCollectionOf(serviceType reflect.Type, items ...CollectionItem) error
}

// Resolver builds instances for bound contracts.
type Resolver interface {
	ResolveType(serviceType reflect.Type) (any, error)
	ResolveKeyed(serviceType reflect.Type, key string) (any, error)
	ResolveAllOf(serviceType reflect.Type) ([]any, error)

	// GetInstance resolves serviceType's default binding. The key is
	// accepted for compatibility and ignored; ResolveKeyed honours keys.
	GetInstance(serviceType reflect.Type, key string) (any, error)
	GetAllInstances(serviceType reflect.Type) ([]any, error)

	// BuildUp injects the `inject`-tagged fields of an existing struct.
	// Tag options: "all" (slice of every collection member), "key=<k>"
	// (one collection member) and "optional" (skip unbound contracts).
	BuildUp(instance any) error

	// Context variants parent their spans on the caller's trace.
	ResolveTypeContext(ctx context.Context, serviceType reflect.Type) (any, error)
	ResolveKeyedContext(ctx context.Context, serviceType reflect.Type, key string) (any, error)
	ResolveAllOfContext(ctx context.Context, serviceType reflect.Type) ([]any, error)
	BuildUpContext(ctx context.Context, instance any) error
}

// Container is the full IoC facade.
type Container interface {
	Registrar
	Resolver

	// Dispose releases the backing container and every owned instance
	// implementing Disposer or io.Closer.
	Dispose(ctx context.Context) error
}

// Adapter is the vessel-backed Container.
type Adapter = adapter.Adapter

// Creator builds one instance for a factory registration.
type Creator = adapter.Creator

// CollectionItem is one member of a collection registration.
type CollectionItem = adapter.CollectionItem

// Registration describes one binding held by an Adapter.
type Registration = adapter.Registration

// Initializer is called on type-registered implementations after injection.
type Initializer = adapter.Initializer

// Disposer is implemented by owned instances that release resources on Dispose.
type Disposer = adapter.Disposer

var _ Container = (*Adapter)(nil)

// New creates an Adapter. The adapter is registered into itself under both
// *Adapter and Container so composed services can depend on it.
func New(opts ...Option) (*Adapter, error) {
	s := newSettings()
	for _, opt := range opts {
		opt(s)
	}

	var bindErr error
	if s.configManager != nil {
		var runtime runtimeConfig
		if bindErr = s.configManager.Bind(s.configKey, &runtime); bindErr == nil {
			s.config = s.config.merge(runtime)
		}
	}

	if err := s.config.Validate(); err != nil {
		return nil, err
	}

	log := s.logger
	if log == nil {
		var err error
		if log, err = logger.FromLevelName(s.config.LogLevel); err != nil {
			return nil, ErrInvalidConfig("log_level", err)
		}
	}
	if bindErr != nil {
		log.Debug("using programmatic config", logger.String("section", s.configKey), logger.Error(bindErr))
	}

	id := uuid.NewString()

	collector, err := metrics.New(s.config.Metrics, s.registerer)
	if err != nil {
		return nil, ErrInvalidConfig("metrics", err)
	}

	a, err := adapter.New(adapter.Options{
		ID:             id,
		Name:           s.config.Name,
		Logger:         log,
		ConflictPolicy: s.config.ConflictPolicy,
		Metrics:        collector,
		Tracer:         tracing.New(s.config.Tracing, s.tracerProvider, id),
	})
	if err != nil {
		return nil, err
	}

	if err := a.RegisterSelf(TypeOf[Container]()); err != nil {
		return nil, err
	}

	return a, nil
}
