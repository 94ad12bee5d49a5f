package adapter

import (
	"context"
	"reflect"
	"time"

	"github.com/xraph/ioc/internal/contract"
	"github.com/xraph/ioc/internal/errors"
	"github.com/xraph/ioc/internal/logger"
	"github.com/xraph/ioc/internal/tracing"
)

// ResolveType returns an instance for the default binding of serviceType.
func (a *Adapter) ResolveType(serviceType reflect.Type) (any, error) {
	return a.ResolveTypeContext(context.Background(), serviceType)
}

// ResolveTypeContext is ResolveType with its span parented on ctx.
func (a *Adapter) ResolveTypeContext(ctx context.Context, serviceType reflect.Type) (any, error) {
	started := time.Now()
	_, span := a.tracer.Start(ctx, "resolve", contract.Name(serviceType))

	v, err := a.resolveDefault(serviceType)

	span.End(err)
	a.metrics.Resolved("resolve", started, err)
	a.logFailure("resolve", serviceType, "", err)
	return v, err
}

// ResolveKeyed returns the collection member of serviceType registered under key.
func (a *Adapter) ResolveKeyed(serviceType reflect.Type, key string) (any, error) {
	return a.ResolveKeyedContext(context.Background(), serviceType, key)
}

// ResolveKeyedContext is ResolveKeyed with its span parented on ctx.
func (a *Adapter) ResolveKeyedContext(ctx context.Context, serviceType reflect.Type, key string) (any, error) {
	started := time.Now()
	_, span := a.tracer.Start(ctx, "resolve_keyed", contract.Name(serviceType), tracing.AttrKey.String(key))

	v, err := a.resolveMember(serviceType, key)

	span.End(err)
	a.metrics.Resolved("resolve_keyed", started, err)
	a.logFailure("resolve_keyed", serviceType, key, err)
	return v, err
}

// ResolveAllOf returns every collection member of serviceType in registration
// order. The default binding is not part of the collection.
func (a *Adapter) ResolveAllOf(serviceType reflect.Type) ([]any, error) {
	return a.ResolveAllOfContext(context.Background(), serviceType)
}

// ResolveAllOfContext is ResolveAllOf with its span parented on ctx.
func (a *Adapter) ResolveAllOfContext(ctx context.Context, serviceType reflect.Type) ([]any, error) {
	started := time.Now()
	_, span := a.tracer.Start(ctx, "resolve_all", contract.Name(serviceType))

	out, err := a.resolveAll(serviceType)

	span.SetCount(len(out))
	span.End(err)
	a.metrics.Resolved("resolve_all", started, err)
	a.logFailure("resolve_all", serviceType, "", err)
	return out, err
}

// GetInstance resolves serviceType. The key is not used: resolution always
// goes to the default binding. Use ResolveKeyed to select a collection member.
func (a *Adapter) GetInstance(serviceType reflect.Type, key string) (any, error) {
	if key != "" {
		a.log.Debug("get instance ignores key", logger.Contract(contract.Name(serviceType)), logger.Key(key))
	}
	return a.ResolveType(serviceType)
}

// GetAllInstances returns every instance registered under serviceType's collection.
func (a *Adapter) GetAllInstances(serviceType reflect.Type) ([]any, error) {
	return a.ResolveAllOf(serviceType)
}

func (a *Adapter) resolveDefault(serviceType reflect.Type) (any, error) {
	if err := a.checkOpen("resolve"); err != nil {
		return nil, err
	}

	a.mu.RLock()
	b, ok := a.defaults[serviceType]
	a.mu.RUnlock()

	if !ok {
		return nil, errors.ErrNotRegistered(contract.Name(serviceType))
	}
	return a.resolveBinding(serviceType, b)
}

func (a *Adapter) resolveMember(serviceType reflect.Type, key string) (any, error) {
	if err := a.checkOpen("resolve"); err != nil {
		return nil, err
	}

	a.mu.RLock()
	var b *binding
	if coll, ok := a.collections[serviceType]; ok {
		if i, ok := coll.byKey[key]; ok {
			b = coll.members[i]
		}
	}
	a.mu.RUnlock()

	if b == nil {
		return nil, errors.ErrKeyNotRegistered(contract.Name(serviceType), key)
	}
	return a.resolveBinding(serviceType, b)
}

func (a *Adapter) resolveAll(serviceType reflect.Type) ([]any, error) {
	if err := a.checkOpen("resolve"); err != nil {
		return nil, err
	}

	a.mu.RLock()
	var members []*binding
	if coll, ok := a.collections[serviceType]; ok {
		members = append(members, coll.members...)
	}
	a.mu.RUnlock()

	if len(members) == 0 {
		return nil, errors.ErrEmptyCollection(contract.Name(serviceType))
	}

	out := make([]any, 0, len(members))
	for _, b := range members {
		v, err := a.resolveBinding(serviceType, b)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (a *Adapter) resolveBinding(serviceType reflect.Type, b *binding) (any, error) {
	a.mu.RLock()
	reg := b.reg
	a.mu.RUnlock()

	v, err := a.backing.Resolve(reg.BackingName)
	if err != nil {
		e := errors.ErrResolutionFailed(reg.Contract, err)
		if reg.Key != "" {
			e.WithContext("key", reg.Key)
		}
		return nil, e
	}
	if !contract.ValueAssignable(v, serviceType) {
		return nil, errors.ErrResolutionFailed(reg.Contract, errors.ErrTypeMismatchFor(reg.Contract, v))
	}
	return v, nil
}

func (a *Adapter) logFailure(operation string, serviceType reflect.Type, key string, err error) {
	if err == nil {
		return
	}
	fields := []logger.Field{
		logger.String("operation", operation),
		logger.Contract(contract.Name(serviceType)),
		logger.Error(err),
	}
	if key != "" {
		fields = append(fields, logger.Key(key))
	}
	a.log.Warn("resolution failed", fields...)
}
