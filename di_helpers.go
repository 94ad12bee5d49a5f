package ioc

import (
	"context"
	"fmt"
	"reflect"

	"github.com/xraph/ioc/internal/contract"
	"github.com/xraph/ioc/internal/errors"
)

// Lifetime governs whether a resolution reuses an instance.
type Lifetime = contract.Lifetime

// Lifetimes.
const (
	Transient = contract.Transient
	Singleton = contract.Singleton
)

// TypeOf returns the contract identity of T.
//
// Usage:
//
//	ioc.TypeOf[Store]()      // interface contract
//	ioc.TypeOf[*Postgres]()  // implementation type
func TypeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// =============================================================================
// Transient registration
// =============================================================================

// RegisterTransient binds S to itself; each resolution builds a new S.
// S must be a struct or pointer-to-struct type.
func RegisterTransient[S any](c Registrar) error {
	return c.RegisterTransientType(TypeOf[S](), TypeOf[S]())
}

// RegisterTransientAs binds S to a new I on each resolution.
//
// Usage:
//
//	ioc.RegisterTransientAs[Clock, *SystemClock](c)
func RegisterTransientAs[S, I any](c Registrar) error {
	return c.RegisterTransientType(TypeOf[S](), TypeOf[I]())
}

// RegisterTransientFunc binds S to creator, invoked on every resolution.
func RegisterTransientFunc[S any](c Registrar, creator func() (S, error)) error {
	return c.RegisterTransientFactory(TypeOf[S](), erase(creator))
}

// =============================================================================
// Singleton registration
// =============================================================================

// RegisterSingleton binds S to itself; the first resolution builds the only S.
func RegisterSingleton[S any](c Registrar) error {
	return c.RegisterSingletonType(TypeOf[S](), TypeOf[S]())
}

// RegisterSingletonAs binds S to one lazily built I.
func RegisterSingletonAs[S, I any](c Registrar) error {
	return c.RegisterSingletonType(TypeOf[S](), TypeOf[I]())
}

// RegisterSingletonFunc binds S to creator, invoked once on first resolution.
//
// Usage:
//
//	ioc.RegisterSingletonFunc[*sql.DB](c, func() (*sql.DB, error) {
//	    return sql.Open("postgres", dsn)
//	})
func RegisterSingletonFunc[S any](c Registrar, creator func() (S, error)) error {
	return c.RegisterSingletonFactory(TypeOf[S](), erase(creator))
}

// RegisterInstance binds S to an already built instance (singleton lifetime).
func RegisterInstance[S any](c Registrar, instance S) error {
	return c.RegisterInstanceOf(TypeOf[S](), instance)
}

// =============================================================================
// Collection registration
// =============================================================================

// TypeItem is a collection member built from I on every resolution.
// An empty key is replaced by an ordinal token.
func TypeItem[I any](key string) CollectionItem {
	return CollectionItem{Key: key, Type: TypeOf[I]()}
}

// SingletonItem is a collection member built once from I.
func SingletonItem[I any](key string) CollectionItem {
	return CollectionItem{Key: key, Type: TypeOf[I](), Lifetime: Singleton}
}

// InstanceItem is a collection member bound to an existing instance.
func InstanceItem(key string, instance any) CollectionItem {
	return CollectionItem{Key: key, Instance: instance}
}

// RegisterCollection binds every item under S, in order.
//
// Usage:
//
//	ioc.RegisterCollection[Handler](c,
//	    ioc.TypeItem[*AuthHandler]("auth"),
//	    ioc.InstanceItem("audit", auditHandler),
//	)
func RegisterCollection[S any](c Registrar, items ...CollectionItem) error {
	return c.RegisterCollectionOf(TypeOf[S](), items...)
}

// RegisterCollectionTypes binds one transient member per implementation type,
// keyed by position.
func RegisterCollectionTypes[S any](c Registrar, implTypes ...reflect.Type) error {
	items := make([]CollectionItem, 0, len(implTypes))
	for _, t := range implTypes {
		items = append(items, CollectionItem{Type: t})
	}
	return c.RegisterCollectionOf(TypeOf[S](), items...)
}

// RegisterCollectionInstances binds each instance as a member, keyed by
// position. Resolution returns the same instances.
func RegisterCollectionInstances[S any](c Registrar, instances ...S) error {
	items := make([]CollectionItem, 0, len(instances))
	for _, v := range instances {
		items = append(items, CollectionItem{Instance: v})
	}
	return c.RegisterCollectionOf(TypeOf[S](), items...)
}

// =============================================================================
// Resolution
// =============================================================================

// Resolve returns an instance of S.
func Resolve[S any](c Resolver) (S, error) {
	v, err := c.ResolveType(TypeOf[S]())
	if err != nil {
		var zero S
		return zero, err
	}
	return cast[S](v)
}

// ResolveContext is Resolve with the resolution span parented on ctx.
func ResolveContext[S any](ctx context.Context, c Resolver) (S, error) {
	v, err := c.ResolveTypeContext(ctx, TypeOf[S]())
	if err != nil {
		var zero S
		return zero, err
	}
	return cast[S](v)
}

// ResolveKeyed returns the collection member of S registered under key.
func ResolveKeyed[S any](c Resolver, key string) (S, error) {
	v, err := c.ResolveKeyed(TypeOf[S](), key)
	if err != nil {
		var zero S
		return zero, err
	}
	return cast[S](v)
}

// ResolveAll returns every collection member of S in registration order.
func ResolveAll[S any](c Resolver) ([]S, error) {
	values, err := c.ResolveAllOf(TypeOf[S]())
	if err != nil {
		return nil, err
	}
	out := make([]S, 0, len(values))
	for _, v := range values {
		s, err := cast[S](v)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// MustResolve returns an instance of S or panics.
// Only use during application startup where a panic is acceptable.
func MustResolve[S any](c Resolver) S {
	v, err := Resolve[S](c)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve %s: %v", contract.Name(TypeOf[S]()), err))
	}
	return v
}

func cast[S any](v any) (S, error) {
	if v == nil {
		var zero S
		return zero, nil
	}
	s, ok := v.(S)
	if !ok {
		var zero S
		name := contract.Name(TypeOf[S]())
		return zero, errors.ErrResolutionFailed(name, errors.ErrTypeMismatchFor(name, v))
	}
	return s, nil
}

func erase[S any](creator func() (S, error)) Creator {
	if creator == nil {
		return nil
	}
	return func() (any, error) {
		return creator()
	}
}
