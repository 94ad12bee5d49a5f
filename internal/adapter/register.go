package adapter

import (
	"reflect"

	"github.com/xraph/vessel"

	"github.com/xraph/ioc/internal/contract"
	"github.com/xraph/ioc/internal/errors"
	"github.com/xraph/ioc/internal/logger"
)

type factory = func(vessel.Vessel) (any, error)

// CollectionItem is one member of a collection registration. Exactly one of
// Type or Instance must be set. An empty Key is replaced by an ordinal token.
type CollectionItem struct {
	Key      string
	Type     reflect.Type
	Instance any
	// Lifetime applies to Type members only; it defaults to transient.
	Lifetime contract.Lifetime
}

// RegisterTransientType binds serviceType so every resolution builds a new implType.
func (a *Adapter) RegisterTransientType(serviceType, implType reflect.Type) error {
	return a.registerType(serviceType, implType, contract.Transient)
}

// RegisterSingletonType binds serviceType to one lazily built implType.
func (a *Adapter) RegisterSingletonType(serviceType, implType reflect.Type) error {
	return a.registerType(serviceType, implType, contract.Singleton)
}

// RegisterTransientFactory binds serviceType to creator, invoked on every resolution.
func (a *Adapter) RegisterTransientFactory(serviceType reflect.Type, creator Creator) error {
	return a.registerFactory(serviceType, creator, contract.Transient)
}

// RegisterSingletonFactory binds serviceType to creator, invoked once.
func (a *Adapter) RegisterSingletonFactory(serviceType reflect.Type, creator Creator) error {
	return a.registerFactory(serviceType, creator, contract.Singleton)
}

// RegisterInstanceOf binds serviceType to an already built instance. The
// adapter takes ownership of it for disposal.
func (a *Adapter) RegisterInstanceOf(serviceType reflect.Type, instance any) error {
	if err := a.checkOpen("register"); err != nil {
		return err
	}
	if err := validateInstance(serviceType, instance); err != nil {
		return err
	}
	if err := a.bindDefault(serviceType, contract.Singleton, contract.KindInstance, instanceFactory(instance)); err != nil {
		return err
	}
	a.own(instance)
	return nil
}

// RegisterCollectionOf binds every item under serviceType, keyed and in order.
// Later calls for the same contract append to its collection.
func (a *Adapter) RegisterCollectionOf(serviceType reflect.Type, items ...CollectionItem) error {
	if err := a.checkOpen("register"); err != nil {
		return err
	}
	name := contract.Name(serviceType)
	if serviceType == nil {
		return errors.ErrInvalidBinding(name, "nil contract")
	}
	if len(items) == 0 {
		return errors.ErrInvalidBinding(name, "collection has no members")
	}

	for _, item := range items {
		if err := validateItem(serviceType, item); err != nil {
			return err
		}
	}

	keys, err := a.memberKeys(serviceType, items)
	if err != nil {
		return err
	}
	for i, item := range items {
		if item.Type == nil {
			continue
		}
		if field, ok := selfReference(serviceType, item.Type, keys[i]); ok {
			return errors.ErrInvalidBinding(name, "field "+field+" injects the member being registered").
				WithContext("key", keys[i])
		}
	}

	for i, item := range items {
		var (
			f        factory
			lifetime = contract.Transient
			kind     = contract.KindType
		)
		switch {
		case item.Type != nil:
			if item.Lifetime == contract.Singleton {
				lifetime = contract.Singleton
			}
			f = a.typeFactory(item.Type)
		default:
			lifetime = contract.Singleton
			kind = contract.KindInstance
			f = instanceFactory(item.Instance)
		}

		if lifetime == contract.Singleton && kind != contract.KindInstance {
			f = a.owning(f)
		}
		if err := a.bindMember(serviceType, keys[i], lifetime, kind, f); err != nil {
			return err
		}
		if kind == contract.KindInstance {
			a.own(item.Instance)
		}
	}

	return nil
}

func (a *Adapter) registerType(serviceType, implType reflect.Type, lifetime contract.Lifetime) error {
	if err := a.checkOpen("register"); err != nil {
		return err
	}
	if err := validateType(serviceType, implType); err != nil {
		return err
	}
	if field, ok := selfReference(serviceType, implType, ""); ok {
		return errors.ErrInvalidBinding(contract.Name(serviceType), "field "+field+" injects the contract being registered")
	}
	f := a.typeFactory(implType)
	if lifetime == contract.Singleton {
		f = a.owning(f)
	}
	return a.bindDefault(serviceType, lifetime, contract.KindType, f)
}

func (a *Adapter) registerFactory(serviceType reflect.Type, creator Creator, lifetime contract.Lifetime) error {
	if err := a.checkOpen("register"); err != nil {
		return err
	}
	name := contract.Name(serviceType)
	if serviceType == nil {
		return errors.ErrInvalidBinding(name, "nil contract")
	}
	if creator == nil {
		return errors.ErrInvalidBinding(name, "nil creator")
	}

	f := func(vessel.Vessel) (any, error) {
		v, err := creator()
		if err != nil {
			return nil, err
		}
		if v == nil && lifetime == contract.Singleton {
			return nil, errors.ErrNilSingleton
		}
		if !contract.ValueAssignable(v, serviceType) {
			return nil, errors.ErrTypeMismatchFor(name, v)
		}
		return v, nil
	}
	if lifetime == contract.Singleton {
		f = a.owning(f)
	}
	return a.bindDefault(serviceType, lifetime, contract.KindFactory, f)
}

func (a *Adapter) bindDefault(serviceType reflect.Type, lifetime contract.Lifetime, kind contract.Kind, f factory) error {
	name := contract.Name(serviceType)

	a.mu.Lock()
	defer a.mu.Unlock()

	existing, exists := a.defaults[serviceType]
	if exists && a.policy == ConflictError {
		return errors.ErrRegistrationConflict(name, "")
	}

	backingName := contract.DefaultName(serviceType, a.nextGeneration(name))
	if err := a.backing.Register(backingName, f, lifetimeOption(lifetime), vessel.WithDIMetadata("contract", name)); err != nil {
		return errors.ErrInvalidBinding(name, err.Error())
	}

	reg := Registration{
		Contract:    name,
		Lifetime:    lifetime,
		Kind:        kind,
		BackingName: backingName,
	}
	if exists {
		existing.reg = reg
	} else {
		b := &binding{reg: reg}
		a.defaults[serviceType] = b
		a.order = append(a.order, b)
	}

	a.metrics.Registered(string(lifetime), string(kind))
	a.log.Debug("registered binding",
		logger.Contract(name),
		logger.Lifetime(string(lifetime)),
		logger.String("kind", string(kind)),
		logger.Bool("overwrite", exists),
	)
	return nil
}

func (a *Adapter) bindMember(serviceType reflect.Type, key string, lifetime contract.Lifetime, kind contract.Kind, f factory) error {
	name := contract.Name(serviceType)

	a.mu.Lock()
	defer a.mu.Unlock()

	coll, ok := a.collections[serviceType]
	if !ok {
		coll = &collection{byKey: make(map[string]int)}
		a.collections[serviceType] = coll
	}

	position, exists := coll.byKey[key]
	if exists && a.policy == ConflictError {
		return errors.ErrRegistrationConflict(name, key)
	}

	backingName := contract.MemberName(serviceType, key, a.nextGeneration(name+"#"+key))
	opts := []vessel.RegisterOption{
		lifetimeOption(lifetime),
		vessel.WithGroup(name),
		vessel.WithDIMetadata("contract", name),
		vessel.WithDIMetadata("key", key),
	}
	if err := a.backing.Register(backingName, f, opts...); err != nil {
		return errors.ErrInvalidBinding(name, err.Error())
	}

	reg := Registration{
		Contract:    name,
		Key:         key,
		Lifetime:    lifetime,
		Kind:        kind,
		BackingName: backingName,
	}
	if exists {
		coll.members[position].reg = reg
	} else {
		b := &binding{reg: reg}
		coll.byKey[key] = len(coll.members)
		coll.members = append(coll.members, b)
		a.order = append(a.order, b)
	}

	a.metrics.Registered(string(lifetime), string(kind))
	a.log.Debug("registered collection member",
		logger.Contract(name),
		logger.Key(key),
		logger.Lifetime(string(lifetime)),
		logger.String("kind", string(kind)),
		logger.Bool("overwrite", exists),
	)
	return nil
}

// memberKeys settles the key of every item before anything is bound. Explicit
// keys are checked against the collection and the call under ConflictError.
// Generated keys skip every key that is bound or named in the call.
func (a *Adapter) memberKeys(serviceType reflect.Type, items []CollectionItem) ([]string, error) {
	name := contract.Name(serviceType)

	a.mu.RLock()
	defer a.mu.RUnlock()

	var bound map[string]int
	if coll, ok := a.collections[serviceType]; ok {
		bound = coll.byKey
	}

	named := make(map[string]struct{}, len(items))
	for i, item := range items {
		if item.Key == "" {
			continue
		}
		_, dup := named[item.Key]
		_, exists := bound[item.Key]
		if a.policy == ConflictError && (dup || exists) {
			return nil, errors.ErrRegistrationConflict(name, item.Key).WithContext("position", i)
		}
		named[item.Key] = struct{}{}
	}

	keys := make([]string, len(items))
	assigned := make(map[string]struct{}, len(items))
	position := len(bound)
	for i, item := range items {
		if item.Key != "" {
			if _, seen := assigned[item.Key]; !seen {
				if _, exists := bound[item.Key]; !exists {
					position++
				}
			}
			keys[i] = item.Key
			assigned[item.Key] = struct{}{}
			continue
		}

		for n := position; ; n++ {
			key := contract.OrdinalKey(n)
			_, exists := bound[key]
			_, isNamed := named[key]
			_, taken := assigned[key]
			if !exists && !isNamed && !taken {
				keys[i] = key
				break
			}
		}
		assigned[keys[i]] = struct{}{}
		position++
	}
	return keys, nil
}

// nextGeneration must be called with mu held.
func (a *Adapter) nextGeneration(base string) int {
	a.generations[base]++
	return a.generations[base]
}

func (a *Adapter) typeFactory(implType reflect.Type) factory {
	return func(vessel.Vessel) (any, error) {
		return a.construct(implType)
	}
}

// owning records every instance produced by f for disposal.
func (a *Adapter) owning(f factory) factory {
	return func(c vessel.Vessel) (any, error) {
		v, err := f(c)
		if err != nil {
			return nil, err
		}
		a.own(v)
		return v, nil
	}
}

func instanceFactory(instance any) factory {
	return func(vessel.Vessel) (any, error) {
		return instance, nil
	}
}

func lifetimeOption(lifetime contract.Lifetime) vessel.RegisterOption {
	if lifetime == contract.Singleton {
		return vessel.Singleton()
	}
	return vessel.Transient()
}

func validateType(serviceType, implType reflect.Type) error {
	name := contract.Name(serviceType)
	switch {
	case serviceType == nil:
		return errors.ErrInvalidBinding(name, "nil contract")
	case implType == nil:
		return errors.ErrInvalidBinding(name, "nil implementation type")
	case !contract.Constructible(implType):
		return errors.ErrInvalidBinding(name, implType.String()+" is not a struct or pointer to struct")
	case !contract.Assignable(implType, serviceType):
		return errors.ErrInvalidBinding(name, implType.String()+" is not assignable to the contract")
	}
	return nil
}

func validateInstance(serviceType reflect.Type, instance any) error {
	name := contract.Name(serviceType)
	switch {
	case serviceType == nil:
		return errors.ErrInvalidBinding(name, "nil contract")
	case instance == nil:
		return errors.ErrInvalidBinding(name, "nil instance")
	case !contract.ValueAssignable(instance, serviceType):
		return errors.ErrInvalidBinding(name, reflect.TypeOf(instance).String()+" is not assignable to the contract")
	}
	return nil
}

func validateItem(serviceType reflect.Type, item CollectionItem) error {
	name := contract.Name(serviceType)
	switch {
	case !contract.ValidKey(item.Key):
		return errors.ErrInvalidBinding(name, "collection key "+item.Key+" contains a reserved separator")
	case item.Type != nil && item.Instance != nil:
		return errors.ErrInvalidBinding(name, "collection item sets both type and instance")
	case item.Type != nil:
		if item.Lifetime != "" && item.Lifetime != contract.Transient && item.Lifetime != contract.Singleton {
			return errors.ErrInvalidBinding(name, "unknown lifetime "+string(item.Lifetime))
		}
		return validateType(serviceType, item.Type)
	default:
		return validateInstance(serviceType, item.Instance)
	}
}
