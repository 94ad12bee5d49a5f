// Package contract derives stable identities for service contracts and the
// names under which their bindings are stored in the backing container.
package contract

import (
	"reflect"
	"strconv"
	"strings"
)

// Lifetime governs whether a resolution reuses an instance.
type Lifetime string

const (
	Transient Lifetime = "transient"
	Singleton Lifetime = "singleton"
)

// Kind records what a registration is bound to.
type Kind string

const (
	KindType     Kind = "type"
	KindFactory  Kind = "factory"
	KindInstance Kind = "instance"
)

const (
	memberSeparator     = "#"
	generationSeparator = "@"
	ordinalPrefix       = "item-"
)

// Name returns the identifier of a contract type: package path and type name
// for named types, with one '*' per pointer level. Unnamed types fall back to
// their Go syntax.
func Name(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	stars := 0
	base := t
	for base.Kind() == reflect.Pointer {
		stars++
		base = base.Elem()
	}
	if base.Name() == "" || base.PkgPath() == "" {
		return t.String()
	}
	return strings.Repeat("*", stars) + base.PkgPath() + "/" + base.Name()
}

// DefaultName is the backing name of a contract's default binding. The first
// binding uses generation 1; overwrites bump the generation so that the
// backing container never sees a duplicate name.
func DefaultName(t reflect.Type, generation int) string {
	if generation <= 1 {
		return Name(t)
	}
	return Name(t) + generationSeparator + strconv.Itoa(generation)
}

// MemberName is the backing name of a keyed collection member.
func MemberName(t reflect.Type, key string, generation int) string {
	name := Name(t) + memberSeparator + key
	if generation > 1 {
		name += generationSeparator + strconv.Itoa(generation)
	}
	return name
}

// OrdinalKey is the key assigned to a collection member registered without one.
func OrdinalKey(position int) string {
	return ordinalPrefix + strconv.Itoa(position)
}

// ValidKey reports whether key can name a collection member. Keys must not
// contain the separators used in backing names.
func ValidKey(key string) bool {
	return !strings.ContainsAny(key, memberSeparator+generationSeparator)
}

// Constructible reports whether values of t can be built by allocating a zero
// struct: t must be a struct or a pointer to one.
func Constructible(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

// Assignable reports whether an implementation type can be bound to a contract.
func Assignable(impl, service reflect.Type) bool {
	if impl == nil || service == nil {
		return false
	}
	return impl.AssignableTo(service)
}

// ValueAssignable reports whether v can be returned for the contract t.
// A nil value is only acceptable for contracts that admit nil.
func ValueAssignable(v any, t reflect.Type) bool {
	if v == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return true
		default:
			return false
		}
	}
	return reflect.TypeOf(v).AssignableTo(t)
}
