package adapter

import (
	"context"
	"reflect"
	"strings"

	"github.com/xraph/ioc/internal/contract"
	"github.com/xraph/ioc/internal/errors"
)

const injectTag = "inject"

type injectSpec struct {
	key      string
	all      bool
	optional bool
}

// parseInjectTag reads `inject:"[all|key=<k>][,optional]"`.
func parseInjectTag(tag string) (injectSpec, error) {
	var spec injectSpec
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "":
		case part == "optional":
			spec.optional = true
		case part == "all":
			spec.all = true
		case strings.HasPrefix(part, "key="):
			spec.key = strings.TrimPrefix(part, "key=")
			if spec.key == "" {
				return spec, errors.New("empty key in inject tag")
			}
		default:
			return spec, errors.New("unknown inject option " + part)
		}
	}
	if spec.all && spec.key != "" {
		return spec, errors.New("inject tag cannot combine all and key")
	}
	return spec, nil
}

// BuildUp injects the `inject`-tagged fields of an existing struct, in place.
// instance must be a non-nil pointer to a struct.
//
// Dependency cycles are not detected. A binding whose fields inject itself
// directly is rejected at registration; a longer cycle through singletons
// blocks forever inside the backing container, and one through transients
// recurses until the stack overflows.
func (a *Adapter) BuildUp(instance any) error {
	return a.BuildUpContext(context.Background(), instance)
}

// BuildUpContext is BuildUp with its span parented on ctx.
func (a *Adapter) BuildUpContext(ctx context.Context, instance any) error {
	rv := reflect.ValueOf(instance)
	owner := "<nil>"
	if rv.IsValid() {
		owner = contract.Name(rv.Type())
	}

	_, span := a.tracer.Start(ctx, "build_up", owner)

	err := a.checkOpen("build_up")
	if err == nil {
		if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
			err = errors.ErrInvalidBinding(owner, "build-up requires a non-nil pointer to a struct")
		} else {
			err = a.inject(rv.Elem())
		}
	}

	span.End(err)
	return err
}

func (a *Adapter) inject(rv reflect.Value) error {
	rt := rv.Type()
	owner := contract.Name(rt)

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag, ok := field.Tag.Lookup(injectTag)
		if !ok {
			continue
		}

		fieldValue := rv.Field(i)
		if !field.IsExported() || !fieldValue.CanSet() {
			return errors.ErrDependencyFailed(owner, field.Name, errors.New("field is not settable"))
		}

		spec, err := parseInjectTag(tag)
		if err != nil {
			return errors.ErrDependencyFailed(owner, field.Name, err)
		}

		value, err := a.resolveField(field.Type, spec)
		if err != nil {
			if spec.optional && errors.IsNotFound(err) {
				continue
			}
			return errors.ErrDependencyFailed(owner, field.Name, err)
		}
		fieldValue.Set(value)
	}

	return nil
}

func (a *Adapter) resolveField(fieldType reflect.Type, spec injectSpec) (reflect.Value, error) {
	if spec.all {
		if fieldType.Kind() != reflect.Slice {
			return reflect.Value{}, errors.New("inject:\"all\" requires a slice field")
		}
		elem := fieldType.Elem()
		items, err := a.resolveAll(elem)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.MakeSlice(fieldType, 0, len(items))
		for _, item := range items {
			out = reflect.Append(out, valueOf(item, elem))
		}
		return out, nil
	}

	var (
		v   any
		err error
	)
	if spec.key != "" {
		v, err = a.resolveMember(fieldType, spec.key)
	} else {
		v, err = a.resolveDefault(fieldType)
	}
	if err != nil {
		return reflect.Value{}, err
	}
	return valueOf(v, fieldType), nil
}

// construct allocates implType, injects its fields and runs its initializer.
func (a *Adapter) construct(implType reflect.Type) (any, error) {
	structType := implType
	isPointer := implType.Kind() == reflect.Pointer
	if isPointer {
		structType = implType.Elem()
	}

	ptr := reflect.New(structType)
	if err := a.inject(ptr.Elem()); err != nil {
		return nil, err
	}
	if init, ok := ptr.Interface().(Initializer); ok {
		if err := init.Initialize(); err != nil {
			return nil, errors.NewServiceError(contract.Name(implType), "initialize", err)
		}
	}

	if isPointer {
		return ptr.Interface(), nil
	}
	return ptr.Elem().Interface(), nil
}

// valueOf converts a resolved value to a reflect.Value settable into t.
func valueOf(v any, t reflect.Type) reflect.Value {
	if v == nil {
		return reflect.Zero(t)
	}
	return reflect.ValueOf(v)
}

// selfReference returns the first inject field of implType that would resolve
// the binding being registered: the default binding when key is empty, the
// member under key otherwise.
func selfReference(serviceType, implType reflect.Type, key string) (string, bool) {
	structType := implType
	if structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		tag, ok := field.Tag.Lookup(injectTag)
		if !ok {
			continue
		}
		spec, err := parseInjectTag(tag)
		if err != nil {
			continue
		}
		switch {
		case spec.all:
			if key != "" && field.Type.Kind() == reflect.Slice && field.Type.Elem() == serviceType {
				return field.Name, true
			}
		case field.Type == serviceType && spec.key == key:
			return field.Name, true
		}
	}
	return "", false
}
