package modules

import (
	"fmt"
	"reflect"

	"github.com/km-arc/go-modular/framework/container"
)

var containerType = reflect.TypeOf((*container.Container)(nil))

// Binding records one registration made by Bind.
type Binding struct {
	// Abstract is the container key: a capability interface or the concrete
	// type of the module.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Module is the name of the module bound under Abstract.
	Module string `json:"module" yaml:"module"`
}

// Bind registers every enabled candidate in c, in discovery order.
//
// Each module gets one lazily built singleton bound under its concrete type
// key; every capability interface it implements is bound to that same
// instance. Nothing is constructed here: a module whose constructor needs a
// binding that does not exist fails when it is first resolved, with
// container.ErrNoBinding.
func Bind(cat *Catalog, enabled *EnabledSet, c *container.Container) []Binding {
	var out []Binding
	for _, cand := range enabled.Members() {
		concrete := container.KeyOf(cand.Type)
		c.Add(concrete, cand.factory())
		out = append(out, Binding{Abstract: concrete, Module: cand.Name})

		for _, iface := range cand.Capabilities {
			abstract := container.KeyOf(iface)
			c.Add(abstract, func(c *container.Container) (any, error) {
				return c.Make(concrete)
			})
			out = append(out, Binding{Abstract: abstract, Module: cand.Name})
		}
	}
	return out
}

// factory calls the primary constructor with arguments resolved from the
// container.
func (cand *Candidate) factory() container.Factory {
	ctor := cand.Primary()
	return func(c *container.Container) (any, error) {
		args, err := arguments(c, ctor.Type())
		if err != nil {
			return nil, fmt.Errorf("constructing %s: %w", cand.Name, err)
		}

		var results []reflect.Value
		if ctor.Type().IsVariadic() {
			results = ctor.CallSlice(args)
		} else {
			results = ctor.Call(args)
		}
		if len(results) == 2 && !results[1].IsNil() {
			return nil, fmt.Errorf("constructing %s: %w", cand.Name, results[1].Interface().(error))
		}
		return results[0].Interface(), nil
	}
}

func arguments(c *container.Container, fn reflect.Type) ([]reflect.Value, error) {
	args := make([]reflect.Value, fn.NumIn())
	for i := range fn.NumIn() {
		param := fn.In(i)

		switch {
		case param == containerType:
			args[i] = reflect.ValueOf(c.Root())

		case param.Kind() == reflect.Slice && param.Elem().Kind() == reflect.Interface:
			items, err := c.MakeAll(container.KeyOf(param.Elem()))
			if err != nil {
				return nil, fmt.Errorf("parameter %d (%s): %w", i, param, err)
			}
			slice := reflect.MakeSlice(param, 0, len(items))
			for _, item := range items {
				v, err := assign(item, param.Elem())
				if err != nil {
					return nil, fmt.Errorf("parameter %d (%s): %w", i, param, err)
				}
				slice = reflect.Append(slice, v)
			}
			args[i] = slice

		default:
			item, err := c.Make(container.KeyOf(param))
			if err != nil {
				return nil, fmt.Errorf("parameter %d (%s): %w", i, param, err)
			}
			v, err := assign(item, param)
			if err != nil {
				return nil, fmt.Errorf("parameter %d (%s): %w", i, param, err)
			}
			args[i] = v
		}
	}
	return args, nil
}

func assign(item any, to reflect.Type) (reflect.Value, error) {
	v := reflect.ValueOf(item)
	if !v.IsValid() {
		return reflect.Zero(to), nil
	}
	if !v.Type().AssignableTo(to) {
		return reflect.Value{}, fmt.Errorf("%w: %s is not assignable to %s", container.ErrTypeMismatch, v.Type(), to)
	}
	return v, nil
}
