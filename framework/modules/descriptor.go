package modules

import (
	"fmt"
	"reflect"

	"github.com/km-arc/go-modular/framework/container"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Descriptor describes one implementation that can be activated: its
// identity, its concrete type and the constructors able to build it.
type Descriptor struct {
	// Name is the fully-qualified type name used in the flag key.
	Name string

	// Type is the type returned by the constructors.
	Type reflect.Type

	constructors []reflect.Value
	requires     []reflect.Type
	declared     bool
	capabilities []reflect.Type
}

// Option configures a Descriptor.
type Option func(*options)

type options struct {
	name         string
	requires     []reflect.Type
	declared     bool
	alternates   []any
	capabilities []reflect.Type
}

// WithName overrides the identity used for the flag key. The default is
// container.KeyOf of the constructed type.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithRequires declares the capabilities the module needs, replacing the
// list inferred from its constructor.
func WithRequires(types ...reflect.Type) Option {
	return func(o *options) {
		o.requires = append(o.requires, types...)
		o.declared = true
	}
}

// As declares that the module provides capability T. The module is bound
// under T even when no other module requires it.
//
//	m.Provide(services.NewMemoryEventBus, modules.As[contracts.EventBus]())
func As[T any]() Option {
	return func(o *options) { o.capabilities = append(o.capabilities, TypeOf[T]()) }
}

// WithConstructor adds an alternate constructor. The constructor with the
// most parameters is the primary one; ties go to the first declared.
func WithConstructor(ctor any) Option {
	return func(o *options) { o.alternates = append(o.alternates, ctor) }
}

// Describe builds a Descriptor from a constructor function.
//
//	d, err := modules.Describe(services.NewMemoryEventBus)
func Describe(ctor any, opts ...Option) (Descriptor, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	fn, out, err := inspect(ctor)
	if err != nil {
		return Descriptor{}, err
	}

	d := Descriptor{
		Name:         o.name,
		Type:         out,
		constructors: []reflect.Value{fn},
		requires:     o.requires,
		declared:     o.declared,
	}

	for _, iface := range o.capabilities {
		if iface.Kind() != reflect.Interface || !out.Implements(iface) {
			return Descriptor{}, fmt.Errorf("%w: %s does not implement %s", ErrInvalidCapability, out, iface)
		}
		d.capabilities = append(d.capabilities, iface)
	}

	for _, alt := range o.alternates {
		altFn, altOut, err := inspect(alt)
		if err != nil {
			return Descriptor{}, err
		}
		if altOut != out {
			return Descriptor{}, fmt.Errorf("%w: alternate constructor returns %s, want %s", ErrInvalidConstructor, altOut, out)
		}
		d.constructors = append(d.constructors, altFn)
	}

	if d.Name == "" {
		d.Name = container.KeyOf(out)
	}
	return d, nil
}

// MustDescribe is like Describe but panics on error. Manifests are static,
// so an invalid constructor is a programming error.
func MustDescribe(ctor any, opts ...Option) Descriptor {
	d, err := Describe(ctor, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

func inspect(ctor any) (reflect.Value, reflect.Type, error) {
	val := reflect.ValueOf(ctor)
	if !val.IsValid() || val.Kind() != reflect.Func || val.IsNil() {
		return reflect.Value{}, nil, fmt.Errorf("%w: %T is not a function", ErrInvalidConstructor, ctor)
	}

	typ := val.Type()
	if typ.NumOut() == 0 || typ.NumOut() > 2 {
		return reflect.Value{}, nil, fmt.Errorf("%w: %s must return (T) or (T, error)", ErrInvalidConstructor, typ)
	}
	if typ.NumOut() == 2 && !typ.Out(1).Implements(errorType) {
		return reflect.Value{}, nil, fmt.Errorf("%w: %s second return value must implement error", ErrInvalidConstructor, typ)
	}
	return val, typ.Out(0), nil
}

// Primary returns the constructor with the greatest parameter count.
func (d Descriptor) Primary() reflect.Value {
	best := d.constructors[0]
	for _, ctor := range d.constructors[1:] {
		if ctor.Type().NumIn() > best.Type().NumIn() {
			best = ctor
		}
	}
	return best
}

// Declared returns the explicitly declared requirement list, if any.
func (d Descriptor) Declared() ([]reflect.Type, bool) {
	return d.requires, d.declared
}

// Provides returns the capabilities declared with As.
func (d Descriptor) Provides() []reflect.Type {
	return d.capabilities
}

// requirementTypes returns the raw types the dependency list is derived
// from: the declared list, or the primary constructor's parameters.
func (d Descriptor) requirementTypes() []reflect.Type {
	if d.declared {
		return d.requires
	}
	fn := d.Primary().Type()
	out := make([]reflect.Type, 0, fn.NumIn())
	for i := range fn.NumIn() {
		out = append(out, fn.In(i))
	}
	return out
}

// ── Manifest ──────────────────────────────────────────────────────────────────

// Manifest is the static table of modules an application is built from.
//
//	var manifest = new(modules.Manifest).
//	    Capability(modules.TypeOf[contracts.EventBus]()).
//	    Provide(services.NewMemoryEventBus).
//	    Provide(services.NewTicketManager)
type Manifest struct {
	// Capabilities lists capability interfaces that should be bound even
	// when no module requires them. A module is bound only under the marker,
	// its concrete type and the capability interfaces that are listed here,
	// declared with As, or required by some module; Go cannot enumerate the
	// interfaces a type implements.
	Capabilities []reflect.Type

	// Modules lists candidate implementations in declaration order.
	Modules []Descriptor
}

// Provide appends a module built from ctor. It panics on an invalid
// constructor.
func (m *Manifest) Provide(ctor any, opts ...Option) *Manifest {
	m.Modules = append(m.Modules, MustDescribe(ctor, opts...))
	return m
}

// Add appends already-built descriptors.
func (m *Manifest) Add(ds ...Descriptor) *Manifest {
	m.Modules = append(m.Modules, ds...)
	return m
}

// Capability registers capability interfaces.
func (m *Manifest) Capability(types ...reflect.Type) *Manifest {
	m.Capabilities = append(m.Capabilities, types...)
	return m
}

// TypeOf returns the reflect.Type of T, including interface types.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
