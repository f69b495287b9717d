package container

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"
	"sync"
)

// ── Binding types ─────────────────────────────────────────────────────────────

// Factory builds a concrete value from the container.
//
// The *Container handed to a factory is a resolution view of the same
// container: it shares every binding but tracks the chain of abstracts being
// built so re-entry is reported as ErrCircularDependency instead of hanging.
// Factories that keep a reference for later use should store c.Root().
type Factory func(c *Container) (any, error)

// binding holds a registered factory and, for singletons, its cached result.
type binding struct {
	factory   Factory
	singleton bool

	// serialises construction of this singleton across goroutines; other
	// bindings resolved from inside the factory do not wait on it.
	buildMu sync.Mutex

	built    bool
	instance any
}

// state is shared between a container and all of its resolution views.
type state struct {
	mu sync.RWMutex

	// abstract → bindings in registration order
	bindings map[string][]*binding

	// alias → abstract (canonical key)
	aliases map[string]string

	afterResolving []func(string, any)

	frozen bool

	// the container New returned
	root *Container
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the service registry modules are bound into.
//
// It supports:
//   - Bind / Singleton / Instance (replace) and Add (append, fan-out)
//   - Alias
//   - Make (last binding wins) and MakeAll (every binding, registration order)
//   - Freeze, after which the registry is read-only
//   - AfterResolving callbacks
type Container struct {
	*state

	// abstracts currently being built, outermost first
	stack []string
}

// New creates an empty container bound to itself under its own type key and
// the "container" alias.
func New() *Container {
	c := &Container{state: &state{
		bindings: make(map[string][]*binding),
		aliases:  make(map[string]string),
	}}
	c.root = c
	key := KeyOf(reflect.TypeOf(c))
	c.Instance(key, c)
	c.Alias(key, "container")
	return c
}

// Root returns the container without any in-flight resolution chain.
func (c *Container) Root() *Container {
	return c.root
}

// ── Registration ──────────────────────────────────────────────────────────────

// Bind registers a transient factory, replacing earlier bindings.
//
//	c.Bind("clock", func(c *container.Container) (any, error) { return time.Now, nil })
func (c *Container) Bind(abstract string, factory Factory) {
	c.register(abstract, &binding{factory: factory}, true)
}

// Singleton registers a factory whose result is cached after first
// resolution, replacing earlier bindings.
func (c *Container) Singleton(abstract string, factory Factory) {
	c.register(abstract, &binding{factory: factory, singleton: true}, true)
}

// Instance registers a pre-built value, replacing earlier bindings.
func (c *Container) Instance(abstract string, instance any) {
	c.register(abstract, &binding{singleton: true, built: true, instance: instance}, true)
}

// Add appends a singleton binding. Every binding added under the same
// abstract is returned by MakeAll in the order it was added.
func (c *Container) Add(abstract string, factory Factory) {
	c.register(abstract, &binding{factory: factory, singleton: true}, false)
}

// AddInstance appends a pre-built value.
func (c *Container) AddInstance(abstract string, instance any) {
	c.register(abstract, &binding{singleton: true, built: true, instance: instance}, false)
}

func (c *Container) register(abstract string, b *binding, replace bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frozen {
		panic(fmt.Errorf("%w: cannot bind [%s]", ErrFrozen, abstract))
	}
	key := c.canonical(abstract)
	if replace {
		c.bindings[key] = []*binding{b}
		return
	}
	c.bindings[key] = append(c.bindings[key], b)
}

// Alias registers an alternative name for an abstract.
func (c *Container) Alias(abstract, alias string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if abstract == alias {
		panic(fmt.Sprintf("container: [%s] is aliased to itself", abstract))
	}
	if c.frozen {
		panic(fmt.Errorf("%w: cannot alias [%s]", ErrFrozen, alias))
	}
	c.aliases[alias] = c.canonical(abstract)
}

// Freeze makes the container read-only. Later registrations panic with
// ErrFrozen; resolution keeps working.
func (c *Container) Freeze() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frozen = true
}

// Frozen reports whether Freeze has been called.
func (c *Container) Frozen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.frozen
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Make resolves an abstract. When several bindings exist the most recently
// registered one is used.
func (c *Container) Make(abstract string) (any, error) {
	key, bs := c.lookup(abstract)
	if len(bs) == 0 {
		return nil, fmt.Errorf("%w for [%s]", ErrNoBinding, abstract)
	}
	return c.build(key, bs[len(bs)-1])
}

// MakeAll resolves every binding of an abstract in registration order. An
// abstract with no bindings yields an empty slice.
func (c *Container) MakeAll(abstract string) ([]any, error) {
	key, bs := c.lookup(abstract)
	out := make([]any, 0, len(bs))
	for _, b := range bs {
		inst, err := c.build(key, b)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, nil
}

func (c *Container) lookup(abstract string) (string, []*binding) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	key := c.canonical(abstract)
	return key, slices.Clone(c.bindings[key])
}

// build runs a binding's factory, caching singletons. AfterResolving
// callbacks run once no construction lock is held.
func (c *Container) build(key string, b *binding) (any, error) {
	if inst, ok := c.cached(b); ok {
		return inst, nil
	}

	if slices.Contains(c.stack, key) {
		chain := append(slices.Clone(c.stack), key)
		return nil, fmt.Errorf("%w: %s", ErrCircularDependency, strings.Join(chain, " -> "))
	}

	instance, fresh, err := c.construct(key, b)
	if err != nil {
		return nil, err
	}
	if fresh {
		c.fireAfterResolving(key, instance)
	}
	return instance, nil
}

// construct calls the factory under the binding's own lock. fresh is false
// when another goroutine finished the singleton first.
func (c *Container) construct(key string, b *binding) (instance any, fresh bool, err error) {
	if b.singleton {
		b.buildMu.Lock()
		defer b.buildMu.Unlock()
		if inst, ok := c.cached(b); ok {
			return inst, false, nil
		}
	}

	view := &Container{state: c.state, stack: append(slices.Clone(c.stack), key)}
	instance, err = b.factory(view)
	if err != nil {
		return nil, false, fmt.Errorf("building [%s]: %w", key, err)
	}

	if b.singleton {
		c.mu.Lock()
		b.instance, b.built = instance, true
		c.mu.Unlock()
	}
	return instance, true, nil
}

func (c *Container) cached(b *binding) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return b.instance, b.singleton && b.built
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Bound returns true if an abstract has at least one binding.
func (c *Container) Bound(abstract string) bool {
	return c.Count(abstract) > 0
}

// Count returns the number of bindings registered for an abstract.
func (c *Container) Count(abstract string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.bindings[c.canonical(abstract)])
}

// Resolved returns true if every binding of the abstract is a singleton that
// has already been built.
func (c *Container) Resolved(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	bs := c.bindings[c.canonical(abstract)]
	if len(bs) == 0 {
		return false
	}
	for _, b := range bs {
		if !b.built {
			return false
		}
	}
	return true
}

// Bindings returns the sorted list of bound abstract keys (for debugging).
func (c *Container) Bindings() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.bindings))
	for k, bs := range c.bindings {
		if len(bs) > 0 {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// canonical resolves an alias to its canonical key (must hold mu).
func (c *Container) canonical(abstract string) string {
	if target, ok := c.aliases[abstract]; ok {
		return target
	}
	return abstract
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// AfterResolving registers a callback fired each time a factory produces a
// new instance. Cached singletons do not fire it again.
func (c *Container) AfterResolving(cb func(abstract string, instance any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterResolving = append(c.afterResolving, cb)
}

func (c *Container) fireAfterResolving(abstract string, instance any) {
	c.mu.RLock()
	cbs := slices.Clone(c.afterResolving)
	c.mu.RUnlock()
	for _, cb := range cbs {
		cb(abstract, instance)
	}
}

// ── Type keys ─────────────────────────────────────────────────────────────────

// KeyOf returns the package-qualified name of t with pointers stripped,
// e.g. "github.com/acme/app/services.MemoryEventBus". Unnamed types fall back
// to their Go syntax.
func KeyOf(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}

// Key returns KeyOf for the type parameter. Use it for interfaces:
//
//	container.Key[contracts.EventBus]()
func Key[T any]() string {
	return KeyOf(reflect.TypeOf((*T)(nil)).Elem())
}

// TypeKey returns KeyOf for the dynamic type of v.
//
//	key := container.TypeKey((*UserRepository)(nil))
func TypeKey(v any) string {
	return KeyOf(reflect.TypeOf(v))
}

// ── Generics helpers ──────────────────────────────────────────────────────────

// Resolve calls Make and type-asserts the result.
func Resolve[T any](c *Container, abstract string) (T, error) {
	var zero T
	instance, err := c.Make(abstract)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("%w: [%s] resolved to %T, not %T", ErrTypeMismatch, abstract, instance, zero)
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error. Use it in bootstrap code
// where a missing binding is a programming error.
func MustResolve[T any](c *Container, abstract string) T {
	typed, err := Resolve[T](c, abstract)
	if err != nil {
		panic(err)
	}
	return typed
}

// ResolveAll calls MakeAll and type-asserts every result.
func ResolveAll[T any](c *Container, abstract string) ([]T, error) {
	instances, err := c.MakeAll(abstract)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(instances))
	for _, inst := range instances {
		typed, ok := inst.(T)
		if !ok {
			var zero T
			return nil, fmt.Errorf("%w: [%s] resolved to %T, not %T", ErrTypeMismatch, abstract, inst, zero)
		}
		out = append(out, typed)
	}
	return out, nil
}

// Get resolves T under its own type key.
//
//	bus, err := container.Get[contracts.EventBus](c)
func Get[T any](c *Container) (T, error) {
	return Resolve[T](c, Key[T]())
}

// GetAll resolves every binding of T under its own type key.
func GetAll[T any](c *Container) ([]T, error) {
	return ResolveAll[T](c, Key[T]())
}
