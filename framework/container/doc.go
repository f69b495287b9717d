// Package container provides the service registry that activated modules are
// bound into, together with a small ServiceProvider system for bootstrap.
//
// # Overview
//
// Bindings are keyed by string. Type keys produced by KeyOf / Key / TypeKey
// ("pkgpath.Name") are the convention for interfaces and concrete types so a
// capability can be looked up by its Go type.
//
// Unlike a classic single-slot container, an abstract may carry several
// bindings. Make returns the most recent one; MakeAll returns all of them in
// registration order. This is how several implementations of one capability
// are exposed side by side.
//
// # Lifecycle
//
//  1. Create: c := container.New()
//  2. Register providers: registry.Register(&MyProvider{})
//  3. Boot: registry.Boot(), the container is frozen afterwards
//  4. Resolve capabilities
//
// # Bindings
//
//	// Transient: new instance every Make()
//	c.Bind("clock", func(c *container.Container) (any, error) { return &Clock{}, nil })
//
//	// Singleton: created once, reused
//	c.Singleton(container.Key[*Cache](), func(c *container.Container) (any, error) {
//	    cfg, err := container.Get[*config.Config](c)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return NewCache(cfg), nil
//	})
//
//	// Pre-built value
//	c.Instance("config", cfg)
//
//	// Fan-out
//	c.Add(container.Key[EventHandler](), auditFactory)
//	c.Add(container.Key[EventHandler](), mailFactory)
//	handlers, err := container.GetAll[EventHandler](c)
//
// # Resolving
//
//	raw, err := c.Make("config")
//	cache, err := container.Get[*Cache](c)
//	cache := container.MustResolve[*Cache](c, container.Key[*Cache]())
//
// A missing binding is reported at resolution time as ErrNoBinding. Factories
// that depend on each other in a cycle are reported as ErrCircularDependency.
package container
