// Package modules decides which implementations of a capability marker are
// activated and binds them into a container.
//
// # Manifest
//
// Modules are listed explicitly, once, in a Manifest. Each entry is a
// constructor function; its return type is the module's concrete type.
//
//	manifest := new(modules.Manifest).
//	    Provide(services.NewMemoryEventBus).
//	    Provide(services.NewTicketManager)
//
// # Dependencies
//
// A module's requirements are read from the parameters of its primary
// constructor (the one with most parameters; alternates are added with
// WithConstructor). Interface parameters and parameters whose type is
// another module are requirements; everything else is ignored. WithRequires
// replaces the inferred list with an explicit one.
//
// # Flags
//
// Each module has a tri-state flag at
//
//	Services:<FullTypeName>:Enabled
//
// where FullTypeName is "pkgpath.TypeName". Enabled modules are activated
// together with every module implementing what they require. Disabled
// modules are never activated, even when required. Unset modules are
// activated only when required.
//
// # Binding
//
// Each active module is bound once under its concrete type and once under
// every capability interface it implements, all sharing one lazily built
// instance. Several modules implementing the same capability are all bound
// and resolve in manifest order:
//
//	loader := modules.NewLoader(cfg, modules.WithLogger(logger))
//	plan := loader.RegisterModules(modules.TypeOf[contracts.Module](), manifest, c)
//	buses, err := container.GetAll[contracts.EventBus](c)
//
// Activation itself never fails. A module whose requirement ends up with no
// binding is reported in Plan.Unsatisfied and logged; resolving it later
// returns container.ErrNoBinding.
package modules
