package container

import "fmt"

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups the bindings of one subsystem.
//
// Register binds services into the container and must not resolve other
// bindings. Boot runs after every provider has been registered, so it may
// resolve anything; once all providers have booted the container is frozen.
//
//	type LogServiceProvider struct{ container.BaseProvider }
//
//	func (p *LogServiceProvider) Register(app *container.Container) error {
//	    app.Singleton(container.Key[*slog.Logger](), func(c *container.Container) (any, error) {
//	        return slog.Default(), nil
//	    })
//	    return nil
//	}
type ServiceProvider interface {
	Register(app *Container) error
	Boot(app *Container) error
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable no-op Boot implementation.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry registers and boots ServiceProviders in order and freezes
// the container when bootstrap is complete.
type ProviderRegistry struct {
	app        *Container
	providers  []ServiceProvider
	registered map[ServiceProvider]bool
	booted     bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider and calls its Register method. Registering the
// same provider twice is a no-op. Providers cannot be added after Boot.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	if r.registered[provider] {
		return nil
	}
	if r.booted {
		return fmt.Errorf("%w: provider %T registered after boot", ErrFrozen, provider)
	}
	if err := provider.Register(r.app); err != nil {
		return fmt.Errorf("registering %T: %w", provider, err)
	}
	r.registered[provider] = true
	r.providers = append(r.providers, provider)
	return nil
}

// Boot calls Boot on every provider in registration order, stopping at the
// first error, then freezes the container. Calling Boot again is a no-op.
func (r *ProviderRegistry) Boot() error {
	if r.booted {
		return nil
	}
	for _, provider := range r.providers {
		if err := provider.Boot(r.app); err != nil {
			return fmt.Errorf("booting %T: %w", provider, err)
		}
	}
	r.booted = true
	r.app.Freeze()
	return nil
}

// Booted returns true once Boot has completed.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns the registered providers in order.
func (r *ProviderRegistry) Providers() []ServiceProvider { return r.providers }
