package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"

	"github.com/km-arc/go-modular/framework/config"
	"github.com/km-arc/go-modular/framework/container"
	"github.com/km-arc/go-modular/framework/modules"
	"github.com/km-arc/go-modular/framework/providers"
	"github.com/km-arc/go-modular/framework/routing"
)

// Options configures New.
type Options struct {
	Config config.Options

	// Repository replaces loading Config, mostly for tests.
	Repository *config.Repository

	LogWriter io.Writer

	// Marker and Manifest select the modules to activate.
	Marker   reflect.Type
	Manifest *modules.Manifest

	// Routes mounts application routes on the router.
	Routes func(r *routing.Router, c *container.Container) error
}

// Application is the top-level container. It embeds the Container and the
// ProviderRegistry so callers can bind and resolve on it directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
}

// New creates the application and registers the framework providers.
func New(opts Options) (*Application, error) {
	c := container.New()
	registry := container.NewProviderRegistry(c)

	app := &Application{
		Container: c,
		Providers: registry,
	}

	core := []container.ServiceProvider{
		&providers.ConfigServiceProvider{Options: opts.Config, Repository: opts.Repository},
		&providers.LogServiceProvider{Writer: opts.LogWriter},
		&providers.ModuleServiceProvider{Marker: opts.Marker, Manifest: opts.Manifest},
		&providers.RoutingServiceProvider{Routes: opts.Routes},
	}
	for _, p := range core {
		if err := registry.Register(p); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot phase of every provider and freezes the container.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Config resolves *config.Config.
func (a *Application) Config() *config.Config {
	return container.MustResolve[*config.Config](a.Container, container.Key[*config.Config]())
}

// Logger resolves *slog.Logger.
func (a *Application) Logger() *slog.Logger {
	return container.MustResolve[*slog.Logger](a.Container, container.Key[*slog.Logger]())
}

// Plan returns the module activation plan. It is only available after Boot.
func (a *Application) Plan() (*modules.Plan, error) {
	return container.Get[*modules.Plan](a.Container)
}

// Router resolves *routing.Router.
func (a *Application) Router() (*routing.Router, error) {
	return container.Get[*routing.Router](a.Container)
}

// Run boots the application if needed and serves HTTP until ctx is done,
// then shuts the server down gracefully.
func (a *Application) Run(ctx context.Context) error {
	if !a.Providers.Booted() {
		if err := a.Boot(); err != nil {
			return err
		}
	}

	cfg := a.Config()
	logger := a.Logger()
	router, err := a.Router()
	if err != nil {
		return fmt.Errorf("resolving router: %w", err)
	}

	srv := &http.Server{Addr: cfg.HTTP.Addr, Handler: router}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "app", cfg.App.Name, "addr", cfg.HTTP.Addr, "env", cfg.App.Env)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// Environment returns the configured app environment.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }
