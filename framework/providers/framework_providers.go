package providers

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"reflect"

	"github.com/km-arc/go-modular/framework/config"
	"github.com/km-arc/go-modular/framework/container"
	gohttp "github.com/km-arc/go-modular/framework/http"
	applog "github.com/km-arc/go-modular/framework/log"
	"github.com/km-arc/go-modular/framework/modules"
	"github.com/km-arc/go-modular/framework/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the configuration and binds it.
//
// Bound abstracts:
//   - *config.Repository (alias "config")
//   - *config.Config
type ConfigServiceProvider struct {
	container.BaseProvider
	Options config.Options

	// Repository, when set, is bound instead of loading Options.
	Repository *config.Repository
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	repo := p.Repository
	if repo == nil {
		var err error
		if repo, err = config.Load(p.Options); err != nil {
			return err
		}
	}
	app.Instance(container.Key[*config.Repository](), repo)
	app.Alias(container.Key[*config.Repository](), "config")
	app.Instance(container.Key[*config.Config](), repo.Config())
	return nil
}

// ── LogServiceProvider ────────────────────────────────────────────────────────

// LogServiceProvider binds the application logger.
//
// Bound abstracts:
//   - *slog.Logger (alias "logger")
type LogServiceProvider struct {
	container.BaseProvider
	Writer io.Writer // default: os.Stderr
}

func (p *LogServiceProvider) Register(app *container.Container) error {
	w := p.Writer
	if w == nil {
		w = os.Stderr
	}
	app.Singleton(container.Key[*slog.Logger](), func(c *container.Container) (any, error) {
		cfg, err := container.Get[*config.Config](c)
		if err != nil {
			return nil, err
		}
		return applog.New(cfg.Log, w), nil
	})
	app.Alias(container.Key[*slog.Logger](), "logger")
	return nil
}

// ── ModuleServiceProvider ─────────────────────────────────────────────────────

// ModuleServiceProvider activates the modules of Manifest that implement
// Marker, using the configuration repository as flag source. Activation runs
// in Boot, before the container is frozen.
//
// Bound abstracts:
//   - every active module, under its type and its capabilities
//   - *modules.Plan
type ModuleServiceProvider struct {
	container.BaseProvider
	Marker   reflect.Type
	Manifest *modules.Manifest
}

func (p *ModuleServiceProvider) Register(_ *container.Container) error { return nil }

func (p *ModuleServiceProvider) Boot(app *container.Container) error {
	repo, err := container.Get[*config.Repository](app)
	if err != nil {
		return err
	}
	logger, err := container.Get[*slog.Logger](app)
	if err != nil {
		return err
	}

	loader := modules.NewLoader(repo, modules.WithLogger(logger))
	plan := loader.RegisterModules(p.Marker, p.Manifest, app)
	app.Instance(container.Key[*modules.Plan](), plan)
	return nil
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider binds the HTTP router with the admin endpoints and
// the application routes.
//
// Bound abstracts:
//   - *routing.Router (alias "router")
//
// Admin endpoints:
//   - GET /healthz
//   - GET /modules   activation plan of this process
type RoutingServiceProvider struct {
	container.BaseProvider
	Routes func(r *routing.Router, c *container.Container) error
}

func (p *RoutingServiceProvider) Register(app *container.Container) error {
	routes := p.Routes
	app.Singleton(container.Key[*routing.Router](), func(c *container.Container) (any, error) {
		logger, err := container.Get[*slog.Logger](c)
		if err != nil {
			return nil, err
		}
		r := routing.New(logger)
		root := c.Root()

		r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			gohttp.NewResponse(w).Success(map[string]any{"status": "ok"})
		})
		r.Get("/modules", func(w http.ResponseWriter, _ *http.Request) {
			plan, err := container.Get[*modules.Plan](root)
			if err != nil {
				gohttp.NewResponse(w).ServiceUnavailable("modules not activated")
				return
			}
			gohttp.NewResponse(w).Success(plan)
		})

		if routes != nil {
			if err := routes(r, root); err != nil {
				return nil, err
			}
		}
		return r, nil
	})
	app.Alias(container.Key[*routing.Router](), "router")
	return nil
}
