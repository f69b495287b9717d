package modules

import (
	"log/slog"
	"reflect"

	"github.com/km-arc/go-modular/framework/container"
)

// Decision explains the outcome for one candidate.
type Decision struct {
	Module   string   `json:"module" yaml:"module"`
	Active   bool     `json:"active" yaml:"active"`
	Flag     string   `json:"flag" yaml:"flag"`
	Reason   string   `json:"reason" yaml:"reason"`
	Requires []string `json:"requires,omitempty" yaml:"requires,omitempty"`
}

// Requirement is a capability an active module needs that ended up with no
// binding at all.
type Requirement struct {
	Module     string `json:"module" yaml:"module"`
	Capability string `json:"capability" yaml:"capability"`
}

// Plan is the full record of one activation run.
type Plan struct {
	Catalog      *Catalog      `json:"-" yaml:"-"`
	Dependencies *Dependencies `json:"-" yaml:"-"`
	Enabled      *EnabledSet   `json:"-" yaml:"-"`

	Decisions   []Decision    `json:"decisions" yaml:"decisions"`
	Bindings    []Binding     `json:"bindings,omitempty" yaml:"bindings,omitempty"`
	Unsatisfied []Requirement `json:"unsatisfied,omitempty" yaml:"unsatisfied,omitempty"`
}

// Decision returns the decision recorded for a module name.
func (p *Plan) Decision(module string) (Decision, bool) {
	for _, d := range p.Decisions {
		if d.Module == module {
			return d, true
		}
	}
	return Decision{}, false
}

// Loader activates the modules of a manifest into a container according to
// their flags.
type Loader struct {
	flags  FlagSource
	logger *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger used for activation decisions and warnings.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a Loader reading module flags from flags.
func NewLoader(flags FlagSource, opts ...LoaderOption) *Loader {
	l := &Loader{
		flags:  flags,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Plan discovers, extracts and resolves without touching any container.
func (l *Loader) Plan(marker reflect.Type, m *Manifest) *Plan {
	cat := Discover(marker, m)
	deps := Extract(cat)
	enabled := Resolve(cat, deps, l.flags)

	p := &Plan{Catalog: cat, Dependencies: deps, Enabled: enabled}
	if len(cat.family) == 1 && cat.Len() > 1 {
		l.logger.Debug("no capabilities besides the marker; modules bind under marker and concrete type only",
			"marker", container.KeyOf(marker))
	}
	for _, c := range cat.candidates {
		d := l.decide(c, deps, enabled)
		l.logger.Debug("module decision",
			"module", d.Module, "active", d.Active, "flag", d.Flag, "reason", d.Reason)
		p.Decisions = append(p.Decisions, d)
	}
	return p
}

func (l *Loader) decide(c *Candidate, deps *Dependencies, enabled *EnabledSet) Decision {
	flag := Unset
	if l.flags != nil {
		flag = l.flags.Flag(FlagKey(c.Name))
	}

	d := Decision{Module: c.Name, Active: enabled.Contains(c.Type), Flag: flag.String()}
	for _, t := range deps.Of(c.Type) {
		d.Requires = append(d.Requires, container.KeyOf(t))
	}

	switch {
	case flag == Enabled:
		d.Reason = "enabled"
	case flag == Disabled:
		d.Reason = "disabled"
	case d.Active:
		if parent, ok := enabled.RequiredBy(c.Type); ok {
			d.Reason = "required by " + parent.Name
		} else {
			d.Reason = "required"
		}
	default:
		d.Reason = "not configured"
	}
	return d
}

// RegisterModules activates the modules of m that implement marker and
// binds them into c. It never fails: a capability left without bindings is
// logged as a warning and reported in Plan.Unsatisfied, and the missing
// binding surfaces when something resolves it.
//
// It is meant to run once per container, during bootstrap.
func (l *Loader) RegisterModules(marker reflect.Type, m *Manifest, c *container.Container) *Plan {
	p := l.Plan(marker, m)
	p.Bindings = Bind(p.Catalog, p.Enabled, c)
	p.Unsatisfied = l.check(p, c)

	l.logger.Info("modules activated",
		"candidates", p.Catalog.Len(),
		"enabled", p.Enabled.Len(),
		"bindings", len(p.Bindings),
		"unsatisfied", len(p.Unsatisfied))
	return p
}

// check reports requirements of active modules with zero bindings in c.
func (l *Loader) check(p *Plan, c *container.Container) []Requirement {
	var out []Requirement
	for _, cand := range p.Enabled.Members() {
		for _, dep := range p.Dependencies.Of(cand.Type) {
			key := container.KeyOf(dep)
			if c.Bound(key) {
				continue
			}
			l.logger.Warn("module requires a capability with no bindings",
				"module", cand.Name, "capability", key)
			out = append(out, Requirement{Module: cand.Name, Capability: key})
		}
	}
	return out
}
