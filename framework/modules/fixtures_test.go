package modules_test

import (
	"reflect"
	"sync/atomic"

	"github.com/km-arc/go-modular/framework/container"
	"github.com/km-arc/go-modular/framework/modules"
)

// ── capabilities ──────────────────────────────────────────────────────────────

type Module interface{ ModuleName() string }

type EventBus interface {
	Module
	Publish(event string)
}

type Handler interface {
	Module
	Handle(event string)
}

type Pinger interface {
	Module
	Ping() string
}

type Ponger interface {
	Module
	Pong() string
}

// Unrelated is an interface outside the marker family.
type Unrelated interface{ Unrelated() }

// ── modules ───────────────────────────────────────────────────────────────────

var built atomic.Int64

func nextID() int64 { return built.Add(1) }

type EventBusImpl struct {
	id     int64
	events []string
}

func NewEventBusImpl() *EventBusImpl { return &EventBusImpl{id: nextID()} }

func (b *EventBusImpl) ModuleName() string    { return "event-bus" }
func (b *EventBusImpl) Publish(event string) { b.events = append(b.events, event) }

type OtherBus struct{ id int64 }

func NewOtherBus() *OtherBus { return &OtherBus{id: nextID()} }

func (b *OtherBus) ModuleName() string { return "other-bus" }
func (b *OtherBus) Publish(string)     {}

type ManagerImpl struct {
	id  int64
	Bus EventBus
}

func NewManagerImpl(bus EventBus) *ManagerImpl { return &ManagerImpl{id: nextID(), Bus: bus} }

func (m *ManagerImpl) ModuleName() string { return "manager" }

type X struct{ p Ponger }

func NewX(p Ponger) *X { return &X{p: p} }

func (x *X) ModuleName() string { return "x" }
func (x *X) Ping() string       { return "ping" }

type Y struct{ p Pinger }

func NewY(p Pinger) *Y { return &Y{p: p} }

func (y *Y) ModuleName() string { return "y" }
func (y *Y) Pong() string       { return "pong" }

type AuditHandler struct {
	id      int64
	handled []string
}

func NewAuditHandler() *AuditHandler { return &AuditHandler{id: nextID()} }

func (h *AuditHandler) ModuleName() string  { return "audit" }
func (h *AuditHandler) Handle(event string) { h.handled = append(h.handled, event) }

type MetricsHandler struct{ id int64 }

func NewMetricsHandler() *MetricsHandler { return &MetricsHandler{id: nextID()} }

func (h *MetricsHandler) ModuleName() string { return "metrics" }
func (h *MetricsHandler) Handle(string)      {}

// HandlerHost fans out to every Handler.
type HandlerHost struct{ Handlers []Handler }

func NewHandlerHost(hs ...Handler) *HandlerHost { return &HandlerHost{Handlers: hs} }

func (h *HandlerHost) ModuleName() string { return "handler-host" }

// Settings is a plain config value; it is never a dependency.
type Settings struct{ Name string }

// Configured mixes qualifying and non-qualifying parameters.
type Configured struct{ Bus EventBus }

func NewConfigured(_ Settings, _ string, _ any, bus EventBus, _ Unrelated) *Configured {
	return &Configured{Bus: bus}
}

func (c *Configured) ModuleName() string { return "configured" }

// Exact depends on a concrete module type rather than a capability.
type Exact struct{ Bus *EventBusImpl }

func NewExact(bus *EventBusImpl) *Exact { return &Exact{Bus: bus} }

func (e *Exact) ModuleName() string { return "exact" }

// Hosted receives the container itself.
type Hosted struct{ C *container.Container }

func NewHosted(c *container.Container) *Hosted { return &Hosted{C: c} }

func (h *Hosted) ModuleName() string { return "hosted" }

// Locator looks its bus up through the container it is handed.
type Locator struct{ Bus EventBus }

func NewLocator(c *container.Container) (*Locator, error) {
	bus, err := container.Get[EventBus](c)
	if err != nil {
		return nil, err
	}
	return &Locator{Bus: bus}, nil
}

func (l *Locator) ModuleName() string { return "locator" }

// NotAModule does not implement the marker.
type NotAModule struct{}

func NewNotAModule() *NotAModule { return &NotAModule{} }

// ── helpers ───────────────────────────────────────────────────────────────────

var marker = modules.TypeOf[Module]()

func typeOf[T any]() reflect.Type { return modules.TypeOf[T]() }

func nameOf[T any]() string { return container.Key[T]() }

func flags(kv ...any) modules.StaticFlags {
	out := modules.StaticFlags{}
	for i := 0; i+1 < len(kv); i += 2 {
		out[modules.FlagKey(kv[i].(string))] = kv[i+1]
	}
	return out
}

// scenarioManifest is {EventBusImpl, ManagerImpl}.
func scenarioManifest() *modules.Manifest {
	return new(modules.Manifest).
		Provide(NewEventBusImpl).
		Provide(NewManagerImpl)
}

func activate(t interface{ Helper() }, m *modules.Manifest, f modules.FlagSource) (*modules.Plan, *container.Container) {
	t.Helper()
	c := container.New()
	plan := modules.NewLoader(f).RegisterModules(marker, m, c)
	return plan, c
}
