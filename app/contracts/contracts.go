// Package contracts declares the capabilities application modules provide
// and consume. Every capability embeds Module, the marker the module loader
// activates by.
package contracts

import (
	"context"

	"github.com/km-arc/go-modular/app/models"
)

// Module marks a type the module loader may activate.
type Module interface {
	ModuleName() string
}

// Event is anything published on an EventBus.
type Event interface {
	EventName() string
}

// EventBus delivers events to the handlers interested in them.
type EventBus interface {
	Module
	Publish(ctx context.Context, event Event) error
}

// EventHandler receives the events whose name is listed by Handles.
type EventHandler interface {
	Module
	Handles() []string
	Handle(ctx context.Context, event Event) error
}

// ConfigService binds a configuration section into a struct.
type ConfigService interface {
	Module
	GetConfig(section string, out any) error
}

// TicketStore persists tickets.
type TicketStore interface {
	Module
	Save(ctx context.Context, t models.Ticket) error
	Find(ctx context.Context, id string) (models.Ticket, error)
	List(ctx context.Context) ([]models.Ticket, error)
}

// TicketService is the ticket workflow exposed to callers.
type TicketService interface {
	Module
	Open(ctx context.Context, in models.NewTicket) (models.Ticket, error)
	Close(ctx context.Context, id string) (models.Ticket, error)
	Get(ctx context.Context, id string) (models.Ticket, error)
	List(ctx context.Context) ([]models.Ticket, error)
}
