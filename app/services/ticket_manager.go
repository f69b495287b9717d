package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/km-arc/go-modular/app/contracts"
	"github.com/km-arc/go-modular/app/models"
)

// TicketManager opens and closes tickets and announces every change on the
// event bus.
type TicketManager struct {
	store  contracts.TicketStore
	bus    contracts.EventBus
	logger *slog.Logger
	now    func() time.Time
}

// NewTicketManager creates a TicketManager backed by store and bus.
func NewTicketManager(store contracts.TicketStore, bus contracts.EventBus, logger *slog.Logger) *TicketManager {
	return &TicketManager{store: store, bus: bus, logger: logger, now: time.Now}
}

func (m *TicketManager) ModuleName() string { return "ticket-manager" }

// Open validates in, stores a new open ticket and publishes ticket.opened.
// A publish failure is returned together with the stored ticket.
func (m *TicketManager) Open(ctx context.Context, in models.NewTicket) (models.Ticket, error) {
	if err := in.Validate(); err != nil {
		return models.Ticket{}, err
	}

	now := m.now().UTC()
	t := models.Blank()
	t.ID = uuid.NewString()
	t.Title = in.Title
	t.Description = in.Description
	t.Status = models.StatusOpen
	if in.Type != "" {
		t.Type = in.Type
	}
	t.DueDate = in.DueDate
	t.CreatedAt, t.UpdatedAt = &now, &now
	if in.Assignees != nil {
		t.Assignees = in.Assignees
	}
	if in.Labels != nil {
		t.Labels = in.Labels
	}

	if err := m.store.Save(ctx, t); err != nil {
		return models.Ticket{}, fmt.Errorf("opening ticket: %w", err)
	}
	m.logger.Info("ticket opened", "id", t.ID, "type", t.Type)

	if err := m.bus.Publish(ctx, TicketEvent{Name: EventTicketOpened, Ticket: t}); err != nil {
		return t, fmt.Errorf("publishing %s: %w", EventTicketOpened, err)
	}
	return t, nil
}

// Close marks a ticket closed. Closing it twice returns ErrTicketClosed.
func (m *TicketManager) Close(ctx context.Context, id string) (models.Ticket, error) {
	t, err := m.store.Find(ctx, id)
	if err != nil {
		return models.Ticket{}, err
	}
	if t.Status == models.StatusClosed {
		return t, fmt.Errorf("%w: %s", ErrTicketClosed, id)
	}

	now := m.now().UTC()
	t.Status = models.StatusClosed
	t.UpdatedAt = &now
	if err := m.store.Save(ctx, t); err != nil {
		return models.Ticket{}, fmt.Errorf("closing ticket: %w", err)
	}
	m.logger.Info("ticket closed", "id", t.ID)

	if err := m.bus.Publish(ctx, TicketEvent{Name: EventTicketClosed, Ticket: t}); err != nil {
		return t, fmt.Errorf("publishing %s: %w", EventTicketClosed, err)
	}
	return t, nil
}

// Get returns a ticket by ID, or ErrTicketNotFound.
func (m *TicketManager) Get(ctx context.Context, id string) (models.Ticket, error) {
	return m.store.Find(ctx, id)
}

// List returns every stored ticket, oldest first.
func (m *TicketManager) List(ctx context.Context) ([]models.Ticket, error) {
	return m.store.List(ctx)
}
