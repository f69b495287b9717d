package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/km-arc/go-modular/app/contracts"
)

// AuditEntry is one recorded ticket event.
type AuditEntry struct {
	Event    string    `json:"event"`
	TicketID string    `json:"ticket_id"`
	At       time.Time `json:"at"`
}

// AuditLog records every ticket event it receives.
type AuditLog struct {
	logger *slog.Logger

	mu      sync.Mutex
	entries []AuditEntry
}

// NewAuditLog creates an empty AuditLog.
func NewAuditLog(logger *slog.Logger) *AuditLog {
	return &AuditLog{logger: logger}
}

func (a *AuditLog) ModuleName() string { return "audit-log" }

// Handles lists the ticket events.
func (a *AuditLog) Handles() []string {
	return []string{EventTicketOpened, EventTicketClosed}
}

func (a *AuditLog) Handle(_ context.Context, event contracts.Event) error {
	entry := AuditEntry{Event: event.EventName(), At: time.Now().UTC()}
	if te, ok := event.(TicketEvent); ok {
		entry.TicketID = te.Ticket.ID
	}

	a.mu.Lock()
	a.entries = append(a.entries, entry)
	a.mu.Unlock()

	a.logger.Debug("audit", "event", entry.Event, "ticket", entry.TicketID)
	return nil
}

// Entries returns a copy of the recorded entries.
func (a *AuditLog) Entries() []AuditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]AuditEntry(nil), a.entries...)
}
