package services

import "github.com/km-arc/go-modular/app/models"

const (
	EventTicketOpened = "ticket.opened"
	EventTicketClosed = "ticket.closed"
)

// TicketEvent is published by TicketManager on every state change.
type TicketEvent struct {
	Name   string
	Ticket models.Ticket
}

func (e TicketEvent) EventName() string { return e.Name }
