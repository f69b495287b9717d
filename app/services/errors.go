package services

import "errors"

var (
	// ErrTicketNotFound is returned when no ticket has the requested ID.
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrTicketClosed is returned when closing a ticket twice.
	ErrTicketClosed = errors.New("ticket already closed")
)
