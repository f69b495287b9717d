package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/km-arc/go-modular/framework/http/validation"
)

// ErrInvalidTicket is returned by NewTicket.Validate.
var ErrInvalidTicket = errors.New("invalid ticket")

type Status string

const (
	StatusUnknown Status = "unknown"
	StatusOpen    Status = "open"
	StatusClosed  Status = "closed"
)

type Type string

const (
	TypeUndefined Type = "undefined"
	TypeBug       Type = "bug"
	TypeFeature   Type = "feature"
	TypeTask      Type = "task"
)

// Types lists every declared ticket type.
var Types = []Type{TypeUndefined, TypeBug, TypeFeature, TypeTask}

// Valid reports whether t is one of the declared types.
func (t Type) Valid() bool { return slices.Contains(Types, t) }

// Ticket is a unit of work tracked by the application.
type Ticket struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Status             Status     `json:"status"`
	Type               Type       `json:"type"`
	CreatedAt          *time.Time `json:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at"`
	DueDate            *time.Time `json:"due_date"`
	Assignees          []string   `json:"assignees"` // usernames or internal IDs
	Labels             []string   `json:"labels"`
	ParentID           *string    `json:"parent_id"`
	MilestoneID        *string    `json:"milestone_id"`
	Comments           []string   `json:"comments"`
	Pinned             bool       `json:"pinned"`
	ConversationLocked bool       `json:"conversation_locked"`
}

// Issue is a ticket mirrored from an external tracker.
type Issue Ticket

// Ticket converts the issue into a local ticket.
func (i Issue) Ticket() Ticket { return Ticket(i) }

// NewTicket is the input for opening a ticket.
type NewTicket struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Type        Type       `json:"type"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Assignees   []string   `json:"assignees,omitempty"`
	Labels      []string   `json:"labels,omitempty"`
}

var newTicketRules = validation.Rules{
	"title":       "required|max:200",
	"description": "nullable|max:10000",
	"type":        "sometimes|in:" + typeList(),
}

func typeList() string {
	names := make([]string, len(Types))
	for i, t := range Types {
		names[i] = string(t)
	}
	return strings.Join(names, ",")
}

// Validate checks the input against the ticket rules. A failure matches
// ErrInvalidTicket and unwraps to the *validation.Errors bag.
func (n NewTicket) Validate() error {
	v := validation.Make(map[string]string{
		"title":       n.Title,
		"description": n.Description,
		"type":        string(n.Type),
	}, newTicketRules)
	if v.Fails() {
		return fmt.Errorf("%w: %w", ErrInvalidTicket, v.Errors())
	}
	return nil
}

// Blank returns a ticket with the default status and type and empty lists.
func Blank() Ticket {
	return Ticket{
		Status:    StatusUnknown,
		Type:      TypeUndefined,
		Assignees: []string{},
		Labels:    []string{},
		Comments:  []string{},
	}
}
