package events

import (
	"time"

	"github.com/hotel-it/helpdesk/internal/domain"
	"github.com/hotel-it/helpdesk/internal/priority"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketResponseAdded EventType = "ticket_response_added"
)

// AllEventTypes lists every event the services emit.
var AllEventTypes = []EventType{
	EventTicketCreated,
	EventTicketStatusChanged,
	EventTicketAssigned,
	EventTicketResponseAdded,
}

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TicketID  string    `json:"ticket_id"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// TicketCreatedPayload carries the priority computed at creation time. It is
// informational only; readers always recompute.
type TicketCreatedPayload struct {
	ExternalKey   string         `json:"external_key"`
	Title         string         `json:"title"`
	Tags          []string       `json:"tags"`
	IsUrgent      bool           `json:"is_urgent"`
	PriorityScore int            `json:"priority_score"`
	PriorityLevel priority.Level `json:"priority_level"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssigneeID string `json:"assignee_id"`
}

// TicketResponseAddedPayload payload.
type TicketResponseAddedPayload struct {
	ResponseID  string      `json:"response_id"`
	AuthorRole  domain.Role `json:"author_role"`
	BodyPreview string      `json:"body_preview"`
}
