package events

import (
	"time"

	"github.com/helpdesk/chamados/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated           EventType = "ticket_created"
	EventTicketStatusChanged     EventType = "ticket_status_changed"
	EventTicketAssigned          EventType = "ticket_assigned"
	EventTicketAttachmentsAdded  EventType = "ticket_attachments_added"
	EventTicketAttachmentDeleted EventType = "ticket_attachment_deleted"
)

// Event represents a domain event emitted by the workflow service.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int64       `json:"ticket_id"`
	AccountID int64       `json:"account_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title           string                `json:"title"`
	Category        domain.TicketCategory `json:"category"`
	Priority        domain.TicketPriority `json:"priority"`
	AttachmentCount int                   `json:"attachment_count"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketAssignedPayload payload. TechnicianID is nil when the
// technician was removed from the ticket.
type TicketAssignedPayload struct {
	TechnicianID *int64 `json:"technician_id,omitempty"`
}

// TicketAttachmentsAddedPayload payload.
type TicketAttachmentsAddedPayload struct {
	Count int `json:"count"`
}

// TicketAttachmentDeletedPayload payload.
type TicketAttachmentDeletedPayload struct {
	OriginalName string `json:"original_name"`
}
