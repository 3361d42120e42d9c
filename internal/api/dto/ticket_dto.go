package dto

import (
	"time"

	"github.com/hotel-it/helpdesk/internal/domain"
	"github.com/hotel-it/helpdesk/internal/priority"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	IsUrgent    bool     `json:"is_urgent"`
	ImageURLs   []string `json:"image_urls"`
}

// PriorityPreviewRequest is a draft ticket scored before submission.
type PriorityPreviewRequest struct {
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// CreateResponseRequest payload.
type CreateResponseRequest struct {
	Body string `json:"body"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// TicketSummary response.
type TicketSummary struct {
	ID           string              `json:"id"`
	ExternalKey  string              `json:"external_key"`
	CreatedBy    string              `json:"created_by"`
	AssigneeID   *string             `json:"assignee_id"`
	Title        string              `json:"title"`
	Status       domain.TicketStatus `json:"status"`
	Tags         []string            `json:"tags"`
	IsUrgent     bool                `json:"is_urgent"`
	AutoPriority priority.Result     `json:"auto_priority"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	ID           string                   `json:"id"`
	ExternalKey  string                   `json:"external_key"`
	CreatedBy    string                   `json:"created_by"`
	AssigneeID   *string                  `json:"assignee_id"`
	Title        string                   `json:"title"`
	Description  string                   `json:"description"`
	Status       domain.TicketStatus      `json:"status"`
	Tags         []string                 `json:"tags"`
	IsUrgent     bool                     `json:"is_urgent"`
	ImageURLs    []string                 `json:"image_urls"`
	AutoPriority priority.Result          `json:"auto_priority"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
	ResolvedAt   *time.Time               `json:"resolved_at"`
	Responses    []TicketResponseResponse `json:"responses"`
}

// TicketResponseResponse represents a reply on the ticket thread.
type TicketResponseResponse struct {
	ID         string      `json:"id"`
	AuthorID   string      `json:"author_id"`
	AuthorRole domain.Role `json:"author_role"`
	Body       string      `json:"body"`
	CreatedAt  time.Time   `json:"created_at"`
}
