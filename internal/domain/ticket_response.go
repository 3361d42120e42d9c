package domain

import "time"

// TicketResponse is a reply posted on a ticket thread by its requester or by support.
type TicketResponse struct {
	ID         string
	TicketID   string
	AuthorID   string
	AuthorRole Role
	Body       string
	CreatedAt  time.Time
}
