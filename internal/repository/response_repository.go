package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hotel-it/helpdesk/internal/domain"
)

// ResponseRepository manages replies on a ticket thread.
type ResponseRepository interface {
	Create(ctx context.Context, resp *domain.TicketResponse) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketResponse, error)
}

type responseRepository struct {
	pool *pgxpool.Pool
}

// NewResponseRepository builds repository.
func NewResponseRepository(pool *pgxpool.Pool) ResponseRepository {
	return &responseRepository{pool: pool}
}

func (r *responseRepository) Create(ctx context.Context, resp *domain.TicketResponse) error {
	const query = `
        INSERT INTO ticket_responses (ticket_id, author_id, author_role, body)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		resp.TicketID,
		resp.AuthorID,
		resp.AuthorRole,
		resp.Body,
	).Scan(&resp.ID, &resp.CreatedAt)
}

func (r *responseRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketResponse, error) {
	const query = `
        SELECT id, ticket_id, author_id, author_role, body, created_at
        FROM ticket_responses WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.TicketResponse{}
	for rows.Next() {
		var resp domain.TicketResponse
		if err := rows.Scan(
			&resp.ID,
			&resp.TicketID,
			&resp.AuthorID,
			&resp.AuthorRole,
			&resp.Body,
			&resp.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, resp)
	}
	return result, rows.Err()
}
