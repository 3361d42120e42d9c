package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hotel-it/helpdesk/internal/domain"
)

const (
	defaultListLimit = 20
	maxListLimit     = 500
)

// TicketFilter captures list parameters.
type TicketFilter struct {
	CreatedBy   *string
	AssigneeID  *string
	Statuses    []domain.TicketStatus
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	OldestFirst bool
	Limit       int
	Offset      int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, external_key, created_by, assignee_id, title, description, tags,
               is_urgent, status, image_urls, created_at, updated_at, resolved_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (external_key, created_by, assignee_id, title, description, tags, is_urgent, status, image_urls)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.ExternalKey,
		ticket.CreatedBy,
		ticket.AssigneeID,
		ticket.Title,
		ticket.Description,
		nonNil(ticket.Tags),
		ticket.IsUrgent,
		ticket.Status,
		nonNil(ticket.ImageURLs),
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET assignee_id=$1, title=$2, description=$3, tags=$4, is_urgent=$5,
            status=$6, image_urls=$7, resolved_at=$8, updated_at=NOW()
        WHERE id=$9
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		ticket.AssigneeID,
		ticket.Title,
		ticket.Description,
		nonNil(ticket.Tags),
		ticket.IsUrgent,
		ticket.Status,
		nonNil(ticket.ImageURLs),
		ticket.ResolvedAt,
		ticket.ID,
	).Scan(&ticket.UpdatedAt)
	if err != nil {
		return err
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	query, args := buildListQuery(filter)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func buildListQuery(filter TicketFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CreatedBy != nil {
		args = append(args, *filter.CreatedBy)
		clauses = append(clauses, fmt.Sprintf("created_by=$%d", len(args)))
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("assignee_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	order := "created_at DESC, id DESC"
	if filter.OldestFirst {
		order = "created_at ASC, id ASC"
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY %s LIMIT %d OFFSET %d`,
		ticketColumns, strings.Join(clauses, " AND "), order, limit, offset)
	return query, args
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.ExternalKey,
		&ticket.CreatedBy,
		&ticket.AssigneeID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Tags,
		&ticket.IsUrgent,
		&ticket.Status,
		&ticket.ImageURLs,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.ResolvedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
