package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hotel-it/helpdesk/internal/domain"
	"github.com/hotel-it/helpdesk/internal/events"
	"github.com/hotel-it/helpdesk/internal/priority"
	"github.com/hotel-it/helpdesk/internal/repository"
	apperrors "github.com/hotel-it/helpdesk/pkg/util/errorutil"
)

const (
	maxTitleLength    = 200
	maxResponseLength = 5000
	queuePageSize     = 500
)

// PriorityRecorder counts created tickets by priority level.
type PriorityRecorder interface {
	RecordPriority(level priority.Level)
}

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	responses  repository.ResponseRepository
	scorer     *priority.Scorer
	dispatcher events.Dispatcher
	recorder   PriorityRecorder
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	ResponseRepo repository.ResponseRepository
	Scorer       *priority.Scorer
	Dispatcher   events.Dispatcher
	Recorder     PriorityRecorder
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Tags        []string
	IsUrgent    bool
	ImageURLs   []string
}

// TicketListFilter describes end-user listing filters.
type TicketListFilter struct {
	Statuses    []domain.TicketStatus
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// QueueFilter narrows the support queue.
type QueueFilter struct {
	AssigneeID *string
	Unassigned bool
}

// ScoredTicket is a ticket together with the priority computed on read.
type ScoredTicket struct {
	Ticket   domain.Ticket
	Priority priority.Result
}

// TicketDetail is a scored ticket with its response thread.
type TicketDetail struct {
	ScoredTicket
	Responses []domain.TicketResponse
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	scorer := deps.Scorer
	if scorer == nil {
		scorer = priority.NewScorer(nil)
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		responses:  deps.ResponseRepo,
		scorer:     scorer,
		dispatcher: deps.Dispatcher,
		recorder:   deps.Recorder,
		now:        time.Now,
	}
}

// PreviewPriority scores a draft ticket without storing anything.
func (s *TicketService) PreviewPriority(description string, tags []string) priority.Result {
	return s.scorer.Score(priority.Ticket{Description: description, Tags: tags})
}

// CreateTicket validates and stores a ticket for the caller.
func (s *TicketService) CreateTicket(ctx context.Context, principal *domain.Principal, input TicketCreateInput) (*ScoredTicket, error) {
	if principal == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if err := validateTicketInput(title, description, input.Tags); err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		ExternalKey: generateTicketKey(),
		CreatedBy:   principal.UserID,
		Title:       title,
		Description: description,
		Tags:        input.Tags,
		IsUrgent:    input.IsUrgent,
		Status:      domain.TicketStatusOpen,
		ImageURLs:   input.ImageURLs,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	scored := s.annotate(*ticket)
	if s.recorder != nil {
		s.recorder.RecordPriority(scored.Priority.Level)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    actorOf(principal),
		Payload: events.TicketCreatedPayload{
			ExternalKey:   ticket.ExternalKey,
			Title:         ticket.Title,
			Tags:          ticket.Tags,
			IsUrgent:      ticket.IsUrgent,
			PriorityScore: scored.Priority.Score,
			PriorityLevel: scored.Priority.Level,
		},
	})
	return &scored, nil
}

// ListUserTickets returns the caller's own tickets, newest first, each scored.
func (s *TicketService) ListUserTickets(ctx context.Context, principal *domain.Principal, filter TicketListFilter) ([]ScoredTicket, error) {
	if principal == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		CreatedBy:   &principal.UserID,
		Statuses:    filter.Statuses,
		CreatedFrom: filter.CreatedFrom,
		CreatedTo:   filter.CreatedTo,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return s.annotateAll(tickets), nil
}

// SupportQueue returns every active ticket ordered by computed priority, oldest
// first among equal scores. The score is not stored, so the whole active set
// is read before ordering.
func (s *TicketService) SupportQueue(ctx context.Context, principal *domain.Principal, filter QueueFilter) ([]ScoredTicket, error) {
	if err := requireStaff(principal); err != nil {
		return nil, err
	}
	tickets, err := s.listActive(ctx, filter.AssigneeID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if filter.Unassigned {
		unassigned := tickets[:0]
		for _, t := range tickets {
			if t.AssigneeID == nil {
				unassigned = append(unassigned, t)
			}
		}
		tickets = unassigned
	}

	queue := s.annotateAll(tickets)
	priority.SortQueue(queue,
		func(st ScoredTicket) int { return st.Priority.Score },
		func(st ScoredTicket) time.Time { return st.Ticket.CreatedAt },
	)
	return queue, nil
}

// GetTicket returns a ticket with its responses. Requesters see only their own tickets.
func (s *TicketService) GetTicket(ctx context.Context, principal *domain.Principal, ticketID string) (*TicketDetail, error) {
	ticket, err := s.loadAccessible(ctx, principal, ticketID)
	if err != nil {
		return nil, err
	}
	responses, err := s.responses.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &TicketDetail{ScoredTicket: s.annotate(*ticket), Responses: responses}, nil
}

// AddResponse appends a reply to an open ticket thread.
func (s *TicketService) AddResponse(ctx context.Context, principal *domain.Principal, ticketID, body string) (*domain.TicketResponse, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("body required", nil)
	}
	if utf8.RuneCountInString(body) > maxResponseLength {
		return nil, apperrors.NewValidationError("body too long", map[string]any{"max_length": maxResponseLength})
	}
	ticket, err := s.loadAccessible(ctx, principal, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == domain.TicketStatusClosed {
		return nil, apperrors.NewConflict("ticket is closed", map[string]any{"ticket_id": ticket.ID})
	}

	resp := &domain.TicketResponse{
		TicketID:   ticket.ID,
		AuthorID:   principal.UserID,
		AuthorRole: principal.Role,
		Body:       body,
	}
	if err := s.responses.Create(ctx, resp); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketResponseAdded,
		TicketID: ticket.ID,
		Actor:    actorOf(principal),
		Payload: events.TicketResponseAddedPayload{
			ResponseID:  resp.ID,
			AuthorRole:  resp.AuthorRole,
			BodyPreview: stringPreview(resp.Body, 120),
		},
	})
	return resp, nil
}

// UpdateStatus moves a ticket through its lifecycle on behalf of support staff.
func (s *TicketService) UpdateStatus(ctx context.Context, principal *domain.Principal, ticketID string, newStatus domain.TicketStatus) (*ScoredTicket, error) {
	if err := requireStaff(principal); err != nil {
		return nil, err
	}
	if !newStatus.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": newStatus})
	}
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !ticket.Status.CanTransition(newStatus) {
		return nil, apperrors.NewConflict("invalid status transition", map[string]any{
			"from": ticket.Status,
			"to":   newStatus,
		})
	}

	oldStatus := ticket.Status
	ticket.Status = newStatus
	switch newStatus {
	case domain.TicketStatusResolved:
		now := s.now()
		ticket.ResolvedAt = &now
	case domain.TicketStatusOpen, domain.TicketStatusInProgress:
		ticket.ResolvedAt = nil
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Actor:    actorOf(principal),
		Payload:  events.TicketStatusChangedPayload{OldStatus: oldStatus, NewStatus: newStatus},
	})
	scored := s.annotate(*ticket)
	return &scored, nil
}

// AssignToSelf takes an active ticket; an OPEN ticket moves to IN_PROGRESS.
func (s *TicketService) AssignToSelf(ctx context.Context, principal *domain.Principal, ticketID string) (*ScoredTicket, error) {
	if err := requireStaff(principal); err != nil {
		return nil, err
	}
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status != domain.TicketStatusOpen && ticket.Status != domain.TicketStatusInProgress {
		return nil, apperrors.NewConflict("ticket is not active", map[string]any{"status": ticket.Status})
	}

	oldStatus := ticket.Status
	assignee := principal.UserID
	ticket.AssigneeID = &assignee
	if ticket.Status == domain.TicketStatusOpen {
		ticket.Status = domain.TicketStatusInProgress
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Actor:    actorOf(principal),
		Payload:  events.TicketAssignedPayload{AssigneeID: assignee},
	})
	if oldStatus != ticket.Status {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticket.ID,
			Actor:    actorOf(principal),
			Payload:  events.TicketStatusChangedPayload{OldStatus: oldStatus, NewStatus: ticket.Status},
		})
	}
	scored := s.annotate(*ticket)
	return &scored, nil
}

func (s *TicketService) listActive(ctx context.Context, assigneeID *string) ([]domain.Ticket, error) {
	var all []domain.Ticket
	for offset := 0; ; offset += queuePageSize {
		page, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
			AssigneeID:  assigneeID,
			Statuses:    []domain.TicketStatus{domain.TicketStatusOpen, domain.TicketStatusInProgress},
			OldestFirst: true,
			Limit:       queuePageSize,
			Offset:      offset,
		})
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < queuePageSize {
			return all, nil
		}
	}
}

func (s *TicketService) annotate(ticket domain.Ticket) ScoredTicket {
	return ScoredTicket{
		Ticket: ticket,
		Priority: s.scorer.Score(priority.Ticket{
			Description: ticket.Description,
			Tags:        ticket.Tags,
			IsUrgent:    ticket.IsUrgent,
		}),
	}
}

func (s *TicketService) annotateAll(tickets []domain.Ticket) []ScoredTicket {
	out := make([]ScoredTicket, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, s.annotate(t))
	}
	return out
}

func (s *TicketService) loadTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	if _, err := uuid.Parse(ticketID); err != nil {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) loadAccessible(ctx context.Context, principal *domain.Principal, ticketID string) (*domain.Ticket, error) {
	if principal == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !principal.Role.IsStaff() && ticket.CreatedBy != principal.UserID {
		// Requesters must not learn that other users' tickets exist.
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	return ticket, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func validateTicketInput(title, description string, tags []string) error {
	details := map[string]any{}
	if title == "" {
		details["title"] = "required"
	} else if utf8.RuneCountInString(title) > maxTitleLength {
		details["title"] = "too long"
	}
	if description == "" {
		details["description"] = "required"
	}
	var unknown []string
	for _, tag := range tags {
		if !domain.IsKnownTag(tag) {
			unknown = append(unknown, tag)
		}
	}
	if len(unknown) > 0 {
		details["tags"] = unknown
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid ticket", details)
	}
	return nil
}

func requireStaff(principal *domain.Principal) error {
	if principal == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !principal.Role.IsStaff() {
		return apperrors.NewForbidden("support role required")
	}
	return nil
}

func generateTicketKey() string {
	return "TCK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func actorOf(principal *domain.Principal) events.Actor {
	return events.Actor{UserID: principal.UserID, Role: principal.Role}
}

func stringPreview(body string, limit int) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= limit {
		return body
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}
