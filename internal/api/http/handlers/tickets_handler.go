package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hotel-it/helpdesk/internal/api/dto"
	"github.com/hotel-it/helpdesk/internal/auth"
	"github.com/hotel-it/helpdesk/internal/domain"
	"github.com/hotel-it/helpdesk/internal/service"
	apperrors "github.com/hotel-it/helpdesk/pkg/util/errorutil"
)

// TicketsHandler manages end-user ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// PreviewPriority POST /priority/preview.
func (h *TicketsHandler) PreviewPriority(c *fiber.Ctx) error {
	var req dto.PriorityPreviewRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result := h.service.PreviewPriority(req.Description, req.Tags)
	return c.JSON(fiber.Map{"data": result})
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), principal, service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		IsUrgent:    req.IsUrgent,
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter, err := parseUserTicketQuery(c)
	if err != nil {
		return err
	}
	tickets, err := h.service.ListUserTickets(c.UserContext(), principal, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummaries(tickets)})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	detail, err := h.service.GetTicket(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(detail)})
}

// AddResponse POST /tickets/:id/responses.
func (h *TicketsHandler) AddResponse(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateResponseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	resp, err := h.service.AddResponse(c.UserContext(), principal, c.Params("id"), req.Body)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketResponse(resp)})
}

func parseUserTicketQuery(c *fiber.Ctx) (service.TicketListFilter, error) {
	filter := service.TicketListFilter{}
	statuses, err := parseStatuses(c.Query("status"))
	if err != nil {
		return filter, err
	}
	filter.Statuses = statuses
	filter.CreatedFrom = parseTime(c.Query("created_from"))
	filter.CreatedTo = parseTime(c.Query("created_to"))

	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter, nil
}

func parseStatuses(raw string) ([]domain.TicketStatus, error) {
	if raw == "" {
		return nil, nil
	}
	var statuses []domain.TicketStatus
	for _, part := range strings.Split(raw, ",") {
		status := domain.TicketStatus(strings.ToUpper(strings.TrimSpace(part)))
		if !status.Valid() {
			return nil, apperrors.NewValidationError("invalid status filter", map[string]any{"status": part})
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketSummary(st *service.ScoredTicket) dto.TicketSummary {
	t := st.Ticket
	return dto.TicketSummary{
		ID:           t.ID,
		ExternalKey:  t.ExternalKey,
		CreatedBy:    t.CreatedBy,
		AssigneeID:   t.AssigneeID,
		Title:        t.Title,
		Status:       t.Status,
		Tags:         nonNilStrings(t.Tags),
		IsUrgent:     t.IsUrgent,
		AutoPriority: st.Priority,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func ticketSummaries(tickets []service.ScoredTicket) []dto.TicketSummary {
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return items
}

func ticketDetail(detail *service.TicketDetail) dto.TicketDetailResponse {
	t := detail.Ticket
	responses := make([]dto.TicketResponseResponse, 0, len(detail.Responses))
	for i := range detail.Responses {
		responses = append(responses, ticketResponse(&detail.Responses[i]))
	}
	return dto.TicketDetailResponse{
		ID:           t.ID,
		ExternalKey:  t.ExternalKey,
		CreatedBy:    t.CreatedBy,
		AssigneeID:   t.AssigneeID,
		Title:        t.Title,
		Description:  t.Description,
		Status:       t.Status,
		Tags:         nonNilStrings(t.Tags),
		IsUrgent:     t.IsUrgent,
		ImageURLs:    nonNilStrings(t.ImageURLs),
		AutoPriority: detail.Priority,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		ResolvedAt:   t.ResolvedAt,
		Responses:    responses,
	}
}

func ticketResponse(resp *domain.TicketResponse) dto.TicketResponseResponse {
	return dto.TicketResponseResponse{
		ID:         resp.ID,
		AuthorID:   resp.AuthorID,
		AuthorRole: resp.AuthorRole,
		Body:       resp.Body,
		CreatedAt:  resp.CreatedAt,
	}
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
