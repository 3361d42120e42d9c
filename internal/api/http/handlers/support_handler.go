package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hotel-it/helpdesk/internal/api/dto"
	"github.com/hotel-it/helpdesk/internal/auth"
	"github.com/hotel-it/helpdesk/internal/service"
	apperrors "github.com/hotel-it/helpdesk/pkg/util/errorutil"
)

// SupportHandler serves the support staff queue and ticket workflow.
type SupportHandler struct {
	tickets *service.TicketService
}

// NewSupportHandler constructs handler.
func NewSupportHandler(ticketService *service.TicketService) *SupportHandler {
	return &SupportHandler{tickets: ticketService}
}

// Queue GET /support/queue.
//
// Query: assignee=me limits to the caller's tickets, unassigned=true to free ones.
func (h *SupportHandler) Queue(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter := service.QueueFilter{Unassigned: c.QueryBool("unassigned")}
	if c.Query("assignee") == "me" {
		filter.AssigneeID = &principal.UserID
	}
	queue, err := h.tickets.SupportQueue(c.UserContext(), principal, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummaries(queue)})
}

// UpdateStatus PATCH /support/tickets/:id/status.
func (h *SupportHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.UpdateStatus(c.UserContext(), principal, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// Assign POST /support/tickets/:id/assign.
func (h *SupportHandler) Assign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticket, err := h.tickets.AssignToSelf(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}
