package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hotel-it/helpdesk/internal/api/http/handlers"
	"github.com/hotel-it/helpdesk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	Support        *handlers.SupportHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	protected := app.Group("", cfg.AuthMiddleware.Handle)
	protected.Post("/priority/preview", cfg.Tickets.PreviewPriority)

	tickets := protected.Group("/tickets")
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Post("/:id/responses", cfg.Tickets.AddResponse)

	support := protected.Group("/support", auth.RequireStaff())
	support.Get("/queue", cfg.Support.Queue)
	support.Patch("/tickets/:id/status", cfg.Support.UpdateStatus)
	support.Post("/tickets/:id/assign", cfg.Support.Assign)
}
