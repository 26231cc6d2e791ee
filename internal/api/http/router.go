package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk/chamados/internal/api/http/handlers"
	"github.com/helpdesk/chamados/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Auth    *handlers.AuthHandler
	Tickets *handlers.TicketsHandler
	Session *auth.SessionMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/login", cfg.Session.RedirectIfAuthenticated, cfg.Auth.ShowLogin)
	app.Post("/login", cfg.Auth.Login)
	app.Get("/cadastro", cfg.Session.RedirectIfAuthenticated, cfg.Auth.ShowRegister)
	app.Post("/cadastro", cfg.Auth.Register)

	protected := app.Group("", cfg.Session.RequireAccount)
	protected.Get("/dashboard", cfg.Tickets.Dashboard)
	protected.Get("/criar", cfg.Tickets.ShowCreate)
	protected.Post("/criar", cfg.Tickets.Create)
	protected.Get("/detalhes/:id", cfg.Tickets.Detail)
	protected.Post("/detalhes/:id", cfg.Tickets.Update)
	protected.Post("/deletar-anexo/:chamadoID/:anexoID", cfg.Tickets.DeleteAttachment)
	protected.Get("/logout", cfg.Auth.Logout)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	})
}
