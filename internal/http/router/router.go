package router

import (
	"panel-dashboard/internal/config"
	"panel-dashboard/internal/http/handler"
	"panel-dashboard/internal/http/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
)

type Options struct {
	// AccessLog enables the request logger; tests leave it off.
	AccessLog bool
}

func New(cfg *config.Config, h *handler.Handler, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		Prefork:       false,
		CaseSensitive: true,
		StrictRouting: true,
		BodyLimit:     32 * 1024 * 1024,
	})

	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "[http] ${time} ${status} ${method} ${path} ${latency}\n",
		}))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE",
	}))

	secret, monitor := cfg.JWTSecret, h.Monitor()
	auth := middleware.SessionAuth(secret, monitor)

	// Pages
	guest := middleware.GuestOnly(secret, monitor)
	pages := middleware.PageAuth(secret, monitor)
	app.Get("/", guest, h.LoginPage)
	// Register stays reachable with a live session.
	app.Get("/register", h.RegisterPage)
	app.Get("/home", pages, h.HomePage)
	app.Get("/tickets", pages, h.TicketsPage)
	app.Get("/ticket/:id", pages, h.TicketPage)

	// Session
	app.Post("/api/auth/login", h.Login)
	app.Post("/api/auth/register", h.Register)
	app.Post("/api/auth/logout", h.Logout)
	app.Get("/api/session", h.Session)
	app.Post("/api/session/activity", auth, h.Activity)
	app.Get("/ws/session", h.SessionWSUpgrade, websocket.New(h.SessionWS))

	// Dashboard API (session required)
	api := app.Group("/api", auth)
	api.Get("/home/overview", h.Overview)
	api.Get("/home/search", h.SearchBusStop)
	api.Get("/tickets", h.ListTickets)
	api.Get("/tickets/:id", h.GetTicket)
	api.Put("/tickets/:id", h.UpdateTicket)
	api.Post("/tickets/:id/attend", h.AttendTicket)
	api.Get("/staff", h.ListStaff)

	ops := app.Group("/ops", middleware.BasicAuth(cfg.BasicAuthUser, cfg.BasicAuthPass))
	ops.Get("/sessions", h.OpsSessions)
	ops.Get("/audit", h.OpsAudit)

	app.Use(h.NotFound)
	return app
}
