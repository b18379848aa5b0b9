package handler

import (
	"context"
	"errors"
	"log"

	"panel-dashboard/internal/audit"
	"panel-dashboard/internal/backend"
	"panel-dashboard/internal/config"
	"panel-dashboard/internal/models"
	"panel-dashboard/internal/realtime"
	"panel-dashboard/internal/session"
	"panel-dashboard/internal/tickets"

	"github.com/gofiber/fiber/v2"
)

// Backend is the maintenance API as the handlers use it.
type Backend interface {
	BaseURL() string
	Login(ctx context.Context, email, password string) (models.User, error)
	Register(ctx context.Context, r models.RegisterRequest) error
	ListTickets(ctx context.Context) ([]models.Ticket, error)
	GetTicket(ctx context.Context, id string) (models.Ticket, error)
	UpdateTicket(ctx context.Context, t models.Ticket, faultMedia, actionMedia *backend.MediaFile) (models.TicketActionResponse, error)
	AttendTicket(ctx context.Context, id, staffName string) (models.TicketActionResponse, error)
	ListStaff(ctx context.Context) ([]models.Staff, error)
	ListPanels(ctx context.Context, q backend.PanelQuery) ([]models.Panel, error)
}

type Handler struct {
	cfg     *config.Config
	api     Backend
	monitor *session.Monitor
	tickets *tickets.Engine
	hub     *realtime.SessionHub
	audit   audit.Recorder
	captcha *config.RecaptchaVerifier
}

type Deps struct {
	Config  *config.Config
	API     Backend
	Monitor *session.Monitor
	Tickets *tickets.Engine
	Hub     *realtime.SessionHub
	Audit   audit.Recorder
	Captcha *config.RecaptchaVerifier
}

func New(d Deps) *Handler {
	if d.Audit == nil {
		d.Audit = audit.Nop{}
	}
	if d.Captcha == nil {
		d.Captcha = config.NewRecaptchaVerifier(d.Config.RecaptchaSecret)
	}
	return &Handler{
		cfg:     d.Config,
		api:     d.API,
		monitor: d.Monitor,
		tickets: d.Tickets,
		hub:     d.Hub,
		audit:   d.Audit,
		captcha: d.Captcha,
	}
}

// Monitor is exposed for the router's auth middleware.
func (h *Handler) Monitor() *session.Monitor { return h.monitor }

func (h *Handler) Secret() string { return h.cfg.JWTSecret }

// backendError turns a maintenance API failure into a response. Upstream
// 4xx keep their status, everything else is a bad gateway.
func backendError(c *fiber.Ctx, err error) error {
	var apiErr *backend.APIError
	switch {
	case errors.As(err, &apiErr):
		status := fiber.StatusBadGateway
		switch {
		case apiErr.Status >= 400 && apiErr.Status < 500:
			status = apiErr.Status
		case apiErr.Status < 300:
			// 2xx with success=false
			status = fiber.StatusUnprocessableEntity
		}
		msg := apiErr.Message
		if msg == "" {
			msg = "Maintenance API rejected the request"
		}
		return c.Status(status).JSON(fiber.Map{"error": msg})
	case errors.Is(err, backend.ErrMalformedResponse):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Unexpected response from maintenance API",
		})
	case errors.Is(err, backend.ErrUnavailable):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Maintenance API unavailable",
		})
	}
	log.Printf("[handler] %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}

func localString(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}
