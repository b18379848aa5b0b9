package handler

import (
	"time"

	"panel-dashboard/internal/audit"
	"panel-dashboard/internal/config"
	"panel-dashboard/internal/http/middleware"

	"github.com/gofiber/fiber/v2"
)

// Logout works whether or not the session is still live; an expired
// session is cleared all the same.
func (h *Handler) Logout(c *fiber.Ctx) error {
	var sessionID, email string
	if claims, err := config.ValidateToken(h.cfg.JWTSecret, middleware.TokenFrom(c)); err == nil {
		sessionID, email = claims.SessionID, claims.Email
		if err := h.monitor.Logout(c.UserContext(), sessionID); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Session store unavailable",
			})
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Expires:  time.Unix(0, 0),
	})
	if sessionID != "" {
		audit.Log(c.UserContext(), h.audit, audit.Entry{SessionID: sessionID, Email: email, Event: audit.EventLogout})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out",
	})
}
