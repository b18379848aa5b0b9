package handler

import (
	"panel-dashboard/internal/http/middleware"

	"github.com/gofiber/fiber/v2"
)

// Session is the polling fallback for the websocket: it never answers
// 401, only authenticated true or false.
func (h *Handler) Session(c *fiber.Ctx) error {
	claims, st, err := middleware.Resolve(c, h.cfg.JWTSecret, h.monitor)
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Session store unavailable",
		})
	}
	if claims == nil || !st.LoggedIn {
		return c.JSON(fiber.Map{
			"authenticated": false,
			"user":          nil,
		})
	}
	return c.JSON(fiber.Map{
		"authenticated": true,
		"user":          st.User,
		"idleTimeout":   h.monitor.IdleTimeout().Seconds(),
	})
}

// Activity restarts the idle window. Browsers call it, throttled, on
// pointer, key, click, scroll and touch events.
func (h *Handler) Activity(c *fiber.Ctx) error {
	ok, err := h.monitor.RecordActivity(c.UserContext(), localString(c, "session_id"))
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Session store unavailable",
		})
	}
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Session expired",
		})
	}
	return c.JSON(fiber.Map{
		"success":       true,
		"authenticated": true,
	})
}
