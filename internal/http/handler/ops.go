package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// OpsSessions reports idle deadlines armed and sockets connected.
func (h *Handler) OpsSessions(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), time.Second)
	defer cancel()

	return c.JSON(fiber.Map{
		"success":     true,
		"tracked":     h.monitor.Tracked(),
		"connections": h.hub.Connections(ctx),
		"idleTimeout": h.monitor.IdleTimeout().String(),
	})
}

func (h *Handler) OpsAudit(c *fiber.Ctx) error {
	entries, err := h.audit.Recent(c.UserContext(), c.QueryInt("limit", 100))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read audit log",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    entries,
	})
}
