package handler

import (
	"strings"

	"panel-dashboard/internal/backend"
	"panel-dashboard/internal/panels"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) Overview(c *fiber.Ctx) error {
	ov, err := backend.LoadOverview(c.UserContext(), h.api)
	if err != nil {
		return backendError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"summary":    ov.Summary,
			"reports":    ov.Reports,
			"serverTime": h.tickets.Now(),
		},
	})
}

func (h *Handler) SearchBusStop(c *fiber.Ctx) error {
	code := strings.TrimSpace(c.Query("busStopCode"))
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "busStopCode is required",
		})
	}

	list, err := backend.AllPanels(c.UserContext(), h.api, backend.PanelQuery{Search: code})
	if err != nil {
		return backendError(c, err)
	}
	panel, ok := panels.FindByBusStop(list, code)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No panel found for bus stop " + code,
		})
	}

	data := fiber.Map{"panel": panel}
	if nav, ok := panels.NavigationFor(panel); ok {
		data["navigation"] = nav
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}
