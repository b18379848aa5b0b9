package handler

import (
	"context"
	"encoding/json"
	"log"

	"panel-dashboard/internal/http/middleware"
	"panel-dashboard/internal/realtime"
	"panel-dashboard/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// SessionWSUpgrade admits websocket upgrades that carry a live session.
func (h *Handler) SessionWSUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	claims, st, err := middleware.Resolve(c, h.cfg.JWTSecret, h.monitor)
	if err != nil || claims == nil || !st.LoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Session expired",
		})
	}
	c.Locals("session_id", claims.SessionID)
	return c.Next()
}

type wsMessage struct {
	Type string `json:"type"`
}

// SessionWS pushes logged_in/logged_out/expired events for the
// connection's session and accepts {"type":"activity"} from the browser.
func (h *Handler) SessionWS(c *websocket.Conn) {
	sessionID, _ := c.Locals("session_id").(string)
	if err := c.WriteJSON(fiber.Map{"type": "state", "authenticated": true}); err != nil {
		return
	}

	client := &realtime.Client{SessionID: sessionID, Conn: c}
	if !h.hub.Join(client) {
		return
	}
	defer h.hub.Leave(client)

	// listen client
	for {
		_, raw, err := c.ReadMessage()
		if err != nil {
			break
		}
		var msg wsMessage
		if json.Unmarshal(raw, &msg) != nil || msg.Type != "activity" {
			continue
		}
		ok, err := h.monitor.RecordActivity(context.Background(), sessionID)
		if err != nil {
			log.Printf("[realtime] activity for %s: %v", sessionID, err)
			continue
		}
		if !ok {
			h.hub.Publish(session.Event{SessionID: sessionID, Kind: session.EventExpired, At: h.tickets.Now()})
		}
	}
}
