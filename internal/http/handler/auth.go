package handler

import (
	"net/mail"
	"strings"
	"time"

	"panel-dashboard/internal/audit"
	"panel-dashboard/internal/config"
	"panel-dashboard/internal/http/middleware"
	"panel-dashboard/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const tokenTTL = 24 * time.Hour

func (h *Handler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email and password are required",
		})
	}

	if h.captcha.Enabled() {
		if req.RecaptchaToken == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid reCAPTCHA token",
			})
		}
		ok, score, err := h.captcha.Verify(c.UserContext(), req.RecaptchaToken)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "reCAPTCHA verification failed",
			})
		}
		if !ok || score < 0.5 {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Suspicious activity detected",
			})
		}
	}

	user, err := h.api.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return backendError(c, err)
	}

	sessionID := uuid.NewString()
	if err := h.monitor.Login(c.UserContext(), sessionID, user); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Session store unavailable",
		})
	}

	token, err := config.GenerateToken(h.cfg.JWTSecret, sessionID, user.Name, user.Email, tokenTTL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: "Lax",
		Expires:  time.Now().Add(tokenTTL),
	})
	audit.Log(c.UserContext(), h.audit, audit.Entry{SessionID: sessionID, Email: user.Email, Event: audit.EventLogin})

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    user,
		"message": "Welcome back, " + user.DisplayName(),
	})
}

// Register validates locally and forwards to the maintenance API. It does
// not log the new user in.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || req.Name == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name, email and password are required",
		})
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid email address",
		})
	}

	if err := h.api.Register(c.UserContext(), req); err != nil {
		return backendError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Registration successful, please log in",
	})
}
