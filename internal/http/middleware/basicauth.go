package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
)

// BasicAuth protects the ops routes. With no user configured every
// request is refused.
func BasicAuth(user, pass string) fiber.Handler {
	users := map[string]string{}
	if user != "" {
		users[user] = pass
	}
	return basicauth.New(basicauth.Config{
		Users: users,
		Unauthorized: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		},
	})
}
