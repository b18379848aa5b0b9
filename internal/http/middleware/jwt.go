package middleware

import (
	"strings"

	"panel-dashboard/internal/config"
	"panel-dashboard/internal/session"

	"github.com/gofiber/fiber/v2"
)

// TokenCookie carries the session token for page routes.
const TokenCookie = "session_token"

// TokenFrom looks for the session token in the Authorization header, the
// session cookie and, for websocket upgrades, the token query parameter.
func TokenFrom(c *fiber.Ctx) string {
	if authHeader := c.Get("Authorization"); authHeader != "" {
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) == 2 && tokenParts[0] == "Bearer" {
			return tokenParts[1]
		}
		return ""
	}
	if tok := c.Cookies(TokenCookie); tok != "" {
		return tok
	}
	return c.Query("token")
}

// Resolve validates the token and asks the monitor whether its session is
// still logged in. It never writes a response.
func Resolve(c *fiber.Ctx, secret string, monitor *session.Monitor) (*config.SessionClaims, session.State, error) {
	tok := TokenFrom(c)
	if tok == "" {
		return nil, session.State{}, nil
	}
	claims, err := config.ValidateToken(secret, tok)
	if err != nil {
		return nil, session.State{}, nil
	}
	st, err := monitor.Current(c.UserContext(), claims.SessionID)
	if err != nil {
		return claims, session.State{}, err
	}
	return claims, st, nil
}

func setLocals(c *fiber.Ctx, claims *config.SessionClaims, st session.State) {
	c.Locals("session_id", claims.SessionID)
	c.Locals("email", claims.Email)
	c.Locals("name", claims.Name)
	if st.User != nil {
		c.Locals("user", *st.User)
		if st.User.Name != "" {
			c.Locals("name", st.User.Name)
		}
	}
}

// SessionAuth guards the JSON API: 401 unless the session is logged in.
func SessionAuth(secret string, monitor *session.Monitor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, st, err := Resolve(c, secret, monitor)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Session store unavailable",
			})
		}
		if claims == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing or invalid session token",
			})
		}
		if !st.LoggedIn {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Session expired",
			})
		}

		setLocals(c, claims, st)
		return c.Next()
	}
}

// PageAuth guards dashboard pages: unauthenticated visitors go back to the
// login page.
func PageAuth(secret string, monitor *session.Monitor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, st, err := Resolve(c, secret, monitor)
		if err != nil || claims == nil || !st.LoggedIn {
			return c.Redirect("/", fiber.StatusFound)
		}
		setLocals(c, claims, st)
		return c.Next()
	}
}

// GuestOnly sends logged-in visitors of the login/register pages to /home.
func GuestOnly(secret string, monitor *session.Monitor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, st, err := Resolve(c, secret, monitor)
		if err == nil && claims != nil && st.LoggedIn {
			return c.Redirect("/home", fiber.StatusFound)
		}
		return c.Next()
	}
}
