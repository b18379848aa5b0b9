package handler

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var shell = template.Must(template.New("shell").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}} | Panel Maintenance</title>
</head>
<body data-page="{{.Page}}"{{with .TicketID}} data-ticket-id="{{.}}"{{end}}>
<div id="app"></div>
<script src="/static/app.js" defer></script>
</body>
</html>
`))

type page struct {
	Title    string
	Page     string
	TicketID string
}

func render(c *fiber.Ctx, p page) error {
	var buf bytes.Buffer
	if err := shell.Execute(&buf, p); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

func (h *Handler) LoginPage(c *fiber.Ctx) error {
	return render(c, page{Title: "Login", Page: "login"})
}

func (h *Handler) RegisterPage(c *fiber.Ctx) error {
	return render(c, page{Title: "Register", Page: "register"})
}

func (h *Handler) HomePage(c *fiber.Ctx) error {
	return render(c, page{Title: "Home", Page: "home"})
}

func (h *Handler) TicketsPage(c *fiber.Ctx) error {
	return render(c, page{Title: "Tickets", Page: "tickets"})
}

func (h *Handler) TicketPage(c *fiber.Ctx) error {
	return render(c, page{Title: "Ticket " + c.Params("id"), Page: "ticket", TicketID: c.Params("id")})
}

// NotFound sends unknown pages to the login page, which forwards
// logged-in users on to /home. Unknown API paths get a plain 404.
func (h *Handler) NotFound(c *fiber.Ctx) error {
	if strings.HasPrefix(c.Path(), "/api/") || strings.HasPrefix(c.Path(), "/ops/") {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Not found",
		})
	}
	return c.Redirect("/", fiber.StatusFound)
}
