package handler

import (
	"mime/multipart"
	"strings"

	"panel-dashboard/internal/audit"
	"panel-dashboard/internal/backend"
	"panel-dashboard/internal/helper"
	"panel-dashboard/internal/models"
	"panel-dashboard/internal/tickets"

	"github.com/gofiber/fiber/v2"
)

/*
|--------------------------------------------------------------------------
| LIST
|--------------------------------------------------------------------------
*/

// ListTickets - query range, status, search. Counts follow the range only.
func (h *Handler) ListTickets(c *fiber.Ctx) error {
	key, err := tickets.ParseRangeKey(c.Query("range"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	status, err := tickets.ParseStatusKey(c.Query("status"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	snapshot, err := h.api.ListTickets(c.UserContext())
	if err != nil {
		return backendError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.tickets.Evaluate(snapshot, key, status, strings.TrimSpace(c.Query("search"))),
	})
}

/*
|--------------------------------------------------------------------------
| DETAIL
|--------------------------------------------------------------------------
*/

type ticketDetail struct {
	Ticket      models.Ticket `json:"ticket"`
	AttendState string        `json:"attendState"`
	Attendable  bool          `json:"attendable"`
	FaultMedia  *helper.Media `json:"faultMedia,omitempty"`
	ActionMedia *helper.Media `json:"actionMedia,omitempty"`
}

func (h *Handler) detail(t models.Ticket) ticketDetail {
	return ticketDetail{
		Ticket:      t,
		AttendState: t.AttendState().String(),
		Attendable:  tickets.CanAttend(t),
		FaultMedia:  helper.DescribeMedia(h.api.BaseURL(), t.FaultMedia),
		ActionMedia: helper.DescribeMedia(h.api.BaseURL(), t.ActionMedia),
	}
}

func (h *Handler) GetTicket(c *fiber.Ctx) error {
	t, err := h.api.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return backendError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.detail(t),
	})
}

/*
|--------------------------------------------------------------------------
| EDIT
|--------------------------------------------------------------------------
*/

func firstFile(form *multipart.Form, field string) (*backend.MediaFile, func(), error) {
	files := form.File[field]
	if len(files) == 0 {
		return nil, func() {}, nil
	}
	f, err := files[0].Open()
	if err != nil {
		return nil, func() {}, err
	}
	return &backend.MediaFile{Filename: files[0].Filename, Content: f}, func() { f.Close() }, nil
}

// applyForm overlays the submitted fields onto t. Fields missing from the
// form keep their current value.
func applyForm(t *models.Ticket, values map[string][]string) {
	get := func(key string, dst *string) {
		if v, ok := values[key]; ok && len(v) > 0 {
			*dst = v[0]
		}
	}
	get("dateCreated", &t.DateCreated)
	get("assignedTo", &t.AssignedTo)
	get("busStopCode", &t.BusStopCode)
	get("location", &t.Location)
	get("panelType", &t.PanelType)
	get("fault", &t.Fault)
	get("faultType", &t.FaultType)
	get("cause", &t.Cause)
	get("rootCause", &t.RootCause)
	get("actionTaken", &t.ActionTaken)
	get("solution", &t.Solution)
	get("createdBy", &t.CreatedBy)
	get("ticketClosureDate", &t.TicketClosureDate)

	var viewer string
	get("viewerId", &viewer)
	if viewer != "" {
		t.ViewerID = models.FlexString(viewer)
	}
}

func (h *Handler) UpdateTicket(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Expected multipart form data",
		})
	}

	var status models.TicketStatus
	if raw := strings.TrimSpace(formValue(form, "status")); raw != "" {
		parsed, ok := models.ParseTicketStatus(raw)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Status must be Open, In Progress or Closed",
			})
		}
		status = parsed
	}

	ctx := c.UserContext()
	current, err := h.api.GetTicket(ctx, c.Params("id"))
	if err != nil {
		return backendError(c, err)
	}

	edited := current
	edited.ID = models.FlexString(c.Params("id"))
	applyForm(&edited, form.Value)
	if status != "" {
		edited.Status = status
	}

	faultMedia, closeFault, err := firstFile(form, "faultMedia")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unreadable faultMedia upload"})
	}
	defer closeFault()
	actionMedia, closeAction, err := firstFile(form, "actionMedia")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unreadable actionMedia upload"})
	}
	defer closeAction()

	resp, err := h.api.UpdateTicket(ctx, edited, faultMedia, actionMedia)
	if err != nil {
		return backendError(c, err)
	}

	updated := edited
	if resp.Ticket != nil {
		updated = *resp.Ticket
		tickets.MergeAttended(&current, &updated)
	}
	audit.Log(ctx, h.audit, audit.Entry{
		SessionID: localString(c, "session_id"),
		Email:     localString(c, "email"),
		Event:     audit.EventTicketUpdate,
		TicketID:  string(updated.ID),
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Ticket updated successfully",
		"data":    h.detail(updated),
	})
}

func formValue(form *multipart.Form, key string) string {
	if v := form.Value[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

/*
|--------------------------------------------------------------------------
| ATTEND
|--------------------------------------------------------------------------
*/

// AttendTicket checks the attend guard against the current ticket before
// asking the maintenance API. Status is left alone.
func (h *Handler) AttendTicket(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id := c.Params("id")

	current, err := h.api.GetTicket(ctx, id)
	if err != nil {
		return backendError(c, err)
	}
	if !tickets.CanAttend(current) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":      tickets.ErrAlreadyAttended.Error(),
			"attendedAt": current.AttendedAt,
		})
	}

	staffName := localString(c, "name")
	if staffName == "" {
		staffName = h.cfg.StaffNameFallback
	}

	resp, err := h.api.AttendTicket(ctx, id, staffName)
	if err != nil {
		return backendError(c, err)
	}

	attended := current
	if resp.Ticket != nil {
		attended = *resp.Ticket
	}
	// The API's own attendedAt wins when it sent one.
	if tickets.CanAttend(attended) {
		_ = tickets.Attend(&attended, h.tickets.Now())
	}
	audit.Log(ctx, h.audit, audit.Entry{
		SessionID: localString(c, "session_id"),
		Email:     localString(c, "email"),
		Event:     audit.EventTicketAttend,
		TicketID:  id,
	})

	message := resp.Message
	if message == "" {
		message = "Ticket attended"
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    h.detail(attended),
	})
}

func (h *Handler) ListStaff(c *fiber.Ctx) error {
	staff, err := h.api.ListStaff(c.UserContext())
	if err != nil {
		return backendError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    staff,
	})
}
