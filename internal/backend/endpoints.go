package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"panel-dashboard/internal/models"
)

/*
|--------------------------------------------------------------------------
| AUTH
|--------------------------------------------------------------------------
*/

func (c *Client) Login(ctx context.Context, email, password string) (models.User, error) {
	req, err := c.jsonRequest(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return models.User{}, err
	}
	body, err := c.do(req)
	if err != nil {
		return models.User{}, err
	}
	var resp struct {
		User *models.User `json:"user"`
	}
	if err := decode(body, &resp); err != nil {
		return models.User{}, err
	}
	if resp.User == nil {
		return models.User{Email: email}, nil
	}
	if resp.User.Email == "" {
		resp.User.Email = email
	}
	return *resp.User, nil
}

func (c *Client) Register(ctx context.Context, r models.RegisterRequest) error {
	req, err := c.jsonRequest(ctx, http.MethodPost, "/api/auth/register", r)
	if err != nil {
		return err
	}
	_, err = c.do(req)
	return err
}

/*
|--------------------------------------------------------------------------
| TICKETS
|--------------------------------------------------------------------------
*/

func (c *Client) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/tickets", nil, "")
	if err != nil {
		return nil, err
	}
	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	var tickets []models.Ticket
	if err := decode(unwrap(body, "data"), &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (c *Client) GetTicket(ctx context.Context, id string) (models.Ticket, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/tickets/"+url.PathEscape(id), nil, "")
	if err != nil {
		return models.Ticket{}, err
	}
	body, err := c.do(req)
	if err != nil {
		return models.Ticket{}, err
	}
	var t models.Ticket
	if err := decode(unwrap(body, "ticket"), &t); err != nil {
		return models.Ticket{}, err
	}
	return t, nil
}

// MediaFile is an upload attached to a ticket edit.
type MediaFile struct {
	Filename string
	Content  io.Reader
}

// UpdateTicket sends every ticket field as multipart form data, plus the
// fault/action media files when given.
func (c *Client) UpdateTicket(ctx context.Context, t models.Ticket, faultMedia, actionMedia *MediaFile) (models.TicketActionResponse, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, kv := range t.FormFields() {
		// A new upload replaces the stored path.
		if (kv[0] == "faultMedia" && faultMedia != nil) || (kv[0] == "actionMedia" && actionMedia != nil) {
			continue
		}
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return models.TicketActionResponse{}, fmt.Errorf("write field %s: %w", kv[0], err)
		}
	}
	uploads := []struct {
		field string
		file  *MediaFile
	}{
		{"faultMedia", faultMedia},
		{"actionMedia", actionMedia},
	}
	for _, u := range uploads {
		if u.file == nil {
			continue
		}
		part, err := w.CreateFormFile(u.field, u.file.Filename)
		if err != nil {
			return models.TicketActionResponse{}, fmt.Errorf("create %s part: %w", u.field, err)
		}
		if _, err := io.Copy(part, u.file.Content); err != nil {
			return models.TicketActionResponse{}, fmt.Errorf("copy %s: %w", u.field, err)
		}
	}
	if err := w.Close(); err != nil {
		return models.TicketActionResponse{}, fmt.Errorf("close multipart: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPut, "/api/tickets/"+url.PathEscape(string(t.ID)), &buf, w.FormDataContentType())
	if err != nil {
		return models.TicketActionResponse{}, err
	}
	return c.action(req)
}

func (c *Client) AttendTicket(ctx context.Context, id, staffName string) (models.TicketActionResponse, error) {
	req, err := c.jsonRequest(ctx, http.MethodPost, "/api/tickets/"+url.PathEscape(id)+"/attend", models.AttendRequest{StaffName: staffName})
	if err != nil {
		return models.TicketActionResponse{}, err
	}
	return c.action(req)
}

// action decodes {success, ticket?, message?}. success=false is turned
// into an *APIError so callers have a single failure path.
func (c *Client) action(req *http.Request) (models.TicketActionResponse, error) {
	body, err := c.do(req)
	if err != nil {
		return models.TicketActionResponse{}, err
	}
	var resp models.TicketActionResponse
	if err := decode(body, &resp); err != nil {
		return models.TicketActionResponse{}, err
	}
	if !resp.Success {
		return resp, &APIError{Status: http.StatusOK, Message: resp.Message}
	}
	return resp, nil
}

/*
|--------------------------------------------------------------------------
| STAFF & PANELS
|--------------------------------------------------------------------------
*/

func (c *Client) ListStaff(ctx context.Context) ([]models.Staff, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/staff", nil, "")
	if err != nil {
		return nil, err
	}
	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	var staff []models.Staff
	if err := decode(unwrap(body, "data"), &staff); err != nil {
		return nil, err
	}
	return staff, nil
}

type PanelQuery struct {
	Page     int
	PageSize int
	Type     string
	Search   string
}

func (q PanelQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.Type != "" {
		v.Set("type", q.Type)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	return v
}

func (c *Client) ListPanels(ctx context.Context, q PanelQuery) ([]models.Panel, error) {
	path := "/api/panel-docs"
	if qs := q.values().Encode(); qs != "" {
		path += "?" + qs
	}
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	var panels []models.Panel
	if err := decode(unwrap(body, "data"), &panels); err != nil {
		return nil, err
	}
	return panels, nil
}
