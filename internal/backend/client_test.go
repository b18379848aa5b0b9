package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"panel-dashboard/internal/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", time.Second)
}

func TestListTicketsAcceptsBothShapes(t *testing.T) {
	for name, body := range map[string]string{
		"wrapped": `{"data":[{"id":1,"status":"Open"},{"id":"T-2","status":"Closed"}]}`,
		"bare":    `[{"id":1,"status":"Open"},{"id":"T-2","status":"Closed"}]`,
	} {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/tickets" {
					t.Errorf("path = %q", r.URL.Path)
				}
				io.WriteString(w, body)
			})
			got, err := c.ListTickets(context.Background())
			if err != nil {
				t.Fatalf("ListTickets: %v", err)
			}
			if len(got) != 2 || got[0].ID != "1" || got[1].ID != "T-2" {
				t.Fatalf("tickets = %+v", got)
			}
		})
	}
}

func TestGetTicketUnwrapsTicketKey(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tickets/42" {
			t.Errorf("path = %q", r.URL.Path)
		}
		io.WriteString(w, `{"ticket":{"id":42,"busStopCode":"01012","attendedAt":null}}`)
	})
	got, err := c.GetTicket(context.Background(), "42")
	if err != nil {
		t.Fatalf("GetTicket: %v", err)
	}
	if got.ID != "42" || got.BusStopCode != "01012" {
		t.Fatalf("ticket = %+v", got)
	}
}

func TestErrorTaxonomy(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"message":"Invalid credentials"}`)
		})
		_, err := c.Login(context.Background(), "a@b.c", "x")
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("err = %v, want *APIError", err)
		}
		if apiErr.Status != http.StatusUnauthorized || apiErr.Message != "Invalid credentials" {
			t.Fatalf("apiErr = %+v", apiErr)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `<html>oops</html>`)
		})
		_, err := c.ListStaff(context.Background())
		if !errors.Is(err, ErrMalformedResponse) {
			t.Fatalf("err = %v, want ErrMalformedResponse", err)
		}
	})

	t.Run("unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()
		c := NewClient(url, time.Second)
		_, err := c.ListTickets(context.Background())
		if !errors.Is(err, ErrUnavailable) {
			t.Fatalf("err = %v, want ErrUnavailable", err)
		}
	})
}

func TestAttendTicketSendsStaffName(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/tickets/7/attend" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		b, _ := io.ReadAll(r.Body)
		if string(b) != `{"staffName":"Aisha"}` {
			t.Errorf("body = %s", b)
		}
		io.WriteString(w, `{"success":true,"ticket":{"id":7,"attendedAt":"2026-10-14T07:30:00Z"}}`)
	})
	resp, err := c.AttendTicket(context.Background(), "7", "Aisha")
	if err != nil {
		t.Fatalf("AttendTicket: %v", err)
	}
	if resp.Ticket == nil || resp.Ticket.AttendState() != models.Attended {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestActionUnsuccessfulIsAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":false,"message":"Ticket locked"}`)
	})
	_, err := c.AttendTicket(context.Background(), "7", "Aisha")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Ticket locked" {
		t.Fatalf("err = %v", err)
	}
}

func TestUpdateTicketMultipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s", r.Method)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			return
		}
		if got := r.FormValue("status"); got != "In Progress" {
			t.Errorf("status = %q", got)
		}
		if got := r.FormValue("actionMedia"); got != "uploads/old.jpg" {
			t.Errorf("actionMedia = %q", got)
		}
		if _, ok := r.MultipartForm.Value["faultMedia"]; ok {
			t.Errorf("faultMedia sent as text next to the upload")
		}
		f, hdr, err := r.FormFile("faultMedia")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		if hdr.Filename != "crack.jpg" || string(b) != "jpegbytes" {
			t.Errorf("file = %s %q", hdr.Filename, b)
		}
		io.WriteString(w, `{"success":true,"ticket":{"id":"9","status":"In Progress"}}`)
	})

	ticket := models.Ticket{ID: "9", Status: models.StatusInProgress, FaultMedia: "uploads/a.jpg", ActionMedia: "uploads/old.jpg"}
	resp, err := c.UpdateTicket(context.Background(), ticket, &MediaFile{Filename: "crack.jpg", Content: strings.NewReader("jpegbytes")}, nil)
	if err != nil {
		t.Fatalf("UpdateTicket: %v", err)
	}
	if !resp.Success || resp.Ticket.ID != "9" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestUpdateTicketFilePartOrder(t *testing.T) {
	for i := 0; i < 20; i++ {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			mr, err := r.MultipartReader()
			if err != nil {
				t.Errorf("MultipartReader: %v", err)
				return
			}
			var files []string
			for {
				p, err := mr.NextPart()
				if err == io.EOF {
					break
				}
				if err != nil {
					t.Errorf("NextPart: %v", err)
					return
				}
				if p.FileName() != "" {
					files = append(files, p.FormName())
				}
			}
			if strings.Join(files, ",") != "faultMedia,actionMedia" {
				t.Errorf("file parts = %v", files)
			}
			io.WriteString(w, `{"success":true}`)
		})
		_, err := c.UpdateTicket(context.Background(), models.Ticket{ID: "9"},
			&MediaFile{Filename: "before.jpg", Content: strings.NewReader("a")},
			&MediaFile{Filename: "after.jpg", Content: strings.NewReader("b")})
		if err != nil {
			t.Fatalf("UpdateTicket: %v", err)
		}
	}
}

func TestListPanelsQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/panel-docs" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("search") != "01012" || q.Get("pageSize") != "1000" || q.Has("type") {
			t.Errorf("query = %v", q)
		}
		io.WriteString(w, `{"data":[{"Viewer ID":"V1","Panel Type":"Digital","Bus Stop Code":"01012"}]}`)
	})
	got, err := c.ListPanels(context.Background(), PanelQuery{PageSize: 1000, Search: "01012"})
	if err != nil {
		t.Fatalf("ListPanels: %v", err)
	}
	if len(got) != 1 || got[0].PanelType != "Digital" {
		t.Fatalf("panels = %+v", got)
	}
}
