package tickets

import (
	"errors"
	"testing"
	"time"

	"panel-dashboard/internal/models"
)

func TestAttendIsOneWay(t *testing.T) {
	tk := models.Ticket{ID: "42", Status: models.StatusOpen}
	first := time.Date(2026, time.October, 14, 1, 0, 0, 0, time.UTC)

	if err := Attend(&tk, first); err != nil {
		t.Fatalf("first attend: %v", err)
	}
	if tk.AttendState() != models.Attended {
		t.Fatal("ticket should be attended")
	}
	recorded := tk.AttendedAt

	err := Attend(&tk, first.Add(time.Hour))
	if !errors.Is(err, ErrAlreadyAttended) {
		t.Fatalf("second attend error = %v, want ErrAlreadyAttended", err)
	}
	if tk.AttendedAt != recorded {
		t.Errorf("attendedAt changed from %q to %q", recorded, tk.AttendedAt)
	}
	if tk.Status != models.StatusOpen {
		t.Errorf("status changed to %q", tk.Status)
	}
}

func TestMergeAttendedKeepsTimestamp(t *testing.T) {
	prev := &models.Ticket{AttendedAt: "2026-10-14T01:00:00Z"}
	next := &models.Ticket{Status: models.StatusClosed}
	MergeAttended(prev, next)
	if next.AttendedAt != prev.AttendedAt {
		t.Errorf("attendedAt = %q, want %q", next.AttendedAt, prev.AttendedAt)
	}
}
