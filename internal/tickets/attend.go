package tickets

import (
	"errors"
	"time"

	"panel-dashboard/internal/models"
)

var ErrAlreadyAttended = errors.New("ticket already attended")

// CanAttend reports whether the attend action is still available.
func CanAttend(t models.Ticket) bool {
	return t.AttendState() == models.Unattended
}

// Attend moves t from Unattended to Attended. Attended is terminal: a
// second call returns ErrAlreadyAttended and leaves AttendedAt as it was.
// Status is not touched.
func Attend(t *models.Ticket, at time.Time) error {
	if !CanAttend(*t) {
		return ErrAlreadyAttended
	}
	t.AttendedAt = at.UTC().Format(time.RFC3339)
	return nil
}

// MergeAttended keeps a previously recorded attendedAt when an update
// response comes back without one.
func MergeAttended(prev, next *models.Ticket) {
	if prev == nil || next == nil {
		return
	}
	if prev.AttendState() == models.Attended && next.AttendState() == models.Unattended {
		next.AttendedAt = prev.AttendedAt
	}
}
