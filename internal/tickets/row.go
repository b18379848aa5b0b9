package tickets

import (
	"time"

	"panel-dashboard/internal/models"

	"github.com/dustin/go-humanize"
)

// Row is a ticket as the list table shows it.
type Row struct {
	ID          string `json:"id"`
	ViewerID    string `json:"viewerId"`
	BusStopCode string `json:"busStopCode"`
	Location    string `json:"location"`
	Fault       string `json:"fault"`
	Status      string `json:"status"`
	DateCreated string `json:"dateCreated"`
	Age         string `json:"age"`
	Attended    bool   `json:"attended"`
}

const placeholder = "-"

func orDash(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}

func NewRow(t models.Ticket, now time.Time) Row {
	row := Row{
		ID:          orDash(string(t.ID)),
		ViewerID:    orDash(string(t.ViewerID)),
		BusStopCode: orDash(t.BusStopCode),
		Location:    orDash(t.Location),
		Fault:       orDash(t.Fault),
		Status:      orDash(string(t.Status)),
		DateCreated: placeholder,
		Age:         placeholder,
		Attended:    t.AttendState() == models.Attended,
	}
	if created, ok := t.CreatedTime(now.Location()); ok {
		row.DateCreated = created.Format("2006-01-02 15:04:05")
		row.Age = humanize.RelTime(created, now, "ago", "from now")
	}
	return row
}
