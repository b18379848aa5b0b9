package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

type TicketStatus string

const (
	StatusOpen       TicketStatus = "Open"
	StatusInProgress TicketStatus = "In Progress"
	StatusClosed     TicketStatus = "Closed"
)

// ParseTicketStatus matches case-insensitively against the three known
// statuses. Empty input is not a status.
func ParseTicketStatus(s string) (TicketStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "open":
		return StatusOpen, true
	case "in progress":
		return StatusInProgress, true
	case "closed":
		return StatusClosed, true
	}
	return "", false
}

// Is compares case-insensitively, so "OPEN" from the API still counts as open.
func (s TicketStatus) Is(other TicketStatus) bool {
	return strings.EqualFold(strings.TrimSpace(string(s)), string(other))
}

type AttendState int

const (
	Unattended AttendState = iota
	Attended
)

func (a AttendState) String() string {
	if a == Attended {
		return "attended"
	}
	return "unattended"
}

// FlexString decodes JSON strings and numbers alike; the API is not
// consistent about id types.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

type Ticket struct {
	ID                FlexString   `json:"id"`
	DateCreated       string       `json:"dateCreated,omitempty"`
	Status            TicketStatus `json:"status,omitempty"`
	AssignedTo        string       `json:"assignedTo,omitempty"`
	ViewerID          FlexString   `json:"viewerId,omitempty"`
	BusStopCode       string       `json:"busStopCode,omitempty"`
	Location          string       `json:"location,omitempty"`
	PanelType         string       `json:"panelType,omitempty"`
	Fault             string       `json:"fault,omitempty"`
	FaultType         string       `json:"faultType,omitempty"`
	Cause             string       `json:"cause,omitempty"`
	RootCause         string       `json:"rootCause,omitempty"`
	ActionTaken       string       `json:"actionTaken,omitempty"`
	Solution          string       `json:"solution,omitempty"`
	CreatedBy         string       `json:"createdBy,omitempty"`
	TicketClosureDate string       `json:"ticketClosureDate,omitempty"`
	AttendedAt        string       `json:"attendedAt,omitempty"`
	FaultMedia        string       `json:"faultMedia,omitempty"`
	ActionMedia       string       `json:"actionMedia,omitempty"`
}

// CreatedTime parses DateCreated; ok is false when it is missing or
// unparseable.
func (t Ticket) CreatedTime(loc *time.Location) (time.Time, bool) {
	return ParseTimestamp(t.DateCreated, loc)
}

func (t Ticket) AttendState() AttendState {
	if strings.TrimSpace(t.AttendedAt) != "" {
		return Attended
	}
	return Unattended
}

// FormFields lists the editable fields in the order the edit form sends
// them. Media files are appended separately.
func (t Ticket) FormFields() [][2]string {
	return [][2]string{
		{"id", string(t.ID)},
		{"dateCreated", t.DateCreated},
		{"status", string(t.Status)},
		{"assignedTo", t.AssignedTo},
		{"viewerId", string(t.ViewerID)},
		{"busStopCode", t.BusStopCode},
		{"location", t.Location},
		{"panelType", t.PanelType},
		{"fault", t.Fault},
		{"faultType", t.FaultType},
		{"cause", t.Cause},
		{"rootCause", t.RootCause},
		{"actionTaken", t.ActionTaken},
		{"solution", t.Solution},
		{"createdBy", t.CreatedBy},
		{"ticketClosureDate", t.TicketClosureDate},
		{"attendedAt", t.AttendedAt},
		{"faultMedia", t.FaultMedia},
		{"actionMedia", t.ActionMedia},
	}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp accepts the formats the maintenance API emits. Layouts
// without a zone are read in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

/*
|--------------------------------------------------------------------------
| API ENVELOPES
|--------------------------------------------------------------------------
*/

type AttendRequest struct {
	StaffName string `json:"staffName"`
}

type TicketActionResponse struct {
	Success bool    `json:"success"`
	Ticket  *Ticket `json:"ticket,omitempty"`
	Message string  `json:"message,omitempty"`
}

type TicketCounts struct {
	All        int `json:"all"`
	Open       int `json:"open"`
	InProgress int `json:"inProgress"`
}
