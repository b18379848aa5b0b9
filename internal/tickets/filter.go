package tickets

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"panel-dashboard/internal/models"

	"github.com/jonboulle/clockwork"
)

type StatusKey string

const (
	StatusAll        StatusKey = "all"
	StatusOpen       StatusKey = "open"
	StatusInProgress StatusKey = "inProgress"
)

// ParseStatusKey maps the query value to a key. Empty means all.
func ParseStatusKey(s string) (StatusKey, error) {
	switch k := StatusKey(s); k {
	case "":
		return StatusAll, nil
	case StatusAll, StatusOpen, StatusInProgress:
		return k, nil
	}
	return "", fmt.Errorf("unknown status filter %q", s)
}

func (k StatusKey) matches(s models.TicketStatus) bool {
	switch k {
	case StatusOpen:
		return s.Is(models.StatusOpen)
	case StatusInProgress:
		return s.Is(models.StatusInProgress)
	}
	return true
}

// InRange keeps the tickets created inside the key's bucket, in input
// order. Tickets without a parseable creation time only survive the
// unbounded "all" range.
func InRange(tickets []models.Ticket, key RangeKey, now time.Time) []models.Ticket {
	r := RangeFor(key, now)
	out := make([]models.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if r.Unbounded {
			out = append(out, t)
			continue
		}
		created, ok := t.CreatedTime(now.Location())
		if ok && r.Contains(created) {
			out = append(out, t)
		}
	}
	return out
}

// MatchesSearch is a case-insensitive substring test on bus stop code or
// location only.
func MatchesSearch(t models.Ticket, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.BusStopCode), term) ||
		strings.Contains(strings.ToLower(t.Location), term)
}

// Filter applies time range, then status, then search. Order is kept.
func Filter(tickets []models.Ticket, key RangeKey, status StatusKey, search string, now time.Time) []models.Ticket {
	ranged := InRange(tickets, key, now)
	out := ranged[:0]
	for _, t := range ranged {
		if status.matches(t.Status) && MatchesSearch(t, search) {
			out = append(out, t)
		}
	}
	return out
}

// CountsFor counts over the time-range result only, so the tab counts do
// not move when the status tab or search changes.
func CountsFor(tickets []models.Ticket, key RangeKey, now time.Time) models.TicketCounts {
	ranged := InRange(tickets, key, now)
	c := models.TicketCounts{All: len(ranged)}
	for _, t := range ranged {
		switch {
		case t.Status.Is(models.StatusOpen):
			c.Open++
		case t.Status.Is(models.StatusInProgress):
			c.InProgress++
		}
	}
	return c
}

// SortNewestFirst orders by creation time descending. Tickets without a
// parseable creation time go last, keeping their relative order.
func SortNewestFirst(tickets []models.Ticket, loc *time.Location) {
	sort.SliceStable(tickets, func(i, j int) bool {
		a, aok := tickets[i].CreatedTime(loc)
		b, bok := tickets[j].CreatedTime(loc)
		if aok != bok {
			return aok
		}
		return aok && a.After(b)
	})
}

// Engine binds the filter functions to a clock.
type Engine struct {
	clock clockwork.Clock
	loc   *time.Location
}

func NewEngine(clock clockwork.Clock, loc *time.Location) *Engine {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Engine{clock: clock, loc: loc}
}

func (e *Engine) Now() time.Time {
	return e.clock.Now().In(e.loc)
}

func (e *Engine) Filter(tickets []models.Ticket, key RangeKey, status StatusKey, search string) []models.Ticket {
	return Filter(tickets, key, status, search, e.Now())
}

func (e *Engine) CountsFor(tickets []models.Ticket, key RangeKey) models.TicketCounts {
	return CountsFor(tickets, key, e.Now())
}

func (e *Engine) Sort(tickets []models.Ticket) {
	SortNewestFirst(tickets, e.loc)
}

// Result is one evaluation of the ticket list screen.
type Result struct {
	Range   RangeKey            `json:"range"`
	Status  StatusKey           `json:"status"`
	Search  string              `json:"search"`
	Counts  models.TicketCounts `json:"counts"`
	Tickets []Row               `json:"tickets"`
}

// Evaluate sorts a copy of the snapshot newest first, then filters and
// counts it against one instant.
func (e *Engine) Evaluate(snapshot []models.Ticket, key RangeKey, status StatusKey, search string) Result {
	now := e.Now()
	sorted := make([]models.Ticket, len(snapshot))
	copy(sorted, snapshot)
	SortNewestFirst(sorted, e.loc)

	filtered := Filter(sorted, key, status, search, now)
	rows := make([]Row, 0, len(filtered))
	for _, t := range filtered {
		rows = append(rows, NewRow(t, now))
	}
	return Result{
		Range:   key,
		Status:  status,
		Search:  search,
		Counts:  CountsFor(sorted, key, now),
		Tickets: rows,
	}
}
