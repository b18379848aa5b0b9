package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"panel-dashboard/internal/session"
)

type Event string

const (
	EventLogin        Event = "login"
	EventLogout       Event = "logout"
	EventExpired      Event = "expired"
	EventTicketUpdate Event = "ticket_update"
	EventTicketAttend Event = "ticket_attend"
)

// Entry is one row of the dashboard activity log.
type Entry struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"sessionId"`
	Email     string    `json:"email,omitempty"`
	Event     Event     `json:"event"`
	TicketID  string    `json:"ticketId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Recorder interface {
	Record(ctx context.Context, e Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// Nop is used when no database is configured.
type Nop struct{}

func (Nop) Record(context.Context, Entry) error          { return nil }
func (Nop) Recent(context.Context, int) ([]Entry, error) { return nil, nil }

const schema = `
	CREATE TABLE IF NOT EXISTS dashboard_events (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		session_id VARCHAR(64) NOT NULL,
		email VARCHAR(255) NULL,
		event VARCHAR(32) NOT NULL,
		ticket_id VARCHAR(64) NULL,
		created_at DATETIME NOT NULL,
		INDEX idx_dashboard_events_created (created_at)
	)`

type MySQLRecorder struct {
	db *sql.DB
}

func NewMySQLRecorder(db *sql.DB) *MySQLRecorder {
	return &MySQLRecorder{db: db}
}

// EnsureSchema creates the events table if it is missing.
func (r *MySQLRecorder) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create dashboard_events: %w", err)
	}
	return nil
}

func (r *MySQLRecorder) Record(ctx context.Context, e Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dashboard_events
		(session_id, email, event, ticket_id, created_at)
		VALUES (?, ?, ?, ?, NOW())
	`, e.SessionID, nullable(e.Email), string(e.Event), nullable(e.TicketID))
	if err != nil {
		return fmt.Errorf("insert %s event: %w", e.Event, err)
	}
	return nil
}

func (r *MySQLRecorder) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, email, event, ticket_id, created_at
		FROM dashboard_events
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query dashboard_events: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e               Entry
			email, ticketID sql.NullString
			event           string
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &email, &event, &ticketID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan dashboard_events: %w", err)
		}
		e.Event = Event(event)
		e.Email = email.String
		e.TicketID = ticketID.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Log records e and only logs a failure. The activity log must never
// fail a user action.
func Log(ctx context.Context, r Recorder, e Entry) {
	if r == nil {
		return
	}
	if err := r.Record(ctx, e); err != nil {
		log.Printf("[audit] %v", err)
	}
}

// ExpiryObserver records idle expiries, which no handler sees. Insert
// runs off the monitor's goroutine.
func ExpiryObserver(ctx context.Context, r Recorder) func(session.Event) {
	return func(ev session.Event) {
		if ev.Kind != session.EventExpired {
			return
		}
		go Log(ctx, r, Entry{SessionID: ev.SessionID, Event: EventExpired})
	}
}
