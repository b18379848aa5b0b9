package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"panel-dashboard/internal/session"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMock(t *testing.T) (*MySQLRecorder, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewMySQLRecorder(db), mock
}

func TestRecordInsertsEvent(t *testing.T) {
	rec, mock := newMock(t)
	mock.ExpectExec("INSERT INTO dashboard_events").
		WithArgs("sid-1", "a@b.c", "ticket_attend", "42").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := rec.Record(context.Background(), Entry{SessionID: "sid-1", Email: "a@b.c", Event: EventTicketAttend, TicketID: "42"})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestRecordEmptyTicketIsNull(t *testing.T) {
	rec, mock := newMock(t)
	mock.ExpectExec("INSERT INTO dashboard_events").
		WithArgs("sid-1", "a@b.c", "login", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := rec.Record(context.Background(), Entry{SessionID: "sid-1", Email: "a@b.c", Event: EventLogin}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestRecentScansRows(t *testing.T) {
	rec, mock := newMock(t)
	at := time.Date(2026, 10, 14, 7, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "session_id", "email", "event", "ticket_id", "created_at"}).
		AddRow(int64(2), "sid-1", "a@b.c", "ticket_attend", "42", at).
		AddRow(int64(1), "sid-1", "a@b.c", "login", nil, at)
	mock.ExpectQuery("SELECT id, session_id, email, event, ticket_id, created_at").
		WithArgs(100).
		WillReturnRows(rows)

	got, err := rec.Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].TicketID != "42" || got[0].Event != EventTicketAttend {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].TicketID != "" || !got[1].CreatedAt.Equal(at) {
		t.Errorf("second = %+v", got[1])
	}
}

type failing struct{ Nop }

func (failing) Record(context.Context, Entry) error { return errors.New("db down") }

func TestLogSwallowsErrors(t *testing.T) {
	Log(context.Background(), failing{}, Entry{Event: EventLogin})
	Log(context.Background(), nil, Entry{Event: EventLogin})
}

type chanRecorder struct {
	Nop
	got chan Entry
}

func (c chanRecorder) Record(_ context.Context, e Entry) error {
	c.got <- e
	return nil
}

func TestExpiryObserverRecordsOnlyExpiries(t *testing.T) {
	rec := chanRecorder{got: make(chan Entry, 2)}
	observe := ExpiryObserver(context.Background(), rec)

	observe(session.Event{SessionID: "s1", Kind: session.EventLoggedIn})
	observe(session.Event{SessionID: "s1", Kind: session.EventExpired})

	select {
	case e := <-rec.got:
		if e.Event != EventExpired || e.SessionID != "s1" {
			t.Errorf("entry = %+v", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expiry not recorded")
	}
	select {
	case e := <-rec.got:
		t.Errorf("unexpected entry %+v", e)
	case <-time.After(50 * time.Millisecond):
	}
}
