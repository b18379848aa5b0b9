package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"panel-dashboard/internal/session"
)

type fakeConn struct {
	mu     sync.Mutex
	msgs   chan []byte
	closed bool
}

func newFakeConn() *fakeConn { return &fakeConn{msgs: make(chan []byte, 8)} }

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	f.msgs <- data
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func receive(t *testing.T, c *fakeConn) map[string]any {
	t.Helper()
	select {
	case b := <-c.msgs:
		var m map[string]any
		if err := json.Unmarshal(b, &m); err != nil {
			t.Fatalf("unmarshal %s: %v", b, err)
		}
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
		return nil
	}
}

func TestHubRoutesEventsBySession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewSessionHub()
	go hub.Run(ctx)

	a, b := newFakeConn(), newFakeConn()
	hub.Register <- &Client{SessionID: "s1", Conn: a}
	hub.Register <- &Client{SessionID: "s2", Conn: b}
	if n := hub.Connections(ctx); n != 2 {
		t.Fatalf("Connections = %d, want 2", n)
	}

	hub.Publish(session.Event{SessionID: "s1", Kind: session.EventExpired, At: time.Now()})
	hub.Publish(session.Event{SessionID: "s2", Kind: session.EventLoggedOut, At: time.Now()})

	got := receive(t, a)
	if got["type"] != "expired" {
		t.Errorf("s1 event = %v", got)
	}
	if _, ok := got["sessionId"]; ok {
		t.Error("session id leaked into the payload")
	}
	// s2 must see only its own event.
	if got := receive(t, b); got["type"] != "logged_out" {
		t.Errorf("s2 event = %v", got)
	}
}

func TestHubCloseOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewSessionHub()
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	a := newFakeConn()
	hub.Register <- &Client{SessionID: "s1", Conn: a}
	cancel()
	<-done
	if !a.isClosed() {
		t.Error("connection left open after Run returned")
	}
	if hub.Join(&Client{SessionID: "s2", Conn: newFakeConn()}) {
		t.Error("Join succeeded on a stopped hub")
	}
	hub.Leave(&Client{SessionID: "s1", Conn: a})
}

func TestHubUnregister(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewSessionHub()
	go hub.Run(ctx)

	a := newFakeConn()
	c := &Client{SessionID: "s1", Conn: a}
	hub.Register <- c
	hub.Unregister <- c
	if n := hub.Connections(ctx); n != 0 {
		t.Fatalf("Connections = %d, want 0", n)
	}
	if !a.isClosed() {
		t.Error("unregistered connection not closed")
	}
}
