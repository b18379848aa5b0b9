package session

import (
	"context"
	"log"
	"sync"
	"time"

	"panel-dashboard/internal/models"

	"github.com/jonboulle/clockwork"
)

const (
	DefaultIdleTimeout   = 5 * time.Minute
	DefaultCheckInterval = 200 * time.Millisecond
)

type EventKind string

const (
	EventLoggedIn  EventKind = "logged_in"
	EventLoggedOut EventKind = "logged_out"
	EventExpired   EventKind = "expired"
)

type Event struct {
	SessionID string    `json:"-"`
	Kind      EventKind `json:"type"`
	At        time.Time `json:"at"`
}

// Monitor decides whether a session is authenticated. The durable flag
// lives in the Store; the idle deadline lives only here, so a restart
// gives every still-flagged session a fresh full window.
type Monitor struct {
	store         Store
	clock         clockwork.Clock
	idleTimeout   time.Duration
	checkInterval time.Duration

	mu        sync.Mutex
	deadlines map[string]time.Time

	obsMu     sync.RWMutex
	observers map[uint64]func(Event)
	nextObs   uint64
}

// NewMonitor clamps checkInterval to at most a tenth of idleTimeout.
func NewMonitor(store Store, clock clockwork.Clock, idleTimeout, checkInterval time.Duration) *Monitor {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	if checkInterval <= 0 || checkInterval > idleTimeout/10 {
		checkInterval = min(DefaultCheckInterval, idleTimeout/10)
	}
	return &Monitor{
		store:         store,
		clock:         clock,
		idleTimeout:   idleTimeout,
		checkInterval: checkInterval,
		deadlines:     make(map[string]time.Time),
		observers:     make(map[uint64]func(Event)),
	}
}

func (m *Monitor) IdleTimeout() time.Duration { return m.idleTimeout }

// Subscribe registers fn for every session event. Observers run on the
// goroutine that caused the event and must not block.
func (m *Monitor) Subscribe(fn func(Event)) (unsubscribe func()) {
	m.obsMu.Lock()
	id := m.nextObs
	m.nextObs++
	m.observers[id] = fn
	m.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.obsMu.Lock()
			delete(m.observers, id)
			m.obsMu.Unlock()
		})
	}
}

func (m *Monitor) notify(id string, kind EventKind) {
	ev := Event{SessionID: id, Kind: kind, At: m.clock.Now()}
	m.obsMu.RLock()
	fns := make([]func(Event), 0, len(m.observers))
	for _, fn := range m.observers {
		fns = append(fns, fn)
	}
	m.obsMu.RUnlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// Login sets the durable flag and arms a full idle window.
func (m *Monitor) Login(ctx context.Context, id string, user models.User) error {
	if err := m.store.SetLoggedIn(ctx, id, user); err != nil {
		return err
	}
	m.mu.Lock()
	m.deadlines[id] = m.clock.Now().Add(m.idleTimeout)
	m.mu.Unlock()

	m.notify(id, EventLoggedIn)
	return nil
}

// Logout clears the flag and any pending deadline, whatever their state.
func (m *Monitor) Logout(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.deadlines, id)
	m.mu.Unlock()

	if err := m.store.Clear(ctx, id); err != nil {
		return err
	}
	m.notify(id, EventLoggedOut)
	return nil
}

// RecordActivity replaces the pending deadline with now+idleTimeout. It
// reports false, and arms nothing, when the session is not logged in.
func (m *Monitor) RecordActivity(ctx context.Context, id string) (bool, error) {
	st, err := m.Current(ctx, id)
	if err != nil || !st.LoggedIn {
		return false, err
	}
	m.mu.Lock()
	m.deadlines[id] = m.clock.Now().Add(m.idleTimeout)
	m.mu.Unlock()
	return true, nil
}

func (m *Monitor) IsAuthenticated(ctx context.Context, id string) (bool, error) {
	st, err := m.Current(ctx, id)
	return st.LoggedIn, err
}

// Current reads the durable state. A flagged session that is past its
// deadline is expired on the spot rather than waiting for the sweeper; a
// flagged session with no deadline (service restarted) gets a fresh one.
func (m *Monitor) Current(ctx context.Context, id string) (State, error) {
	st, err := m.store.Get(ctx, id)
	if err != nil || !st.LoggedIn {
		return State{}, err
	}

	now := m.clock.Now()
	m.mu.Lock()
	deadline, tracked := m.deadlines[id]
	if !tracked {
		m.deadlines[id] = now.Add(m.idleTimeout)
	}
	m.mu.Unlock()

	if tracked && !now.Before(deadline) {
		expired, err := m.expire(ctx, id, deadline)
		if err != nil || expired {
			return State{}, err
		}
	}
	return st, nil
}

// expire clears the session if its deadline is still the one that
// lapsed. Activity that re-armed it in the meantime wins.
func (m *Monitor) expire(ctx context.Context, id string, lapsed time.Time) (bool, error) {
	m.mu.Lock()
	current, tracked := m.deadlines[id]
	if !tracked || !current.Equal(lapsed) {
		m.mu.Unlock()
		return false, nil
	}
	delete(m.deadlines, id)
	m.mu.Unlock()

	st, err := m.store.Get(ctx, id)
	if err != nil {
		m.rearm(id, lapsed)
		return false, err
	}
	if !st.LoggedIn {
		return false, nil
	}
	if err := m.store.Clear(ctx, id); err != nil {
		m.rearm(id, lapsed)
		return false, err
	}
	log.Printf("[session] %s expired after %s idle", id, m.idleTimeout)
	m.notify(id, EventExpired)
	return true, nil
}

// rearm puts a lapsed deadline back after a failed expiry so the next
// check retries it. A deadline set in the meantime is left alone.
func (m *Monitor) rearm(id string, lapsed time.Time) {
	m.mu.Lock()
	if _, tracked := m.deadlines[id]; !tracked {
		m.deadlines[id] = lapsed
	}
	m.mu.Unlock()
}

// Sweep expires every session whose deadline has passed and returns
// their IDs.
func (m *Monitor) Sweep(ctx context.Context) []string {
	now := m.clock.Now()
	type lapsed struct {
		id       string
		deadline time.Time
	}
	var due []lapsed
	m.mu.Lock()
	for id, d := range m.deadlines {
		if !now.Before(d) {
			due = append(due, lapsed{id, d})
		}
	}
	m.mu.Unlock()

	expired := make([]string, 0, len(due))
	for _, l := range due {
		ok, err := m.expire(ctx, l.id, l.deadline)
		if err != nil {
			log.Printf("[session] expire %s: %v", l.id, err)
			continue
		}
		if ok {
			expired = append(expired, l.id)
		}
	}
	return expired
}

// Run sweeps every check interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	ticker := m.clock.NewTicker(m.checkInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			m.Sweep(ctx)
		}
	}
}

// Tracked is the number of sessions with an armed idle deadline.
func (m *Monitor) Tracked() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.deadlines)
}
