package session

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/electoral/pkg/dashboard"
	"github.com/matzehuels/electoral/pkg/observability"
)

// Factory builds a fresh dashboard for a session.
type Factory func() *dashboard.Dashboard

// Manager attaches live dashboards to stored sessions.
type Manager struct {
	store   Store
	factory Factory
	ttl     time.Duration
	logger  *log.Logger

	mu    sync.Mutex
	live  map[string]*dashboard.Dashboard
	locks map[string]*sync.Mutex
}

// NewManager creates a manager. A ttl of 0 uses DefaultTTL.
func NewManager(store Store, factory Factory, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		store:   store,
		factory: factory,
		ttl:     ttl,
		logger:  log.New(io.Discard),
		live:    make(map[string]*dashboard.Dashboard),
		locks:   make(map[string]*sync.Mutex),
	}
}

// SetLogger sets the logger used for session lifecycle events.
func (m *Manager) SetLogger(l *log.Logger) {
	if l != nil {
		m.logger = l
	}
}

// TTL returns the session lifetime.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Create starts a session with an empty dashboard.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	sess := New(m.ttl)
	if err := m.store.Set(ctx, sess); err != nil {
		return nil, err
	}
	d := m.factory()
	m.mu.Lock()
	m.live[sess.ID] = d
	m.mu.Unlock()
	sess.Dashboard = d
	m.logger.Debug("created session", "id", sess.ID, "expires", sess.ExpiresAt)
	observability.Session().OnSessionCreate(ctx, sess.ID)
	return sess, nil
}

// Get returns the session with its dashboard, extending its lifetime. A
// dashboard lost to a restart is rebuilt from the stored year and brush.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	defer m.lock(id)()
	return m.get(ctx, id)
}

// lock serializes the read-modify-write cycles of one session and returns
// the unlock function.
func (m *Manager) lock(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = new(sync.Mutex)
		m.locks[id] = l
	}
	m.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// get is Get for callers holding the session lock.
func (m *Manager) get(ctx context.Context, id string) (*Session, error) {
	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		m.drop(id)
		return nil, ErrNotFound
	}

	sess.ExpiresAt = time.Now().Add(m.ttl)
	if err := m.store.Set(ctx, sess); err != nil {
		return nil, err
	}

	m.mu.Lock()
	d, ok := m.live[id]
	if !ok {
		d = m.factory()
		m.live[id] = d
	}
	m.mu.Unlock()
	sess.Dashboard = d

	if !ok {
		m.restore(ctx, sess)
	}
	return sess, nil
}

func (m *Manager) restore(ctx context.Context, sess *Session) {
	d := sess.Dashboard
	if sess.Year == 0 {
		return
	}
	if _, err := d.LoadTimeline(ctx); err != nil {
		m.logger.Warn("restore session timeline", "id", sess.ID, "err", err)
	}
	if _, err := d.Select(ctx, sess.Year); err != nil {
		m.logger.Warn("restore session year", "id", sess.ID, "year", sess.Year, "err", err)
		return
	}
	if sess.Brush != nil {
		d.Brush(sess.Brush.Start, sess.Brush.End)
	}
	m.logger.Debug("restored session", "id", sess.ID, "year", sess.Year)
}

// Select selects year on the session's dashboard and records it.
// The brush is cleared, because a new year redraws the bar. Other calls on
// the same session wait until the year is stored.
func (m *Manager) Select(ctx context.Context, id string, year int) (*dashboard.Snapshot, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	defer m.lock(id)()
	sess, err := m.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := sess.Dashboard.LoadTimeline(ctx); err != nil {
		return nil, err
	}
	snap, err := sess.Dashboard.Select(ctx, year)
	if err != nil {
		return nil, err
	}
	sess.Year = snap.Year
	sess.Brush = nil
	return snap, m.store.Set(ctx, sess)
}

// Brush brushes the session's electoral-vote bar and records the range.
func (m *Manager) Brush(ctx context.Context, id string, start, end float64) ([]string, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	defer m.lock(id)()
	sess, err := m.get(ctx, id)
	if err != nil {
		return nil, err
	}
	states := sess.Dashboard.Brush(start, end)
	sess.Brush = &Brush{Start: start, End: end}
	return states, m.store.Set(ctx, sess)
}

// ClearBrush empties the session's brush selection.
func (m *Manager) ClearBrush(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	defer m.lock(id)()
	sess, err := m.get(ctx, id)
	if err != nil {
		return err
	}
	sess.Dashboard.ClearBrush()
	sess.Brush = nil
	return m.store.Set(ctx, sess)
}

// Delete ends a session.
func (m *Manager) Delete(ctx context.Context, id string) error {
	defer m.lock(id)()
	m.drop(id)
	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	observability.Session().OnSessionEnd(ctx, id, false)
	return nil
}

// Cleanup purges expired sessions and their dashboards.
func (m *Manager) Cleanup(ctx context.Context) error {
	removed, err := m.store.Cleanup(ctx)
	hooks := observability.Session()
	for _, id := range removed {
		m.drop(id)
		hooks.OnSessionEnd(ctx, id, true)
	}
	if len(removed) > 0 {
		m.logger.Debug("expired sessions", "count", len(removed))
	}
	return err
}

// Run calls Cleanup every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := m.Cleanup(ctx); err != nil {
				m.logger.Warn("session cleanup", "err", err)
			}
		}
	}
}

// Live returns the number of dashboards held in memory.
func (m *Manager) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

func (m *Manager) drop(id string) {
	m.mu.Lock()
	delete(m.live, id)
	delete(m.locks, id)
	m.mu.Unlock()
}
