// Package session tracks dashboard viewers for the HTTP server.
//
// Each viewer gets a session holding its selected year and brush. The
// serializable part of a session lives in a [Store]:
//   - [MemoryStore]: in-process, for a single server
//   - [FileStore]: JSON files, so sessions survive a restart
//
// The live dashboards are owned by a [Manager], which rebuilds a dashboard
// from the stored year and brush when it has none in memory.
//
// # Usage
//
//	mgr := session.NewManager(session.NewMemoryStore(), func() *dashboard.Dashboard {
//	    return dashboard.New(src)
//	}, session.DefaultTTL)
//
//	sess, err := mgr.Create(ctx)
//	snap, err := mgr.Select(ctx, sess.ID, 2016)
//	states, err := mgr.Brush(ctx, sess.ID, 100, 300)
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/electoral/pkg/dashboard"
	"github.com/matzehuels/electoral/pkg/errors"
)

// Errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New(errors.ErrCodeNotFound, "session not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New(errors.ErrCodeNotFound, "session expired")
)

// Default durations.
const (
	// DefaultTTL is the default session duration.
	DefaultTTL = 2 * time.Hour

	// DefaultCleanupInterval is how often expired sessions are purged.
	DefaultCleanupInterval = 5 * time.Minute
)

// Brush is a brushed electoral-vote range.
type Brush struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Session is one viewer.
type Session struct {
	ID        string    `json:"id"`
	Year      int       `json:"year,omitempty"`
	Brush     *Brush    `json:"brush,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`

	// Dashboard is attached by the Manager and never stored.
	Dashboard *dashboard.Dashboard `json:"-"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// clone returns a copy without the dashboard.
func (s *Session) clone() *Session {
	c := *s
	c.Dashboard = nil
	if s.Brush != nil {
		b := *s.Brush
		c.Brush = &b
	}
	return &c
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions and returns the IDs it removed.
	Cleanup(ctx context.Context) ([]string, error)
}

// New creates a session with a random UUID.
func New(ttl time.Duration) *Session {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// ValidateID checks that id is a UUID, so it is safe in file names.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid session id %q", id)
	}
	return nil
}
