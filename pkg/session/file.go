package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/electoral/pkg/errors"
)

// FileStore keeps one JSON file per session so a restarted server can
// rebuild its viewers' dashboards.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// DefaultDir returns $XDG_STATE_HOME/electoral/sessions, falling back to
// ~/.local/state/electoral/sessions.
func DefaultDir() (string, error) {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "electoral", "sessions"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "locate home directory")
	}
	return filepath.Join(home, ".local", "state", "electoral", "sessions"), nil
}

// NewFileStore opens a store in dir, creating it if needed. An empty dir
// selects DefaultDir.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create session dir %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the session directory.
func (s *FileStore) Path() string { return s.dir }

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *FileStore) Get(ctx context.Context, id string) (*Session, error) {
	if ValidateID(id) != nil {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := readSession(s.path(id))
	if err != nil || sess == nil {
		return nil, err
	}
	if sess.IsExpired() {
		return nil, nil
	}
	return sess, nil
}

// Set writes through a temporary file, so a crash never leaves a truncated
// session behind.
func (s *FileStore) Set(ctx context.Context, sess *Session) error {
	if err := ValidateID(sess.ID); err != nil {
		return err
	}
	data, err := json.Marshal(sess.clone())
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode session")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	tmp := s.path(sess.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write session %s", sess.ID)
	}
	if err := os.Rename(tmp, s.path(sess.ID)); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeInternal, err, "write session %s", sess.ID)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if ValidateID(id) != nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete session %s", id)
	}
	return nil
}

// Cleanup removes expired sessions and files that no longer decode. Only
// the IDs of expired sessions are returned.
func (s *FileStore) Cleanup(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read session dir")
	}
	var removed []string
	now := time.Now()
	for _, e := range entries {
		id, ok := strings.CutSuffix(e.Name(), ".json")
		if e.IsDir() || !ok || ValidateID(id) != nil {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		sess, err := readSession(path)
		switch {
		case err != nil:
			continue
		case sess == nil:
			os.Remove(path)
		case now.After(sess.ExpiresAt):
			os.Remove(path)
			removed = append(removed, id)
		}
	}
	return removed, nil
}

// readSession returns (nil, nil) for a missing or undecodable file.
func readSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", filepath.Base(path))
	}
	var sess Session
	if json.Unmarshal(data, &sess) != nil {
		return nil, nil
	}
	return &sess, nil
}

var _ Store = (*FileStore)(nil)
