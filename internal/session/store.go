// Package session persists the authenticated identity, bearer token and the
// local user's profile between runs.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/gregriff/rilmas/internal/schemas"
)

// Session is the authenticated identity bound to this client.
type Session struct {
	User  schemas.User
	Token string
}

// fileFormat is the on-disk layout. The two session keys are fixed.
type fileFormat struct {
	User    *schemas.User    `toml:"rilmas_user,omitempty"`
	Token   string           `toml:"rilmas_token,omitempty"`
	Profile *schemas.Profile `toml:"profile,omitempty"`
}

// Store is the file-backed session store. The last writer wins; there is no
// cross-process locking.
type Store struct {
	path string

	mu      sync.Mutex
	current *Session
	profile *schemas.Profile
}

// NewStore returns a store backed by path. Call Load to restore a session.
func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load reads the session file. A missing file means there is no session and
// is not an error.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading session file: %w", err)
	}

	var f fileFormat
	if err := toml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decoding session file %s: %w", s.path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	if f.User != nil && f.Token != "" {
		s.current = &Session{User: *f.User, Token: f.Token}
	}
	s.profile = f.Profile
	return nil
}

// Get returns the current session, if any.
func (s *Store) Get() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

// Save replaces the session with (user, token) and persists both as one write.
// The profile is reseeded from the new user.
func (s *Store) Save(user schemas.User, token string) error {
	if token == "" {
		return errors.New("empty token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profile := schemas.ProfileOf(user)
	next := fileFormat{User: &user, Token: token, Profile: &profile}
	if err := s.write(next); err != nil {
		return err
	}
	s.current = &Session{User: user, Token: token}
	s.profile = &profile
	return nil
}

// Clear removes the session and profile, on disk and in memory.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session file: %w", err)
	}
	s.current = nil
	s.profile = nil
	return nil
}

// Profile returns the local profile, seeded from the session user when no
// edit has been saved yet.
func (s *Store) Profile() (schemas.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.profile != nil:
		return *s.profile, true
	case s.current != nil:
		return schemas.ProfileOf(s.current.User), true
	}
	return schemas.Profile{}, false
}

// SetProfile persists an edited profile alongside the current session.
func (s *Store) SetProfile(p schemas.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := fileFormat{Profile: &p}
	if s.current != nil {
		user := s.current.User
		next.User, next.Token = &user, s.current.Token
	}
	if err := s.write(next); err != nil {
		return err
	}
	s.profile = &p
	return nil
}

// write replaces the file through a rename so readers never see half a pair.
func (s *Store) write(f fileFormat) error {
	data, err := toml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".session-*.toml")
	if err != nil {
		return fmt.Errorf("creating temp session file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing session: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing session: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing session file: %w", err)
	}
	return nil
}
