// Package credstore persists backend session state for the capture tool:
// tokens, signed-in user, selected job and small preferences.
package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrNotAuthenticated is returned when no usable access token is stored.
var ErrNotAuthenticated = errors.New("not authenticated")

// expirySkew treats tokens about to expire as already expired.
const expirySkew = 30 * time.Second

// Tokens is the token pair issued by the backend.
type Tokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
}

// User identifies the signed-in recruiter.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

type state struct {
	Tokens      *Tokens           `json:"tokens,omitempty"`
	User        *User             `json:"user,omitempty"`
	JobID       string            `json:"job_id,omitempty"`
	Preferences map[string]string `json:"preferences,omitempty"`
}

// Store is a JSON file guarded by a mutex. Every mutation rewrites the file
// with 0600 permissions.
type Store struct {
	path string
	mu   sync.Mutex
	st   state
}

// Open loads the store at path. A missing file yields an empty store.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	if len(b) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(b, &s.st); err != nil {
		return nil, fmt.Errorf("parse credentials %s: %w", path, err)
	}
	return s, nil
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(&s.st, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Tokens returns the stored tokens or ErrNotAuthenticated.
func (s *Store) Tokens() (Tokens, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st.Tokens == nil || s.st.Tokens.AccessToken == "" {
		return Tokens{}, ErrNotAuthenticated
	}
	return *s.st.Tokens, nil
}

// SetTokens replaces the token pair. An empty refresh token keeps the old one.
func (s *Store) SetTokens(t Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.RefreshToken == "" && s.st.Tokens != nil {
		t.RefreshToken = s.st.Tokens.RefreshToken
	}
	s.st.Tokens = &t
	return s.save()
}

// IsAuthenticated reports whether an access token exists and is valid at now.
// A zero expiry never expires.
func (s *Store) IsAuthenticated(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.st.Tokens
	if t == nil || t.AccessToken == "" {
		return false
	}
	return t.ExpiresAt.IsZero() || now.Add(expirySkew).Before(t.ExpiresAt)
}

func (s *Store) User() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st.User == nil {
		return User{}, false
	}
	return *s.st.User, true
}

func (s *Store) SetUser(u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.User = &u
	return s.save()
}

func (s *Store) JobID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.JobID
}

func (s *Store) SetJobID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.JobID = id
	return s.save()
}

// Preference returns a stored preference value.
func (s *Store) Preference(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.st.Preferences[key]
	return v, ok
}

func (s *Store) SetPreference(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st.Preferences == nil {
		s.st.Preferences = make(map[string]string)
	}
	s.st.Preferences[key] = value
	return s.save()
}

// Clear drops tokens and user but keeps preferences, which is what signing
// out means for the tool.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.Tokens = nil
	s.st.User = nil
	s.st.JobID = ""
	return s.save()
}
