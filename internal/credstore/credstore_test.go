package credstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cfg", "credentials.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return s
}

func TestEmptyStore(t *testing.T) {
	s := openTemp(t)
	if _, err := s.Tokens(); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if s.IsAuthenticated(time.Now()) {
		t.Fatalf("empty store must not be authenticated")
	}
	if _, ok := s.User(); ok {
		t.Fatalf("no user expected")
	}
}

func TestPersistAndReload(t *testing.T) {
	s := openTemp(t)
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := s.SetTokens(Tokens{AccessToken: "a1", RefreshToken: "r1", ExpiresAt: exp}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetUser(User{ID: "u1", Email: "rec@example.com"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetJobID("job-7"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetPreference("tone", "friendly"); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("perms: got %o want 600", info.Mode().Perm())
	}

	r, err := Open(s.Path())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	tok, err := r.Tokens()
	if err != nil || tok.AccessToken != "a1" || tok.RefreshToken != "r1" || !tok.ExpiresAt.Equal(exp) {
		t.Fatalf("tokens: %+v %v", tok, err)
	}
	if u, ok := r.User(); !ok || u.ID != "u1" {
		t.Fatalf("user: %+v", u)
	}
	if r.JobID() != "job-7" {
		t.Fatalf("job id: %q", r.JobID())
	}
	if v, _ := r.Preference("tone"); v != "friendly" {
		t.Fatalf("pref: %q", v)
	}
}

func TestIsAuthenticated_Expiry(t *testing.T) {
	s := openTemp(t)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		exp  time.Time
		want bool
	}{
		{"no expiry", time.Time{}, true},
		{"future", now.Add(time.Hour), true},
		{"within skew", now.Add(10 * time.Second), false},
		{"past", now.Add(-time.Minute), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := s.SetTokens(Tokens{AccessToken: "a", ExpiresAt: tc.exp}); err != nil {
				t.Fatal(err)
			}
			if got := s.IsAuthenticated(now); got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestSetTokens_KeepsRefreshToken(t *testing.T) {
	s := openTemp(t)
	_ = s.SetTokens(Tokens{AccessToken: "a1", RefreshToken: "r1"})
	_ = s.SetTokens(Tokens{AccessToken: "a2"})
	tok, _ := s.Tokens()
	if tok.AccessToken != "a2" || tok.RefreshToken != "r1" {
		t.Fatalf("unexpected tokens %+v", tok)
	}
}

func TestClear(t *testing.T) {
	s := openTemp(t)
	_ = s.SetTokens(Tokens{AccessToken: "a1"})
	_ = s.SetUser(User{ID: "u"})
	_ = s.SetPreference("tone", "formal")
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if s.IsAuthenticated(time.Now()) {
		t.Fatalf("cleared store must not be authenticated")
	}
	if v, ok := s.Preference("tone"); !ok || v != "formal" {
		t.Fatalf("preferences must survive Clear")
	}
}

func TestOpen_Corrupt(t *testing.T) {
	p := filepath.Join(t.TempDir(), "c.json")
	if err := os.WriteFile(p, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(p); err == nil {
		t.Fatalf("expected parse error")
	}
}
