package api

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSessionTokenSequence(t *testing.T) {
	store := &MemoryTokenStore{}
	s, err := NewSession(store)
	if err != nil {
		t.Fatalf("NewSession() unexpected error: %v", err)
	}
	if s.IsAuthenticated() {
		t.Fatalf("new session is authenticated")
	}

	steps := []struct {
		set   string // "" clears
		token string
	}{
		{set: "a", token: "a"},
		{set: "b", token: "b"},
		{set: "", token: ""},
		{set: "c", token: "c"},
	}
	for _, step := range steps {
		if step.set == "" {
			err = s.ClearToken()
		} else {
			err = s.SetToken(step.set)
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, ok := s.Token()
		if got != step.token || ok != (step.token != "") {
			t.Errorf("Token() = %q, %v, want %q", got, ok, step.token)
		}
		if stored, _ := store.Load(); stored != step.token {
			t.Errorf("stored token = %q, want %q", stored, step.token)
		}
	}
}

func TestSessionRestore(t *testing.T) {
	store := &MemoryTokenStore{}
	_ = store.Save("persisted")
	s, err := NewSession(store)
	if err != nil {
		t.Fatalf("NewSession() unexpected error: %v", err)
	}
	if got, _ := s.Token(); got != "persisted" {
		t.Errorf("Token() = %q, want %q", got, "persisted")
	}
}

func TestSessionWithoutStore(t *testing.T) {
	s, _ := NewSession(nil)
	if err := s.SetToken("t"); err != nil {
		t.Fatalf("SetToken() unexpected error: %v", err)
	}
	if !s.IsAuthenticated() {
		t.Errorf("IsAuthenticated() = false after SetToken")
	}
}

func TestSessionStoreFailure(t *testing.T) {
	store := &MemoryTokenStore{Err: errors.New("disk full")}
	s := &Session{store: store}
	if err := s.SetToken("t"); err == nil {
		t.Errorf("SetToken() expected an error")
	}
	if got, _ := s.Token(); got != "t" {
		t.Errorf("Token() = %q, the in-memory token must be updated anyway", got)
	}
}

func TestFileTokenStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "budget", TokenKey)
	store := NewFileTokenStore(path)

	if got, err := store.Load(); err != nil || got != "" {
		t.Errorf("Load() of a missing file = %q, %v, want empty", got, err)
	}
	if err := store.Save("secret"); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() unexpected error: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("token file mode = %v, want 0600", perm)
	}
	if got, _ := store.Load(); got != "secret" {
		t.Errorf("Load() = %q, want %q", got, "secret")
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() unexpected error: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Errorf("Clear() of a missing file unexpected error: %v", err)
	}
}
