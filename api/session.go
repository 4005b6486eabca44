package api

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenKey is the name under which the bearer token is persisted.
const TokenKey = "token"

// TokenStore is the durable storage of the session token.
// Load returns "" when no token was saved.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Session holds the single bearer credential of a running client.
// It is safe for concurrent use.
//
// A Session without a TokenStore only lives in memory.
type Session struct {
	store TokenStore

	mu    sync.RWMutex
	token string
}

// NewSession returns a session restored from store, if any.
func NewSession(store TokenStore) (*Session, error) {
	s := &Session{store: store}
	if store == nil {
		return s, nil
	}
	token, err := store.Load()
	if err != nil {
		return s, fmt.Errorf("cannot restore session token: %w", err)
	}
	s.token = token
	return s, nil
}

// Token returns the current token, ok is false if there is none.
func (s *Session) Token() (token string, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// IsAuthenticated reports whether a token is present. It never calls the server.
func (s *Session) IsAuthenticated() bool {
	_, ok := s.Token()
	return ok
}

// SetToken replaces the token and persists it.
// The in-memory token is updated even if persisting fails.
func (s *Session) SetToken(token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	if s.store == nil {
		return nil
	}
	if err := s.store.Save(token); err != nil {
		return fmt.Errorf("cannot persist session token: %w", err)
	}
	return nil
}

// ClearToken forgets the token, in memory and in storage.
func (s *Session) ClearToken() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	if s.store == nil {
		return nil
	}
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("cannot clear persisted session token: %w", err)
	}
	return nil
}

// FileTokenStore persists the token in a single user-private file.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore returns a store writing to path.
func NewFileTokenStore(path string) *FileTokenStore { return &FileTokenStore{path: path} }

// DefaultTokenPath is the token file in the user's configuration directory,
// or in the temporary directory if there is none.
func DefaultTokenPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "budget", TokenKey)
}

// Path returns the file the token is stored in.
func (f *FileTokenStore) Path() string { return f.path }

func (f *FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (f *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.path, []byte(token), 0o600)
}

func (f *FileTokenStore) Clear() error {
	err := os.Remove(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// MemoryTokenStore keeps the persisted token in memory, it is mostly useful in tests.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
	Err   error // returned by every call when set
}

func (m *MemoryTokenStore) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.Err
}

func (m *MemoryTokenStore) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.token = token
	return nil
}

func (m *MemoryTokenStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.token = ""
	return nil
}
