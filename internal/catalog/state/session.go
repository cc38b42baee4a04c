// Package state holds the client-wide session and book collection stores.
// Each store is a process-wide singleton shared by the orchestration layer;
// mutation goes through the documented methods only.
package state

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// SessionStore tracks the current authentication token. When constructed
// with a path, the token survives restarts in a file the way a browser
// client would keep it in local storage.
type SessionStore struct {
	mu    sync.RWMutex
	token string
	path  string
}

// NewSessionStore creates a session store. path may be empty for a purely
// in-memory session; otherwise a previously persisted token is loaded.
func NewSessionStore(path string) *SessionStore {
	s := &SessionStore{path: path}
	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			s.token = strings.TrimSpace(string(data))
		}
	}
	return s
}

// Login installs the current credential. There is never more than one.
func (s *SessionStore) Login(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = strings.TrimSpace(token)
	s.persist()
}

// Logout destroys the session.
func (s *SessionStore) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.persist()
}

// Token returns the current credential, or "" when logged out.
func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a credential is present.
func (s *SessionStore) Authenticated() bool {
	return s.Token() != ""
}

func (s *SessionStore) persist() {
	if s.path == "" {
		return
	}
	if s.token == "" {
		_ = os.Remove(s.path)
		return
	}
	_ = os.MkdirAll(filepath.Dir(s.path), 0o700)
	_ = os.WriteFile(s.path, []byte(s.token+"\n"), 0o600)
}
