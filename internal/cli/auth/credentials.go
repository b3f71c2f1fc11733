package auth

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNoCredential — an authenticated operation was attempted without a
// bearer token. A precondition failure, not a network error.
var ErrNoCredential = errors.New("not logged in")

// Credentials is the process-wide bearer credential capability: set on
// login, cleared on logout, read-only everywhere else. The token is
// persisted to a file so it survives restarts.
type Credentials struct {
	mu    sync.RWMutex
	path  string
	token string
	user  string
}

// NewCredentials builds a holder backed by the given token file and loads
// any previously persisted credential.
func NewCredentials(path string) *Credentials {
	c := &Credentials{path: path}
	if b, err := os.ReadFile(path); err == nil {
		c.token = strings.TrimSpace(string(b))
	}
	if b, err := os.ReadFile(c.userPath()); err == nil {
		c.user = strings.TrimSpace(string(b))
	}
	return c
}

func (c *Credentials) userPath() string {
	return filepath.Join(filepath.Dir(c.path), "last_user")
}

// Token returns the current bearer token, or ok=false when absent.
func (c *Credentials) Token() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token, c.token != ""
}

// User returns the display name of the logged-in user, if known.
func (c *Credentials) User() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user
}

// Set stores the credential and persists it.
func (c *Credentials) Set(token, user string) error {
	if token == "" {
		return errors.New("empty token")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.user = user
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return err
	}
	if err := os.WriteFile(c.path, []byte(token), 0o600); err != nil {
		return err
	}
	return os.WriteFile(c.userPath(), []byte(user), 0o600)
}

// Clear drops the credential and removes the persisted files.
func (c *Credentials) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.user = ""
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := os.Remove(c.userPath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
