// Package session owns the bearer credential for the lifetime of the client.
// Everything that needs the credential reads it from a Session; nothing else
// touches the persisted file.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const (
	dirPerm  = 0o700
	filePerm = 0o600
)

// ClearFunc is notified after the credential has been removed.
type ClearFunc func(reason string)

type Session struct {
	mu        sync.RWMutex
	path      string
	token     string
	listeners []ClearFunc
	logger    *zap.Logger
}

// New creates a session persisted at path. An empty path keeps the credential
// in memory only.
func New(path string, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		path:   strings.TrimSpace(path),
		logger: logger,
	}
}

// DefaultPath is where the credential is kept when the config names no file.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "screener", "token")
}

// Init reads the persisted credential. A missing file means logged out.
func (s *Session) Init() error {
	if s.path == "" {
		return nil
	}

	token, err := LoadSecret(Source{Name: "credential", File: s.path})
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, ErrEmptySecret):
		token = ""
	default:
		return err
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	s.logger.Debug("session initialized",
		zap.String("token_file", s.path),
		zap.Bool("authenticated", token != ""),
	)

	return nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Set stores a fresh credential and persists it.
func (s *Session) Set(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("credential must not be empty")
	}

	if s.path != "" {
		if err := os.MkdirAll(filepath.Dir(s.path), dirPerm); err != nil {
			return fmt.Errorf("creating credential directory: %w", err)
		}
		if err := os.WriteFile(s.path, []byte(token), filePerm); err != nil {
			return fmt.Errorf("persisting credential: %w", err)
		}
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	return nil
}

// OnClear registers a dependent to be told when the session ends.
func (s *Session) OnClear(fn ClearFunc) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Clear drops the credential, removes the persisted copy and notifies every
// dependent. Clearing an already empty session still notifies.
func (s *Session) Clear(reason string) {
	if err := s.clear(reason); err != nil {
		s.logger.Warn("removing persisted credential", zap.Error(err))
	}
}

// Logout is Clear for an explicit user request, reporting removal failures.
func (s *Session) Logout() error {
	return s.clear("logout")
}

func (s *Session) clear(reason string) error {
	s.mu.Lock()
	s.token = ""
	listeners := make([]ClearFunc, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	var err error
	if s.path != "" {
		if rmErr := os.Remove(s.path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			err = fmt.Errorf("removing %s: %w", s.path, rmErr)
		}
	}

	s.logger.Info("session cleared", zap.String("reason", reason))

	for _, fn := range listeners {
		fn(reason)
	}

	return err
}
