// Package application holds the session store: the single source of truth
// for whether this client is authenticated and with what credential.
package application

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/micromarket/storefront/internal/domains/session/ports"
)

// ErrEmptyToken rejects Login with a blank credential.
var ErrEmptyToken = errors.New("session token must not be empty")

// Store holds the active token and the authenticated flag derived from it.
// The invariant authenticated == (token != "") holds at all times; at most
// one token is active per store.
type Store struct {
	mu        sync.RWMutex
	storage   ports.TokenStorage
	token     string
	restored  bool
	listeners []ports.Listener
	logger    *slog.Logger
}

type Option func(*Store)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewStore(storage ports.TokenStorage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		logger:  slog.New(slog.NewJSONHandler(os.Stdout, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Subscribe registers a listener for authenticated-state transitions.
// Listeners registered before Restore also observe the startup transition
// when a persisted token is found.
func (s *Store) Subscribe(l ports.Listener) {
	if l == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

// Restore loads a previously persisted token, if any. It runs once at
// startup, makes no network call, and must complete before any protected
// view is served.
func (s *Store) Restore() error {
	s.mu.Lock()
	if s.restored {
		s.mu.Unlock()
		return nil
	}
	s.restored = true
	token, err := s.storage.Load()
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("restore session token: %w", err)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		s.mu.Unlock()
		return nil
	}
	s.token = token
	s.mu.Unlock()
	s.logger.Info("session restored from durable storage")
	s.notify(true)
	return nil
}

// Restored reports whether startup restoration has completed.
func (s *Store) Restored() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.restored
}

// Login persists token durably and activates it. The token's contents are
// trusted as-is; it came from a successful backend login. Listeners fire only
// on the unauthenticated→authenticated transition.
func (s *Store) Login(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}
	if err := s.storage.Save(token); err != nil {
		return fmt.Errorf("persist session token: %w", err)
	}
	s.mu.Lock()
	wasAuthenticated := s.token != ""
	s.token = token
	s.mu.Unlock()
	s.logger.Info("session established")
	if !wasAuthenticated {
		s.notify(true)
	}
	return nil
}

// Logout clears the persisted and active token. Calling it while already
// logged out is a no-op; that makes it safe as the 401 hook even when several
// in-flight requests expire at once.
func (s *Store) Logout() {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return
	}
	s.token = ""
	s.mu.Unlock()
	if err := s.storage.Clear(); err != nil {
		s.logger.Warn("failed to clear persisted session token", slog.String("error", err.Error()))
	}
	s.logger.Info("session cleared")
	s.notify(false)
}

// Token returns the active token, or "" when logged out. Satisfies the
// backend client's TokenProvider.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsAuthenticated derives the authenticated flag from token presence.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

func (s *Store) notify(authenticated bool) {
	s.mu.RLock()
	listeners := make([]ports.Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()
	for _, l := range listeners {
		l(authenticated)
	}
}

var _ ports.Session = (*Store)(nil)
