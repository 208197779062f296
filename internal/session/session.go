// Package session holds the process-wide signed-in identity and bearer
// token. The token is persisted through the cache layer so a restart picks
// the session back up, and it is cleared on explicit sign-out or on any
// 401 from the backend.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"seclob/internal/cache"
)

const identityCacheKey = "auth/identity"

var ErrNotSignedIn = errors.New("not signed in")

// Identity is the authenticated user plus their bearer token.
type Identity struct {
	ID       string `json:"id"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Token    string `json:"token"`
}

type Store struct {
	mu      sync.RWMutex
	cache   cache.Cache
	current *Identity

	// onClear observers run after a logout, explicit or forced by a 401.
	onClear []func()
}

func NewStore(c cache.Cache) *Store {
	return &Store{cache: c}
}

// Restore loads a persisted identity at startup. A missing or unreadable
// entry just means signed-out.
func (s *Store) Restore(ctx context.Context) {
	stored, err := s.cache.Get(ctx, identityCacheKey)
	if err != nil {
		return
	}
	var identity Identity
	if err := json.Unmarshal([]byte(stored), &identity); err != nil || identity.Token == "" {
		slog.WarnContext(ctx, "discarding unreadable stored session")
		_ = s.cache.Delete(ctx, identityCacheKey)
		return
	}
	s.mu.Lock()
	s.current = &identity
	s.mu.Unlock()
	slog.InfoContext(ctx, "restored session", "user", identity.UserName)
}

// Token implements the API client's token source.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// Current returns the signed-in identity, or nil.
func (s *Store) Current() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	identity := *s.current
	return &identity
}

// CurrentUserID returns the signed-in user's id, empty when signed out.
func (s *Store) CurrentUserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.ID
}

func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil && s.current.Role == "admin"
}

// OnClear registers a logout observer.
func (s *Store) OnClear(fn func()) {
	s.mu.Lock()
	s.onClear = append(s.onClear, fn)
	s.mu.Unlock()
}

func (s *Store) set(ctx context.Context, identity Identity) error {
	encoded, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	if err := s.cache.Set(ctx, identityCacheKey, string(encoded)); err != nil {
		return fmt.Errorf("persist identity: %w", err)
	}
	s.mu.Lock()
	s.current = &identity
	s.mu.Unlock()
	return nil
}

// Clear signs out: drops the in-memory identity, removes the persisted
// token, and notifies observers. Safe to call repeatedly; a 401 storm
// clears once and the rest are no-ops.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	wasSignedIn := s.current != nil
	s.current = nil
	observers := s.onClear
	s.mu.Unlock()

	if !wasSignedIn {
		return
	}
	if err := s.cache.Delete(ctx, identityCacheKey); err != nil {
		slog.ErrorContext(ctx, "failed to remove persisted session", "error", err)
	}
	for _, fn := range observers {
		fn()
	}
}
