// Package application implements the favorites store: a local mirror of the
// backend's favorites set for the current user. The backend stays
// authoritative; the mirror changes only on its answers.
package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/micromarket/storefront/internal/domains/favorites/ports"
)

// ErrEmptyProductID rejects a toggle with a blank identifier.
var ErrEmptyProductID = errors.New("product id must not be empty")

// Store holds the favorited identifiers. The mutex guards only the set; it
// never spans a network call, so two in-flight toggles race by arrival order
// as designed.
type Store struct {
	mu   sync.RWMutex
	api  ports.API
	auth ports.AuthState
	set  map[string]struct{}
}

func NewStore(api ports.API, auth ports.AuthState) *Store {
	return &Store{
		api:  api,
		auth: auth,
		set:  map[string]struct{}{},
	}
}

// Reload resynchronizes the mirror. Unauthenticated, it empties the set
// without touching the network. Authenticated, it replaces the set with
// exactly the identifiers the backend returns; on failure the prior set is
// left intact and the error surfaces to the caller.
func (s *Store) Reload(ctx context.Context) error {
	if !s.auth.IsAuthenticated() {
		s.replace(nil)
		return nil
	}
	ids, err := s.api.ListFavoriteIDs(ctx)
	if err != nil {
		return fmt.Errorf("load favorites: %w", err)
	}
	s.replace(ids)
	return nil
}

// Toggle flips membership for productID via the backend and applies the
// server's answer, never a local negation. The returned boolean is the
// resulting membership. Without a session it fails locally with
// ErrAuthRequired; on a failed call the set is unchanged.
func (s *Store) Toggle(ctx context.Context, productID string) (bool, error) {
	if productID == "" {
		return false, ErrEmptyProductID
	}
	if !s.auth.IsAuthenticated() {
		return false, ports.ErrAuthRequired
	}
	isFavorite, err := s.api.ToggleFavorite(ctx, productID)
	if err != nil {
		return false, fmt.Errorf("toggle favorite %s: %w", productID, err)
	}
	s.mu.Lock()
	if isFavorite {
		s.set[productID] = struct{}{}
	} else {
		delete(s.set, productID)
	}
	s.mu.Unlock()
	return isFavorite, nil
}

// IsFavorite is a pure local membership test; it never triggers network
// activity.
func (s *Store) IsFavorite(productID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.set[productID]
	return ok
}

// IDs returns a sorted snapshot of the mirrored identifiers.
func (s *Store) IDs() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.set))
	for id := range s.set {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

func (s *Store) replace(ids []string) {
	next := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		next[id] = struct{}{}
	}
	s.mu.Lock()
	s.set = next
	s.mu.Unlock()
}

var _ ports.Store = (*Store)(nil)
