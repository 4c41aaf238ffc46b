package ports

import (
	"context"
	"errors"
)

// ErrAuthRequired rejects a toggle attempted without a session, before any
// network call is made.
var ErrAuthRequired = errors.New("authentication required")

// API is the slice of the backend surface the favorites store depends on.
type API interface {
	ListFavoriteIDs(ctx context.Context) ([]string, error)
	ToggleFavorite(ctx context.Context, productID string) (bool, error)
}

// AuthState is the read-only session view the store consults.
type AuthState interface {
	IsAuthenticated() bool
}

// Store mirrors the user's favorited product identifiers for the view layer.
type Store interface {
	Reload(ctx context.Context) error
	Toggle(ctx context.Context, productID string) (bool, error)
	IsFavorite(productID string) bool
	IDs() []string
}
