package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/micromarket/storefront/internal/backend"
	favapp "github.com/micromarket/storefront/internal/domains/favorites/application"
	sessionmemory "github.com/micromarket/storefront/internal/domains/session/adapters/memory"
	sessionapp "github.com/micromarket/storefront/internal/domains/session/application"
)

// wire assembles session store, backend client, and favorites store the same
// way Run does, against a test backend.
func wire(t *testing.T, handler http.Handler) (*sessionapp.Store, *backend.Client, *favapp.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	session := sessionapp.NewStore(sessionmemory.NewStorage())
	client := backend.New(srv.URL, session, backend.WithUnauthorizedHook(session.Logout))
	favorites := favapp.NewStore(client, session)
	session.Subscribe(func(bool) { _ = favorites.Reload(context.Background()) })
	require.NoError(t, session.Restore())
	return session, client, favorites
}

func TestLoginTriggersFavoritesLoadAndLogoutClearsThem(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/products/favorites", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [{"_id": "p1"}, {"_id": "p3"}]}`))
	})
	session, _, favorites := wire(t, mux)

	require.NoError(t, session.Login("abc"))
	require.True(t, favorites.IsFavorite("p1"))
	require.True(t, favorites.IsFavorite("p3"))
	require.False(t, favorites.IsFavorite("p2"))

	session.Logout()
	require.Empty(t, favorites.IDs())
}

func TestUnauthorizedFromAnyEndpointLogsOut(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/products/favorites", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": []}`))
	})
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	session, client, favorites := wire(t, mux)
	require.NoError(t, session.Login("abc"))
	require.True(t, session.IsAuthenticated())

	// the expired token is detected on a catalog call, not a login call
	_, err := client.ListProducts(context.Background(), "", 1, 8)
	require.ErrorIs(t, err, backend.ErrSessionExpired)
	require.False(t, session.IsAuthenticated())
	require.Empty(t, favorites.IDs())
}

func TestRestoredTokenLoadsFavoritesAtStartup(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/products/favorites", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [{"_id": "p7"}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	storage := sessionmemory.NewStorage()
	require.NoError(t, storage.Save("persisted-token"))

	session := sessionapp.NewStore(storage)
	client := backend.New(srv.URL, session, backend.WithUnauthorizedHook(session.Logout))
	favorites := favapp.NewStore(client, session)
	session.Subscribe(func(bool) { _ = favorites.Reload(context.Background()) })

	require.NoError(t, session.Restore())
	require.True(t, session.IsAuthenticated())
	require.True(t, favorites.IsFavorite("p7"))
}
