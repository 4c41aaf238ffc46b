package application

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/micromarket/storefront/internal/domains/session/adapters/memory"
)

type failingStorage struct {
	saveErr error
}

func (f *failingStorage) Load() (string, error) { return "", nil }
func (f *failingStorage) Save(string) error     { return f.saveErr }
func (f *failingStorage) Clear() error          { return nil }

func TestLoginThenRestoreInFreshStore(t *testing.T) {
	storage := memory.NewStorage()

	first := NewStore(storage)
	require.NoError(t, first.Restore())
	require.False(t, first.IsAuthenticated())
	require.NoError(t, first.Login("abc"))
	require.True(t, first.IsAuthenticated())
	require.Equal(t, "abc", first.Token())

	// a fresh store over the same storage reproduces the session
	second := NewStore(storage)
	require.NoError(t, second.Restore())
	require.True(t, second.IsAuthenticated())
	require.Equal(t, "abc", second.Token())
}

func TestLogin_EmptyTokenRejected(t *testing.T) {
	store := NewStore(memory.NewStorage())
	require.ErrorIs(t, store.Login("  "), ErrEmptyToken)
	require.False(t, store.IsAuthenticated())
}

func TestLogin_StorageFailureDoesNotActivate(t *testing.T) {
	boom := errors.New("disk full")
	store := NewStore(&failingStorage{saveErr: boom})
	require.ErrorIs(t, store.Login("abc"), boom)
	require.False(t, store.IsAuthenticated())
	require.Empty(t, store.Token())
}

func TestLogout_IdempotentAndClearsStorage(t *testing.T) {
	storage := memory.NewStorage()
	store := NewStore(storage)
	require.NoError(t, store.Login("abc"))

	store.Logout()
	require.False(t, store.IsAuthenticated())
	require.Empty(t, store.Token())

	persisted, err := storage.Load()
	require.NoError(t, err)
	require.Empty(t, persisted)

	// second logout is a no-op
	store.Logout()
	require.False(t, store.IsAuthenticated())
}

func TestSubscribersSeeEachTransitionOnce(t *testing.T) {
	store := NewStore(memory.NewStorage())
	var transitions []bool
	store.Subscribe(func(authenticated bool) {
		transitions = append(transitions, authenticated)
	})

	require.NoError(t, store.Login("abc"))
	// renewing the token while already authenticated is not a transition
	require.NoError(t, store.Login("def"))
	store.Logout()
	store.Logout()

	require.Equal(t, []bool{true, false}, transitions)
}

func TestRestoreNotifiesWhenTokenWasPersisted(t *testing.T) {
	storage := memory.NewStorage()
	require.NoError(t, storage.Save("abc"))

	store := NewStore(storage)
	var sawAuthenticated bool
	store.Subscribe(func(authenticated bool) { sawAuthenticated = authenticated })

	require.NoError(t, store.Restore())
	require.True(t, sawAuthenticated)
	require.True(t, store.Restored())

	// Restore runs once; a second call neither reloads nor re-notifies
	sawAuthenticated = false
	require.NoError(t, store.Restore())
	require.False(t, sawAuthenticated)
}
