package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	id, err := store.Create(ctx, Session{UserID: 7, Username: "admin"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	sess, ok, err := store.Get(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(7), sess.UserID)
	require.Equal(t, "admin", sess.Username)
	require.True(t, sess.Authenticated())

	sess.CSRFToken = "tok"
	require.NoError(t, store.Update(ctx, id, sess))
	sess, ok, err = store.Get(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "tok", sess.CSRFToken)

	require.NoError(t, store.Delete(ctx, id))
	_, ok, err = store.Get(ctx, id)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreUnknownSession(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, ok, err := store.Get(ctx, "nope")
	require.NoError(t, err)
	require.False(t, ok)

	require.Error(t, store.Update(ctx, "nope", Session{}))
	// Delete of an unknown session is a no-op.
	require.NoError(t, store.Delete(ctx, "nope"))
}

func TestSessionIDsAreUnique(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := store.Create(ctx, Session{})
		require.NoError(t, err)
		require.False(t, seen[id])
		seen[id] = true
	}
}

func TestAnonymousSessionIsNotAuthenticated(t *testing.T) {
	require.False(t, Session{}.Authenticated())
	require.False(t, Session{CSRFToken: "tok"}.Authenticated())
	require.True(t, Session{UserID: 1}.Authenticated())
}
