package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGuardIssueAndValidate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	guard := NewGuard(store)

	id, err := store.Create(ctx, Session{UserID: 1, Username: "admin"})
	require.NoError(t, err)

	token, err := guard.IssueToken(ctx, id)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, guard.Validate(ctx, id, token))
	require.ErrorIs(t, guard.Validate(ctx, id, "forged"), ErrCSRFMismatch)
	require.ErrorIs(t, guard.Validate(ctx, id, ""), ErrCSRFMismatch)
}

func TestGuardReissueInvalidatesPreviousToken(t *testing.T) {
	// Per-render regeneration: only the most recently issued token is valid.
	ctx := context.Background()
	store := NewMemoryStore()
	guard := NewGuard(store)

	id, err := store.Create(ctx, Session{UserID: 1})
	require.NoError(t, err)

	first, err := guard.IssueToken(ctx, id)
	require.NoError(t, err)
	second, err := guard.IssueToken(ctx, id)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	require.ErrorIs(t, guard.Validate(ctx, id, first), ErrCSRFMismatch)
	require.NoError(t, guard.Validate(ctx, id, second))
}

func TestGuardNoStoredToken(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	guard := NewGuard(store)

	id, err := store.Create(ctx, Session{UserID: 1})
	require.NoError(t, err)

	require.ErrorIs(t, guard.Validate(ctx, id, "anything"), ErrCSRFMismatch)
}

func TestGuardUnknownSession(t *testing.T) {
	ctx := context.Background()
	guard := NewGuard(NewMemoryStore())

	_, err := guard.IssueToken(ctx, "missing")
	require.Error(t, err)
	require.ErrorIs(t, guard.Validate(ctx, "missing", "tok"), ErrCSRFMismatch)
}
