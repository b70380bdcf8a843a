package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrCSRFMismatch is returned when the submitted token is absent or does not
// exactly match the token stored in the session.
var ErrCSRFMismatch = errors.New("invalid CSRF token")

// Guard issues and validates per-session CSRF tokens.
//
// Each page render issues a fresh token that overwrites the previous one, so
// only the most recently rendered form in a session can be submitted. Two
// forms open concurrently in the same session invalidate each other; that is
// the documented behavior, not a bug to fix here.
type Guard struct {
	sessions Store
}

// NewGuard returns a Guard over the given session store.
func NewGuard(sessions Store) *Guard {
	return &Guard{sessions: sessions}
}

// IssueToken generates a fresh random token, stores it in the session and
// returns it for embedding in the next form.
func (g *Guard) IssueToken(ctx context.Context, sessionID string) (string, error) {
	sess, ok, err := g.sessions.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("session %s not found", sessionID)
	}
	token, err := newCSRFToken()
	if err != nil {
		return "", err
	}
	sess.CSRFToken = token
	if err := g.sessions.Update(ctx, sessionID, sess); err != nil {
		return "", err
	}
	return token, nil
}

// Validate checks the submitted token against the one stored in the session.
// Callers must run this before any side effect on a mutating request.
func (g *Guard) Validate(ctx context.Context, sessionID, submitted string) error {
	sess, ok, err := g.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if !ok || sess.CSRFToken == "" || submitted != sess.CSRFToken {
		return ErrCSRFMismatch
	}
	return nil
}

// newCSRFToken returns 32 random bytes, URL-safe base64 encoded.
func newCSRFToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
