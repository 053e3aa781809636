// internal/domain/auth/session.go
package auth

import (
	"context"
	"time"
)

// expiryMargin treats a token as expired slightly before its real expiry so
// that a request started now does not reach the store with a dead token.
const expiryMargin = 10 * time.Second

// User is the authenticated principal.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is an authenticated principal's active login state.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         User
}

// Expired reports whether the access token can no longer be used at now.
func (s *Session) Expired(now time.Time) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Add(expiryMargin).Before(s.ExpiresAt)
}

type sessionKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session put on ctx by WithSession, if any.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}

// UserFromContext returns the authenticated user carried by ctx, if any.
func UserFromContext(ctx context.Context) (User, bool) {
	s, ok := SessionFromContext(ctx)
	if !ok || s.User.ID == "" {
		return User{}, false
	}
	return s.User, true
}
