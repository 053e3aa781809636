// internal/domain/auth/provider.go
package auth

import "context"

// Provider is the hosted authentication service.
type Provider interface {
	// SessionFromTokens rebuilds a session from stored tokens without a network call.
	SessionFromTokens(accessToken, refreshToken string) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	GetUser(ctx context.Context, accessToken string) (*User, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	// SignUp returns a nil session when the service requires email confirmation first.
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
}
