// internal/infra/supabase/auth.go
package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"cyclesync/internal/domain/auth"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = fmt.Errorf("invalid access token")

// accessClaims are the claims GoTrue puts in an access token.
type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type tokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	ExpiresAt    int64     `json:"expires_at"`
	User         auth.User `json:"user"`
}

func (t *tokenResponse) session(now time.Time) *auth.Session {
	expiresAt := time.Unix(t.ExpiresAt, 0)
	if t.ExpiresAt == 0 {
		expiresAt = now.Add(time.Duration(t.ExpiresIn) * time.Second)
	}
	return &auth.Session{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresAt:    expiresAt,
		User:         t.User,
	}
}

// AuthClient implements auth.Provider against the GoTrue API (/auth/v1).
type AuthClient struct {
	client *Client
	now    func() time.Time
}

func NewAuthClient(c *Client) *AuthClient {
	return &AuthClient{client: c, now: time.Now}
}

// SessionFromTokens decodes the access token locally. The signature is not
// checked here: the service verifies the token on every request it receives.
func (a *AuthClient) SessionFromTokens(accessToken, refreshToken string) (*auth.Session, error) {
	if accessToken == "" {
		return nil, ErrInvalidToken
	}
	claims := &accessClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	s := &auth.Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         auth.User{ID: claims.Subject, Email: claims.Email},
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

func (a *AuthClient) SignInWithPassword(ctx context.Context, email, password string) (*auth.Session, error) {
	var resp tokenResponse
	err := a.client.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"password"}},
		body:   map[string]string{"email": email, "password": password},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.session(a.now()), nil
}

func (a *AuthClient) SignUp(ctx context.Context, email, password string) (*auth.Session, error) {
	var resp tokenResponse
	err := a.client.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/signup",
		body:   map[string]string{"email": email, "password": password},
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, nil // confirmation email sent
	}
	return resp.session(a.now()), nil
}

func (a *AuthClient) Refresh(ctx context.Context, refreshToken string) (*auth.Session, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("refresh token is required")
	}
	var resp tokenResponse
	err := a.client.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"refresh_token"}},
		body:   map[string]string{"refresh_token": refreshToken},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.session(a.now()), nil
}

func (a *AuthClient) GetUser(ctx context.Context, accessToken string) (*auth.User, error) {
	var u auth.User
	err := a.client.do(ctx, request{
		method: http.MethodGet,
		path:   "/auth/v1/user",
		bearer: accessToken,
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (a *AuthClient) SignOut(ctx context.Context, accessToken string) error {
	return a.client.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/logout",
		bearer: accessToken,
	}, nil)
}
