// internal/app/session_guard.go
package app

import (
	"context"
	"fmt"
	"time"

	"cyclesync/internal/domain/auth"

	"github.com/sirupsen/logrus"
)

// ErrNoSession means the caller must go through the authentication flow.
var ErrNoSession = fmt.Errorf("no valid session")

// SessionGuard decides whether stored tokens still make a usable session.
type SessionGuard struct {
	provider auth.Provider
	logger   *logrus.Entry
	now      func() time.Time
}

func NewSessionGuard(p auth.Provider, logger *logrus.Entry) *SessionGuard {
	return &SessionGuard{provider: p, logger: logger, now: time.Now}
}

// Check returns the current session for the stored tokens. An expired access
// token is refreshed once; refreshed reports whether the caller has to
// persist new tokens. Any failure yields ErrNoSession.
func (g *SessionGuard) Check(ctx context.Context, accessToken, refreshToken string) (session *auth.Session, refreshed bool, err error) {
	if accessToken == "" {
		return nil, false, ErrNoSession
	}

	session, err = g.provider.SessionFromTokens(accessToken, refreshToken)
	if err != nil {
		g.logger.WithError(err).Debug("Stored access token rejected")
		return nil, false, ErrNoSession
	}
	if !session.Expired(g.now()) {
		return session, false, nil
	}

	logCtx := g.logger.WithField("user_id", session.User.ID)
	if refreshToken == "" {
		logCtx.Debug("Session expired and no refresh token stored")
		return nil, false, ErrNoSession
	}
	session, err = g.provider.Refresh(ctx, refreshToken)
	if err != nil {
		logCtx.WithError(err).Warn("Session refresh failed")
		return nil, false, ErrNoSession
	}

	logCtx.Debug("Session refreshed")
	return session, true, nil
}
