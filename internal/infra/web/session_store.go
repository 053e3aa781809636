// internal/infra/web/session_store.go
package web

import (
	"context"
	"crypto/sha256"
	"encoding/gob"
	"fmt"
	"io"
	"net/http"

	"cyclesync/internal/domain/auth"
	"cyclesync/internal/domain/notify"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"golang.org/x/crypto/hkdf"
)

const (
	cookieName      = "cyclesync-session"
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	cookieMaxAge    = 7 * 24 * 60 * 60
)

func init() {
	gob.Register(notify.Notification{})
}

// SessionStore keeps auth tokens and pending notifications in a signed,
// encrypted cookie.
type SessionStore struct {
	store *sessions.CookieStore
}

// NewSessionStore builds the cookie store. An empty secret yields random keys,
// so sessions do not survive a restart.
func NewSessionStore(secret string, secure bool) *SessionStore {
	var hashKey, blockKey []byte
	if secret == "" {
		hashKey = securecookie.GenerateRandomKey(64)
		blockKey = securecookie.GenerateRandomKey(32)
	} else {
		hashKey = deriveKey(secret, "cookie-hash", 64)
		blockKey = deriveKey(secret, "cookie-block", 32)
	}
	cs := sessions.NewCookieStore(hashKey, blockKey)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionStore{store: cs}
}

// deriveKey expands the configured secret into an independent key per purpose.
func deriveKey(secret, purpose string, size int) []byte {
	key := make([]byte, size)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(purpose))
	if _, err := io.ReadFull(r, key); err != nil {
		panic(fmt.Sprintf("hkdf: %v", err)) // only fails past 255 hash blocks
	}
	return key
}

// get never fails: an undecodable cookie yields a fresh, empty session.
// The store caches the session per request, so repeated calls share it.
func (s *SessionStore) get(r *http.Request) *sessions.Session {
	sess, _ := s.store.Get(r, cookieName)
	if sess == nil {
		sess = sessions.NewSession(s.store, cookieName)
		sess.Options = s.store.Options
	}
	return sess
}

// Tokens returns the stored access and refresh tokens.
func (s *SessionStore) Tokens(r *http.Request) (accessToken, refreshToken string) {
	sess := s.get(r)
	accessToken, _ = sess.Values[keyAccessToken].(string)
	refreshToken, _ = sess.Values[keyRefreshToken].(string)
	return accessToken, refreshToken
}

// SetSession stores the session's tokens in the cookie.
func (s *SessionStore) SetSession(w http.ResponseWriter, r *http.Request, as *auth.Session) error {
	sess := s.get(r)
	sess.Values[keyAccessToken] = as.AccessToken
	sess.Values[keyRefreshToken] = as.RefreshToken
	return sess.Save(r, w)
}

// ClearSession drops the stored tokens and keeps pending notifications.
func (s *SessionStore) ClearSession(w http.ResponseWriter, r *http.Request) error {
	sess := s.get(r)
	delete(sess.Values, keyAccessToken)
	delete(sess.Values, keyRefreshToken)
	return sess.Save(r, w)
}

// Flashes pops pending notifications. The caller must call Save before writing the body.
func (s *SessionStore) Flashes(r *http.Request) []notify.Notification {
	out := make([]notify.Notification, 0)
	for _, f := range s.get(r).Flashes() {
		if n, ok := f.(notify.Notification); ok {
			out = append(out, n)
		}
	}
	return out
}

// Save writes the cookie with any changes made during this request.
func (s *SessionStore) Save(w http.ResponseWriter, r *http.Request) error {
	return s.get(r).Save(r, w)
}

// Notifier returns a sink that queues notifications for the next page render.
func (s *SessionStore) Notifier(r *http.Request) notify.Notifier {
	return &FlashNotifier{sess: s.get(r)}
}

// FlashNotifier queues notifications as session flashes.
type FlashNotifier struct {
	sess *sessions.Session
}

func (f *FlashNotifier) Notify(_ context.Context, n notify.Notification) {
	f.sess.AddFlash(n)
}
