package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionExpired(t *testing.T) {
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

	assert.False(t, (&Session{}).Expired(now), "no expiry means no local check")
	assert.False(t, (&Session{ExpiresAt: now.Add(time.Hour)}).Expired(now))
	assert.True(t, (&Session{ExpiresAt: now.Add(-time.Second)}).Expired(now))
	assert.True(t, (&Session{ExpiresAt: now.Add(5 * time.Second)}).Expired(now), "inside the margin")
}

func TestSessionContext(t *testing.T) {
	ctx := context.Background()

	_, ok := UserFromContext(ctx)
	assert.False(t, ok)

	ctx = WithSession(ctx, &Session{AccessToken: "tok", User: User{ID: "u1", Email: "u1@example.com"}})
	u, ok := UserFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "u1", u.ID)

	s, ok := SessionFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "tok", s.AccessToken)

	_, ok = UserFromContext(WithSession(context.Background(), &Session{AccessToken: "tok"}))
	assert.False(t, ok, "a session without a user id is not an identity")

	_, ok = SessionFromContext(WithSession(context.Background(), nil))
	assert.False(t, ok)
}
