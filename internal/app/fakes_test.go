package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cyclesync/internal/domain/auth"
	"cyclesync/internal/domain/cycle"
	"cyclesync/internal/infra/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// memoryRepo is an in-memory cycle.Repository. It returns rows in insertion
// order so that callers have to sort.
type memoryRepo struct {
	mu        sync.Mutex
	rows      []*cycle.Cycle
	clock     time.Time
	listErr   error
	createErr error
	listCalls int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{clock: time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC)}
}

func (m *memoryRepo) ListByUser(_ context.Context, userID string) ([]*cycle.Cycle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*cycle.Cycle, 0)
	for _, c := range m.rows {
		if c.UserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memoryRepo) Create(_ context.Context, c *cycle.Cycle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.clock = m.clock.Add(time.Second)
	c.ID = uuid.New()
	c.CreatedAt = m.clock
	cp := *c
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *memoryRepo) Ping(context.Context) error { return nil }

func (m *memoryRepo) seed(t *testing.T, userID string, dates ...string) {
	t.Helper()
	for _, d := range dates {
		date, err := cycle.ParseDate(d)
		require.NoError(t, err)
		require.NoError(t, m.Create(context.Background(), &cycle.Cycle{UserID: userID, StartDate: date}))
	}
}

// messageErr mimics a collaborator error that carries a display message.
type messageErr struct{ msg string }

func (e *messageErr) Error() string       { return "remote: " + e.msg }
func (e *messageErr) UserMessage() string { return e.msg }

var errNetwork = errors.New("network error")

func userCtx(userID string) context.Context {
	return auth.WithSession(context.Background(), &auth.Session{
		AccessToken: "token-" + userID,
		User:        auth.User{ID: userID, Email: userID + "@example.com"},
	})
}

func mustDate(t *testing.T, s string) cycle.Date {
	t.Helper()
	d, err := cycle.ParseDate(s)
	require.NoError(t, err)
	return d
}

func startDates(cycles []*cycle.Cycle) []string {
	out := make([]string, 0, len(cycles))
	for _, c := range cycles {
		out = append(out, c.StartDate.String())
	}
	return out
}

var testLogger = logger.Discard()
