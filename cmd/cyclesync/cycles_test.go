package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"cyclesync/internal/app"
	"cyclesync/internal/domain/cycle"
	"cyclesync/internal/domain/notify"
	"cyclesync/internal/infra/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCycles is an app.CycleAdapter with a fixed history.
type stubCycles struct {
	history  []*cycle.Cycle
	startErr error
}

func (s *stubCycles) FetchCycles(context.Context) ([]*cycle.Cycle, error) {
	out := make([]*cycle.Cycle, len(s.history))
	copy(out, s.history)
	return out, nil
}

func (s *stubCycles) StartNewCycle(_ context.Context, date cycle.Date) (*cycle.Cycle, error) {
	if s.startErr != nil {
		return nil, s.startErr
	}
	c := &cycle.Cycle{UserID: "u1", StartDate: date}
	s.history = append([]*cycle.Cycle{c}, s.history...)
	return c, nil
}

func newCLIDashboard(t *testing.T, ca app.CycleAdapter) (*app.Dashboard, *terminalNotifier, *bytes.Buffer) {
	t.Helper()
	var stderr bytes.Buffer
	tn := &terminalNotifier{w: &stderr}
	today, err := cycle.ParseDate("2024-03-15")
	require.NoError(t, err)
	return app.NewDashboard(ca, tn, today, logger.Discard()), tn, &stderr
}

func history(t *testing.T, dates ...string) []*cycle.Cycle {
	t.Helper()
	out := make([]*cycle.Cycle, 0, len(dates))
	for _, d := range dates {
		date, err := cycle.ParseDate(d)
		require.NoError(t, err)
		out = append(out, &cycle.Cycle{UserID: "u1", StartDate: date})
	}
	return out
}

func TestStartCycleFailureShowsHistory(t *testing.T) {
	store := &stubCycles{
		history:  history(t, "2024-01-10"),
		startErr: &app.Error{Kind: app.KindRemote, Message: "network error"},
	}
	dash, tn, stderr := newCLIDashboard(t, store)
	var stdout bytes.Buffer

	err := startCycle(context.Background(), dash, tn, &stdout)

	assert.ErrorIs(t, err, errNotified)
	assert.Equal(t, "2024-01-10  January 10th, 2024\n", stdout.String())
	assert.Equal(t, "! Error: network error\n", stderr.String())
}

func TestStartCycleSuccess(t *testing.T) {
	store := &stubCycles{history: history(t, "2024-01-10")}
	dash, tn, stderr := newCLIDashboard(t, store)
	var stdout bytes.Buffer

	require.NoError(t, startCycle(context.Background(), dash, tn, &stdout))
	assert.Equal(t, "2024-03-15  March 15th, 2024\n2024-01-10  January 10th, 2024\n", stdout.String())
	assert.Equal(t, "Success: New cycle started!\n", stderr.String())
}

func TestListCyclesEmpty(t *testing.T) {
	dash, tn, _ := newCLIDashboard(t, &stubCycles{})
	var stdout bytes.Buffer

	require.NoError(t, listCycles(context.Background(), dash, tn, &stdout))
	assert.Equal(t, app.MsgNoCycles+"\n", stdout.String())
}

func TestTerminalNotifierErr(t *testing.T) {
	tn := &terminalNotifier{w: &bytes.Buffer{}}
	assert.NoError(t, tn.err())

	tn.Notify(context.Background(), notify.Notification{Title: app.TitleError, Description: "boom", Severity: notify.SeverityDestructive})
	assert.True(t, errors.Is(tn.err(), errNotified))
}
