// internal/app/dashboard.go
package app

import (
	"context"

	"cyclesync/internal/domain/cycle"
	"cyclesync/internal/domain/notify"

	"github.com/sirupsen/logrus"
)

// User-facing texts of the dashboard.
const (
	TitleError        = "Error"
	TitleSuccess      = "Success"
	MsgCycleStarted   = "New cycle started!"
	MsgNoCycles       = "No cycles recorded yet."
	MsgLoadingHistory = "Loading..."
)

// ViewState is the position of the dashboard in its lifecycle.
type ViewState string

const (
	StateInitializing ViewState = "initializing"
	StateLoading      ViewState = "loading"
	StateIdleWithData ViewState = "idle-with-data"
	StateIdleEmpty    ViewState = "idle-empty"
)

// CycleAdapter is the data access the dashboard needs. *CycleService implements it.
type CycleAdapter interface {
	FetchCycles(ctx context.Context) ([]*cycle.Cycle, error)
	StartNewCycle(ctx context.Context, date cycle.Date) (*cycle.Cycle, error)
}

// Dashboard holds the state of one dashboard view: the display set, the
// loading flag and the selected date. Adapter failures are turned into
// notifications here and never escape to the caller.
//
// A Dashboard is owned by a single view and is not safe for concurrent use.
type Dashboard struct {
	cycles   CycleAdapter
	notifier notify.Notifier
	logger   *logrus.Entry

	state    ViewState
	loading  bool
	display  []*cycle.Cycle
	selected cycle.Date
}

// NewDashboard creates a view in the initializing state with today selected.
func NewDashboard(ca CycleAdapter, n notify.Notifier, today cycle.Date, logger *logrus.Entry) *Dashboard {
	return &Dashboard{
		cycles:   ca,
		notifier: n,
		logger:   logger,
		state:    StateInitializing,
		loading:  true,
		display:  make([]*cycle.Cycle, 0),
		selected: today,
	}
}

func (d *Dashboard) State() ViewState { return d.state }
func (d *Dashboard) Loading() bool    { return d.loading }
func (d *Dashboard) Selected() cycle.Date {
	return d.selected
}

// Cycles returns the display set.
func (d *Dashboard) Cycles() []*cycle.Cycle {
	out := make([]*cycle.Cycle, len(d.display))
	copy(out, d.display)
	return out
}

// Select changes the date used by StartNewCycle. A zero date is ignored.
func (d *Dashboard) Select(date cycle.Date) {
	if date.IsZero() {
		return
	}
	d.selected = date
}

// Load refreshes the display set. On failure the previous display set is kept
// and an error notification is emitted; loading is cleared either way.
func (d *Dashboard) Load(ctx context.Context) {
	d.state = StateLoading
	d.loading = true
	defer d.settle()

	cycles, err := d.cycles.FetchCycles(ctx)
	if err != nil {
		d.fail(ctx, err)
		return
	}
	d.display = cycles
}

// StartNewCycle records a cycle starting on the selected date and refreshes
// the display set on success.
func (d *Dashboard) StartNewCycle(ctx context.Context) {
	if d.RecordNewCycle(ctx) {
		d.Load(ctx)
	}
}

// RecordNewCycle inserts a cycle on the selected date and notifies, without
// touching the display set. Views that re-render through a redirect use it
// to avoid a second fetch.
func (d *Dashboard) RecordNewCycle(ctx context.Context) bool {
	if _, err := d.cycles.StartNewCycle(ctx, d.selected); err != nil {
		d.fail(ctx, err)
		return false
	}

	d.notifier.Notify(ctx, notify.Notification{
		Title:       TitleSuccess,
		Description: MsgCycleStarted,
		Severity:    notify.SeverityDefault,
	})
	return true
}

func (d *Dashboard) settle() {
	d.loading = false
	if len(d.display) > 0 {
		d.state = StateIdleWithData
	} else {
		d.state = StateIdleEmpty
	}
}

func (d *Dashboard) fail(ctx context.Context, err error) {
	if KindOf(err) == KindMissingUser {
		d.logger.Debug("No authenticated user, skipping")
		return
	}
	d.notifier.Notify(ctx, notify.Notification{
		Title:       TitleError,
		Description: MessageOf(err),
		Severity:    notify.SeverityDestructive,
	})
}
