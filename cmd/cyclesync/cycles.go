package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"cyclesync/internal/app"
	"cyclesync/internal/domain/auth"
	"cyclesync/internal/domain/cycle"
	"cyclesync/internal/domain/notify"
	"cyclesync/internal/infra/logger"

	"github.com/spf13/cobra"
)

var (
	flagEmail    string
	flagPassword string
	flagDate     string
)

// cyclesCmd groups the terminal cycle commands
var cyclesCmd = &cobra.Command{
	Use:   "cycles",
	Short: "List or start cycles from the terminal",
	Long: `Sign in with email and password, then work with your cycles.

Credentials default to CYCLESYNC_EMAIL and CYCLESYNC_PASSWORD.`,
}

// cyclesListCmd prints the cycle history
var cyclesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show your cycle history, newest first",
	RunE:  runCyclesList,
}

// cyclesStartCmd records a new cycle
var cyclesStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new cycle (defaults to today)",
	RunE:  runCyclesStart,
}

func init() {
	cyclesCmd.PersistentFlags().StringVar(&flagEmail, "email", os.Getenv("CYCLESYNC_EMAIL"), "account email")
	cyclesCmd.PersistentFlags().StringVar(&flagPassword, "password", os.Getenv("CYCLESYNC_PASSWORD"), "account password")
	cyclesStartCmd.Flags().StringVar(&flagDate, "date", "", "start date (yyyy-MM-dd)")
	cyclesCmd.AddCommand(cyclesListCmd, cyclesStartCmd)
}

// errNotified is returned once an error notification has been printed, so
// the process exits non-zero without repeating the message.
var errNotified = errors.New("cycles: request failed")

func runCyclesList(cmd *cobra.Command, args []string) error {
	dash, ctx, tn, cleanup, err := openDashboard(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	return listCycles(ctx, dash, tn, cmd.OutOrStdout())
}

func runCyclesStart(cmd *cobra.Command, args []string) error {
	var date cycle.Date
	if flagDate != "" {
		var err error
		if date, err = cycle.ParseDate(flagDate); err != nil {
			return err
		}
	}

	dash, ctx, tn, cleanup, err := openDashboard(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	dash.Select(date)
	return startCycle(ctx, dash, tn, cmd.OutOrStdout())
}

func listCycles(ctx context.Context, dash *app.Dashboard, tn *terminalNotifier, w io.Writer) error {
	dash.Load(ctx)
	printHistory(w, dash)
	return tn.err()
}

// startCycle loads the history first so that a failed insert still shows it.
func startCycle(ctx context.Context, dash *app.Dashboard, tn *terminalNotifier, w io.Writer) error {
	dash.Load(ctx)
	dash.StartNewCycle(ctx)
	printHistory(w, dash)
	return tn.err()
}

// openDashboard signs in and returns a dashboard bound to that session.
func openDashboard(cmd *cobra.Command) (*app.Dashboard, context.Context, *terminalNotifier, func(), error) {
	if flagEmail == "" || flagPassword == "" {
		return nil, nil, nil, nil, fmt.Errorf("--email and --password are required")
	}
	rt := bootstrap()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	session, err := rt.authProvider.SignInWithPassword(ctx, flagEmail, flagPassword)
	if err != nil {
		rt.Close()
		return nil, nil, nil, nil, fmt.Errorf("sign in failed: %s", app.MessageOf(err))
	}
	ctx = auth.WithSession(ctx, session)

	tn := &terminalNotifier{w: cmd.ErrOrStderr()}
	dash := app.NewDashboard(rt.cycleService, tn, cycle.Today(rt.cfg.Location), logger.Component("cli"))
	return dash, ctx, tn, rt.Close, nil
}

func printHistory(w io.Writer, dash *app.Dashboard) {
	cycles := dash.Cycles()
	if len(cycles) == 0 {
		fmt.Fprintln(w, app.MsgNoCycles)
		return
	}
	for _, c := range cycles {
		fmt.Fprintf(w, "%s  %s\n", c.StartDate, c.StartDate.Long())
	}
}

// terminalNotifier prints notifications as they arrive and remembers
// whether any of them was an error.
type terminalNotifier struct {
	w      io.Writer
	failed bool
}

func (t *terminalNotifier) Notify(_ context.Context, n notify.Notification) {
	prefix := ""
	if n.Severity == notify.SeverityDestructive {
		prefix = "! "
		t.failed = true
	}
	fmt.Fprintf(t.w, "%s%s: %s\n", prefix, n.Title, n.Description)
}

func (t *terminalNotifier) err() error {
	if t.failed {
		return errNotified
	}
	return nil
}
