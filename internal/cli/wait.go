package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/flicker/internal/statesync"
	"github.com/roach88/flicker/internal/trace"
)

// WaitOptions holds flags for the wait command.
type WaitOptions struct {
	*RootOptions
	Retries  int
	Interval time.Duration

	WindowAppeared    []string
	WindowDisappeared []string
	ActivityRemoved   []string
	LayerVisible      []string
	Rotation          int
	TransitionIdle    bool
	ImeShown          bool
	ImeGone           bool
	HomeVisible       bool
	RecentsVisible    bool
}

// WaitResult is the output of the wait command.
type WaitResult struct {
	State    string   `json:"state"`
	Attempts int      `json:"attempts"`
	Unmet    []string `json:"unmet,omitempty"`
}

// NewWaitCommand creates the wait command.
func NewWaitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WaitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "wait <fixture.yaml>",
		Short: "Replay a trace fixture as a live device and wait for conditions",
		Long: `Poll the dumps of a trace fixture in order, as if they came from a live
device, until every condition holds on one dump or the retry budget is spent.

Exit codes:
  0 - Conditions met
  1 - Retry budget exhausted
  2 - Command error

Examples:
  flicker wait ./traces/launch.yaml --window-appeared com.example/.MainActivity --transition-idle
  flicker wait ./traces/ime.yaml --ime-shown --retries 10`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWait(cmd.Context(), opts, args[0], cmd)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.Retries, "retries", statesync.DefaultRetries, "maximum number of polls")
	f.DurationVar(&opts.Interval, "interval", 0, "wait between polls")
	f.StringSliceVar(&opts.WindowAppeared, "window-appeared", nil, "component whose window surface must be shown")
	f.StringSliceVar(&opts.WindowDisappeared, "window-disappeared", nil, "component whose window surface must be hidden")
	f.StringSliceVar(&opts.ActivityRemoved, "activity-removed", nil, "component with no remaining window")
	f.StringSliceVar(&opts.LayerVisible, "layer-visible", nil, "component with a visible layer")
	f.IntVar(&opts.Rotation, "rotation", -1, "display rotation to reach (0-3)")
	f.BoolVar(&opts.TransitionIdle, "transition-idle", false, "no app transition running")
	f.BoolVar(&opts.ImeShown, "ime-shown", false, "IME window visible")
	f.BoolVar(&opts.ImeGone, "ime-gone", false, "IME window invisible")
	f.BoolVar(&opts.HomeVisible, "home-visible", false, "home activity visible")
	f.BoolVar(&opts.RecentsVisible, "recents-visible", false, "recents activity visible")

	return cmd
}

func runWait(ctx context.Context, opts *WaitOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out := newFormatter(opts.RootOptions, cmd)

	fx, err := trace.LoadFixture(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load fixture", err)
	}
	supply, err := statesync.ReplaySupplier(fx.Reader)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to replay fixture", err)
	}
	if opts.Rotation > int(trace.Rotation270) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid rotation %d: must be 0-3", opts.Rotation))
	}

	helper := statesync.New(supply,
		statesync.WithRetries(opts.Retries),
		statesync.WithInterval(opts.Interval),
		statesync.WithLogger(newLogger(out.GetErrWriter(), opts.Verbose)),
	)
	b := buildConditions(helper.Sync(), opts)
	if len(b.Conditions()) == 0 {
		return NewExitError(ExitCommandError, "no conditions given")
	}

	res, err := b.WaitFor(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "wait failed", err)
	}

	result := WaitResult{State: res.State.String(), Attempts: res.Attempts, Unmet: res.Unmet}
	if err := out.Report("", result, !res.Satisfied(), func(w io.Writer) { writeWaitText(w, result) }); err != nil {
		return err
	}
	if !res.Satisfied() {
		return WrapExitError(ExitFailure, "conditions not met",
			&statesync.ExhaustedError{Attempts: res.Attempts, Unmet: res.Unmet})
	}
	return nil
}

func buildConditions(b *statesync.Builder, opts *WaitOptions) *statesync.Builder {
	for _, c := range opts.WindowAppeared {
		b.WithWindowSurfaceAppeared(trace.UnflattenComponent(c))
	}
	for _, c := range opts.WindowDisappeared {
		b.WithWindowSurfaceDisappeared(trace.UnflattenComponent(c))
	}
	for _, c := range opts.ActivityRemoved {
		b.WithActivityRemoved(trace.UnflattenComponent(c))
	}
	for _, c := range opts.LayerVisible {
		b.WithLayerVisible(trace.UnflattenComponent(c))
	}
	if opts.Rotation >= 0 {
		b.WithRotation(trace.Rotation(opts.Rotation))
	}
	if opts.TransitionIdle {
		b.WithAppTransitionIdle()
	}
	if opts.ImeShown {
		b.WithImeShown()
	}
	if opts.ImeGone {
		b.WithImeGone()
	}
	if opts.HomeVisible {
		b.WithHomeActivityVisible()
	}
	if opts.RecentsVisible {
		b.WithRecentsActivityVisible()
	}
	return b
}

func writeWaitText(w io.Writer, r WaitResult) {
	fmt.Fprintf(w, "%s after %d polls\n", r.State, r.Attempts)
	for _, u := range r.Unmet {
		fmt.Fprintf(w, "  unmet: %s\n", u)
	}
}
