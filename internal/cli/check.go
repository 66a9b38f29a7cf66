package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/flicker/internal/assertion"
	"github.com/roach88/flicker/internal/collector"
	"github.com/roach88/flicker/internal/scenario"
	"github.com/roach88/flicker/internal/store"
	"github.com/roach88/flicker/internal/trace"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Config     string // CUE scenario configuration, built-in table when empty
	DB         string // SQLite database recording the run, none when empty
	Test       string // test name, fixture base name when empty
	Workers    int
	TestFailed bool // the instrumented test itself failed
	OnlyPassed bool // skip processing when TestFailed
}

// CheckResult is the output of the check command.
type CheckResult struct {
	RunID           string             `json:"run_id"`
	Test            string             `json:"test"`
	Scenarios       []string           `json:"scenarios"`
	Results         []assertion.Result `json:"results"`
	Passed          int                `json:"passed"`
	Failed          int                `json:"failed"`
	BlockingFailed  int                `json:"blocking_failed"`
	ExecutionErrors []string           `json:"execution_errors,omitempty"`
	Metrics         map[string]string  `json:"metrics,omitempty"`
	Skipped         bool               `json:"skipped,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <fixture.yaml>",
		Short: "Run scenario assertions over a trace fixture",
		Long: `Detect the scenarios declared in a trace fixture, run their assertions
and report per-assertion results and metrics.

Exit codes:
  0 - No blocking assertion failed
  1 - A blocking assertion failed or the pipeline reported execution errors
  2 - Command error (unreadable fixture, invalid config, database errors)

Examples:
  flicker check ./traces/launch.yaml
  flicker check ./traces/launch.yaml --config ./scenarios.cue
  flicker check ./traces/launch.yaml --db ./flicker.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", envDefault(EnvConfig), "CUE scenario configuration (env "+EnvConfig+")")
	cmd.Flags().StringVar(&opts.DB, "db", envDefault(EnvDB), "SQLite database to record the run in (env "+EnvDB+")")
	cmd.Flags().StringVar(&opts.Test, "test", "", "test name (default: fixture file name)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 1, "assertions executed in parallel per scenario")
	cmd.Flags().BoolVar(&opts.TestFailed, "test-failed", false, "the instrumented test failed")
	cmd.Flags().BoolVar(&opts.OnlyPassed, "only-passing", false, "skip runs of failed tests")

	return cmd
}

func runCheck(ctx context.Context, opts *CheckOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(out.GetErrWriter(), opts.Verbose)

	fx, err := trace.LoadFixture(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load fixture", err)
	}
	registry, err := loadRegistry(opts.Config)
	if err != nil {
		return err
	}

	test := opts.Test
	if test == "" {
		test = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	runID := uuid.Must(uuid.NewV7()).String()

	collectorOpts := []collector.Option{
		collector.WithLogger(logger),
		collector.WithIDGenerator(func() string { return runID }),
		collector.WithReportOnlyForPassingTests(opts.OnlyPassed),
		collector.WithExecutor(assertion.NewExecutor(
			assertion.WithWorkers(opts.Workers),
			assertion.WithLogger(logger),
		)),
	}

	var (
		sink    collector.MetricsSink
		mapSink *collector.MapSink
		dbSink  *store.MetricsSink
	)
	if opts.DB != "" {
		st, err := store.Open(opts.DB)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer st.Close()
		collectorOpts = append(collectorOpts, collector.WithRecorder(st))
		dbSink = st.NewMetricsSink(runID)
		sink = dbSink
	} else {
		mapSink = collector.NewMapSink()
		sink = mapSink
	}

	c := collector.New(scenario.NewStaticDetector(fx.Scenarios), registry, collectorOpts...)
	out.VerboseLog("Checking %s (run %s)", path, runID)

	run, err := c.Collect(ctx, test, fx.Reader, sink, opts.TestFailed)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid scenario configuration", err)
	}
	c.ReportStatus(sink)
	if dbSink != nil {
		if err := dbSink.Err(); err != nil {
			return WrapExitError(ExitCommandError, "failed to write metrics", err)
		}
	}

	result := CheckResult{RunID: runID, Test: test, Skipped: run == nil && opts.OnlyPassed && opts.TestFailed}
	for _, e := range c.ExecutionErrors() {
		result.ExecutionErrors = append(result.ExecutionErrors, e.Error())
	}
	if mapSink != nil {
		result.Metrics = mapSink.Metrics()
	}
	if run != nil {
		for _, inst := range run.Scenarios {
			result.Scenarios = append(result.Scenarios, inst.Description())
		}
		result.Results = run.Results
		for _, r := range run.Results {
			switch {
			case r.Passed:
				result.Passed++
			case r.Stability == assertion.Blocking:
				result.Failed++
				result.BlockingFailed++
			default:
				result.Failed++
			}
		}
	}

	failed := result.BlockingFailed > 0 || len(result.ExecutionErrors) > 0
	if err := out.Report(runID, result, failed, func(w io.Writer) { writeCheckText(w, result) }); err != nil {
		return err
	}
	if failed {
		return NewExitError(ExitFailure, fmt.Sprintf("%d blocking assertions failed, %d execution errors",
			result.BlockingFailed, len(result.ExecutionErrors)))
	}
	return nil
}

func writeCheckText(w io.Writer, r CheckResult) {
	if r.Skipped {
		fmt.Fprintf(w, "Skipped %s: test failed\n", r.Test)
		return
	}
	for _, s := range r.Scenarios {
		fmt.Fprintf(w, "Scenario %s\n", s)
	}
	for _, res := range r.Results {
		mark := "✓"
		if !res.Passed {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s %s [%s]\n", mark, res.Name, res.Stability)
		for _, e := range res.Errors {
			fmt.Fprintf(w, "  %s\n", strings.ReplaceAll(e.Message, "\n", "\n  "))
		}
	}
	for _, e := range r.ExecutionErrors {
		fmt.Fprintf(w, "! %s\n", e)
	}
	fmt.Fprintf(w, "\n%d passed, %d failed (%d blocking)\n", r.Passed, r.Failed, r.BlockingFailed)
}
