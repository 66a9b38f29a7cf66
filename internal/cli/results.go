package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/flicker/internal/assertion"
	"github.com/roach88/flicker/internal/collector"
	"github.com/roach88/flicker/internal/store"
	"github.com/roach88/flicker/internal/trace"
)

// RunResults is the output of the results command for a single run.
type RunResults struct {
	Run     store.RunRecord    `json:"run"`
	Results []assertion.Result `json:"results"`
	Metrics map[string]string  `json:"metrics,omitempty"`
}

// NewResultsCommand creates the results command.
func NewResultsCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "results [run-id]",
		Short: "Show recorded runs",
		Long: `List the runs recorded by "flicker check --db", or show the results and
metrics of one run.

Examples:
  flicker results --db ./flicker.db
  flicker results --db ./flicker.db 01926f4e-5d2a-7c3b-9e1f-2a3b4c5d6e7f`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				return NewExitError(ExitCommandError, "--db is required (or set "+EnvDB+")")
			}
			st, err := store.Open(dbPath)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to open database", err)
			}
			defer st.Close()

			ctx := cmd.Context()
			out := newFormatter(rootOpts, cmd)

			if len(args) == 0 {
				runs, err := st.Runs(ctx)
				if err != nil {
					return WrapExitError(ExitCommandError, "failed to read runs", err)
				}
				return out.Report("", runs, false, func(w io.Writer) { writeRunsText(w, runs) })
			}

			run, err := st.Run(ctx, args[0])
			if errors.Is(err, trace.ErrNotFound) {
				return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", args[0]))
			}
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read run", err)
			}
			results, err := st.Results(ctx, run.ID)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read results", err)
			}
			metrics, err := st.Metrics(ctx, run.ID)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read metrics", err)
			}

			rr := RunResults{Run: run, Results: results, Metrics: metrics}
			return out.Report(run.ID, rr, run.Failed, func(w io.Writer) { writeRunText(w, rr) })
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", envDefault(EnvDB), "SQLite database (env "+EnvDB+")")
	return cmd
}

func writeRunsText(w io.Writer, runs []store.RunRecord) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}
	for _, r := range runs {
		status := "PASS"
		if r.Failed {
			status = "FAIL"
		}
		fmt.Fprintf(w, "%s  %s  %s  %s\n", r.ID, status, r.Test, r.ArtifactPath)
	}
}

func writeRunText(w io.Writer, rr RunResults) {
	fmt.Fprintf(w, "Run %s (%s)\n", rr.Run.ID, rr.Run.Test)
	for _, res := range rr.Results {
		mark := "✓"
		if !res.Passed {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s %s [%s]\n", mark, res.Name, res.Stability)
	}
	if status, ok := rr.Metrics[collector.StatusKey]; ok {
		fmt.Fprintf(w, "status: %s\n", status)
	}
}
