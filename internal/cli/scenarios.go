package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// ScenarioListing is one configured scenario type.
type ScenarioListing struct {
	Type       string             `json:"type"`
	Assertions []AssertionListing `json:"assertions"`
}

// AssertionListing is one configured assertion family.
type AssertionListing struct {
	Name      string `json:"name"`
	Stability string `json:"stability"`
}

// NewScenariosCommand creates the scenarios command.
func NewScenariosCommand(rootOpts *RootOptions) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "List configured scenarios and their assertions",
		Long: `List every scenario type of the configuration table with the
assertion families generated for it.

Examples:
  flicker scenarios
  flicker scenarios --config ./scenarios.cue --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadRegistry(configPath)
			if err != nil {
				return err
			}

			var listing []ScenarioListing
			for _, typ := range registry.Types() {
				sl := ScenarioListing{Type: string(typ)}
				for _, e := range registry.Entries(typ) {
					sl.Assertions = append(sl.Assertions, AssertionListing{
						Name:      e.Name(),
						Stability: string(e.Stability),
					})
				}
				listing = append(listing, sl)
			}

			out := newFormatter(rootOpts, cmd)
			return out.Report("", listing, false, func(w io.Writer) { writeScenariosText(w, listing) })
		},
	}

	cmd.Flags().StringVar(&configPath, "config", envDefault(EnvConfig), "CUE scenario configuration (env "+EnvConfig+")")
	return cmd
}

func writeScenariosText(w io.Writer, listing []ScenarioListing) {
	for _, sl := range listing {
		fmt.Fprintln(w, sl.Type)
		for _, a := range sl.Assertions {
			fmt.Fprintf(w, "  %-55s %s\n", a.Name, a.Stability)
		}
	}
}
