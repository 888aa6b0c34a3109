package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/shipyard/internal/report"
	"github.com/mrz1836/shipyard/internal/tui"
)

// AddReportCommand adds the report command to the root command.
func AddReportCommand(root *cobra.Command, global *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "report LOGFILE",
		Short: "Summarize a saved test harness log",
		Long: `Extract the structured test results embedded in a harness log and
print one line per scenario: name, status and duration in whole seconds.

Examples:
  shipyard report build/p2g-harness.log
  shipyard report harness.log -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.OutOrStdout(), global, args[0])
		},
	}
	root.AddCommand(cmd)
}

// reportResult is the JSON document printed by report -o json.
type reportResult struct {
	Scenarios []report.Entry `json:"scenarios"`
	AllPassed bool           `json:"all_passed"`
}

func runReport(w io.Writer, global *GlobalFlags, path string) error {
	data, err := os.ReadFile(path) //#nosec G304 -- path is a user-supplied log file
	if err != nil {
		return fmt.Errorf("failed to read log file: %w", err)
	}

	if global.Output == OutputJSON {
		entries, err := report.Extract(string(data))
		if err != nil {
			return err
		}
		return tui.NewJSONOutput(w).JSON(reportResult{Scenarios: entries, AllPassed: report.AllPassed(entries)})
	}

	summary, err := report.Summarize(string(data))
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(w, summary)
	return nil
}
