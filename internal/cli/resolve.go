package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/shipyard/internal/config"
	"github.com/mrz1836/shipyard/internal/pipeline"
	"github.com/mrz1836/shipyard/internal/resolve"
	"github.com/mrz1836/shipyard/internal/tui"
)

// ResolveFlags holds flags for the resolve command.
type ResolveFlags struct {
	Trigger TriggerFlags
	WorkDir string
}

// AddResolveCommand adds the resolve command to the root command.
func AddResolveCommand(root *cobra.Command, global *GlobalFlags) {
	root.AddCommand(newResolveCmd(global, defaultRunDeps()))
}

func newResolveCmd(global *GlobalFlags, deps runDeps) *cobra.Command {
	flags := &ResolveFlags{}
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Show which targets a trigger would release",
		Long: `Resolve the trigger into a run context and print it without running
anything or touching the status file.

Examples:
  shipyard resolve --tag g2g-v1.1.0
  shipyard resolve --commit-message "[p2g-skip-tests] bump" -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResolve(commandContext(cmd), cmd, cmd.OutOrStdout(), global, flags, deps)
		},
	}

	addTriggerFlags(cmd, &flags.Trigger)
	addConfigOverrideFlags(cmd, &flags.WorkDir, nil, nil)
	return cmd
}

func runResolve(ctx context.Context, cmd *cobra.Command, w io.Writer, global *GlobalFlags, flags *ResolveFlags, deps runDeps) error {
	cfg, err := config.LoadWithOverrides(ctx, global.ConfigFile, config.Overrides{WorkDir: flags.WorkDir})
	if err != nil {
		return err
	}

	trigger, err := buildTrigger(ctx, cmd, &flags.Trigger, cfg.WorkDir, deps.discover)
	if err != nil {
		return err
	}

	rc, err := resolve.NewResolver(cfg.Targets, deps.clock).Resolve(trigger, flags.Trigger.Only)
	if err != nil {
		return err
	}

	if global.Output == OutputJSON {
		return tui.NewJSONOutput(w).JSON(rc)
	}
	renderRunContext(w, rc, cfg.OutputDir)
	return nil
}

func renderRunContext(w io.Writer, rc *resolve.RunContext, outputDir string) {
	suffixSource := "timestamp"
	if rc.SuffixFromTag {
		suffixSource = "tag"
	}

	_, _ = fmt.Fprintf(w, "%-16s %s\n", "tag", orNone(rc.Trigger.Tag))
	_, _ = fmt.Fprintf(w, "%-16s %s\n", "commit_message", orNone(firstLine(rc.Trigger.CommitMessage)))
	_, _ = fmt.Fprintf(w, "%-16s %s\n", "author", orNone(rc.Trigger.Author))
	_, _ = fmt.Fprintf(w, "%-16s %s (%s)\n", "release_suffix", rc.Suffix, suffixSource)
	_, _ = fmt.Fprintf(w, "%-16s %s\n", "selection", rc.Selection)
	_, _ = fmt.Fprintln(w)

	table := tui.NewTable(w, []tui.TableColumn{
		{Name: "TARGET", Width: 8},
		{Name: "PRODUCT", Width: 12},
		{Name: "TESTS", Width: 8},
		{Name: "PACKAGE"},
	})
	table.WriteHeader()
	for _, t := range rc.Targets {
		tests := "run"
		if t.SkipTests {
			tests = "skip"
		}
		table.WriteRow(t.Code, t.Product, tests, pipeline.PackageDir(outputDir, t.Product, rc.Suffix))
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
