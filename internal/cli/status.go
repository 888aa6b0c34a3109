package cli

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/shipyard/internal/config"
	"github.com/mrz1836/shipyard/internal/errors"
	"github.com/mrz1836/shipyard/internal/status"
	"github.com/mrz1836/shipyard/internal/tui"
)

// StatusFlags holds flags for the status command.
type StatusFlags struct {
	File    string
	WorkDir string
	Output  string
}

// AddStatusCommand adds the status command to the root command.
func AddStatusCommand(root *cobra.Command, global *GlobalFlags) {
	flags := &StatusFlags{}
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the persisted run status",
		Long: `Read the status file and show the run fields and each target's
stage outcomes.

The file defaults to status_file from the configuration.

Examples:
  shipyard status
  shipyard status --file build/status.txt -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(commandContext(cmd), cmd.OutOrStdout(), global, flags)
		},
	}

	cmd.Flags().StringVar(&flags.File, "file", "", "status file to read")
	cmd.Flags().StringVar(&flags.WorkDir, "work-dir", "", "checkout root used to locate the configured status file")
	cmd.Flags().StringVarP(&flags.Output, "output", "o", OutputText, "output format (text|json|yaml)")
	root.AddCommand(cmd)
}

func runStatus(ctx context.Context, w io.Writer, global *GlobalFlags, flags *StatusFlags) error {
	if !slices.Contains([]string{OutputText, OutputJSON, OutputYAML}, flags.Output) {
		return errors.NewExitCode2Error(fmt.Errorf("%w: %q must be one of text, json, yaml", errors.ErrInvalidOutputFormat, flags.Output))
	}

	path := flags.File
	if path == "" {
		cfg, err := config.LoadWithOverrides(ctx, global.ConfigFile, config.Overrides{WorkDir: flags.WorkDir})
		if err != nil {
			return err
		}
		path = cfg.StatusFile
	}

	entries, err := status.ReadFile(path)
	if err != nil {
		return err
	}
	view := tui.NewStatusView(entries)

	switch flags.Output {
	case OutputJSON:
		return tui.NewJSONOutput(w).JSON(view)
	case OutputYAML:
		return writeYAML(w, view)
	default:
		tui.RenderStatus(w, view, nil)
		return nil
	}
}

func writeYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}
