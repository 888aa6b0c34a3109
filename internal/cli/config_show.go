package cli

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/mrz1836/shipyard/internal/config"
	"github.com/mrz1836/shipyard/internal/errors"
	"github.com/mrz1836/shipyard/internal/tui"
)

// ConfigShowFlags holds flags specific to the config show command.
type ConfigShowFlags struct {
	// OutputFormat specifies the output format (yaml or json).
	OutputFormat string
	WorkDir      string
}

// AddConfigCommand adds the config command group to the root command.
func AddConfigCommand(root *cobra.Command, global *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect shipyard configuration",
	}

	flags := &ConfigShowFlags{}
	show := &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display the effective configuration after merging built-in defaults,
~/.shipyard/config.yaml, <work-dir>/.shipyard/config.yaml, --config and
SHIPYARD_* environment variables. Paths are shown resolved against the
work directory. Publish credentials are masked.

Examples:
  shipyard config show
  shipyard config show -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(commandContext(cmd), cmd.OutOrStdout(), global, flags)
		},
	}
	show.Flags().StringVarP(&flags.OutputFormat, "output", "o", OutputYAML, "output format (yaml|json)")
	show.Flags().StringVar(&flags.WorkDir, "work-dir", "", "checkout root (default \".\")")

	paths := &cobra.Command{
		Use:   "path",
		Short: "Print the configuration and log file locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigPath(cmd.OutOrStdout(), flags.WorkDir)
		},
	}
	paths.Flags().StringVar(&flags.WorkDir, "work-dir", ".", "checkout root")

	cmd.AddCommand(show, paths)
	root.AddCommand(cmd)
}

func runConfigShow(ctx context.Context, w io.Writer, global *GlobalFlags, flags *ConfigShowFlags) error {
	if !slices.Contains([]string{OutputYAML, OutputJSON}, flags.OutputFormat) {
		return errors.NewExitCode2Error(fmt.Errorf("%w: %q must be yaml or json", errors.ErrInvalidOutputFormat, flags.OutputFormat))
	}

	cfg, err := config.LoadWithOverrides(ctx, global.ConfigFile, config.Overrides{WorkDir: flags.WorkDir})
	if err != nil {
		return err
	}

	redacted := cfg.Redacted()
	if flags.OutputFormat == OutputJSON {
		return tui.NewJSONOutput(w).JSON(redacted)
	}
	return writeYAML(w, redacted)
}

func runConfigPath(w io.Writer, workDir string) error {
	global, err := config.GlobalConfigPath()
	if err != nil {
		return err
	}
	logPath, err := LogFilePath()
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "%-8s %s\n", "global", global)
	_, _ = fmt.Fprintf(w, "%-8s %s\n", "project", config.ProjectConfigPath(workDir))
	_, _ = fmt.Fprintf(w, "%-8s %s\n", "log", logPath)
	return nil
}
