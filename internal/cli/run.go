package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/shipyard/internal/clock"
	"github.com/mrz1836/shipyard/internal/config"
	"github.com/mrz1836/shipyard/internal/constants"
	"github.com/mrz1836/shipyard/internal/ctxutil"
	"github.com/mrz1836/shipyard/internal/errors"
	"github.com/mrz1836/shipyard/internal/gitmeta"
	"github.com/mrz1836/shipyard/internal/logging"
	"github.com/mrz1836/shipyard/internal/pipeline"
	"github.com/mrz1836/shipyard/internal/publish"
	"github.com/mrz1836/shipyard/internal/release"
	"github.com/mrz1836/shipyard/internal/resolve"
	"github.com/mrz1836/shipyard/internal/signal"
	"github.com/mrz1836/shipyard/internal/status"
	"github.com/mrz1836/shipyard/internal/toolchain"
	"github.com/mrz1836/shipyard/internal/tui"
)

// RunFlags holds flags for the run command.
type RunFlags struct {
	Trigger        TriggerFlags
	WorkDir        string
	OutputDir      string
	StatusFile     string
	PublishBackend string
	PublishRoot    string
}

// runDeps are the seams the run command's tests replace.
type runDeps struct {
	discover discoverFunc
	clock    clock.Clock
	runner   toolchain.CommandRunner
}

func defaultRunDeps() runDeps {
	return runDeps{
		discover: gitmeta.Discover,
		clock:    clock.RealClock{},
		runner:   &toolchain.ShellRunner{},
	}
}

// AddRunCommand adds the run command to the root command.
func AddRunCommand(root *cobra.Command, global *GlobalFlags) {
	root.AddCommand(newRunCmd(global, defaultRunDeps()))
}

func newRunCmd(global *GlobalFlags, deps runDeps) *cobra.Command {
	flags := &RunFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the release pipeline",
		Long: `Run the release pipeline for the selected targets.

Each target goes through bundle, tests, documentation and publish. A failing
target never stops the others. The status file is updated after every stage
and finish_time is written however the run ends.

Without --tag, --commit-message or --author the trigger is read from the
checkout's HEAD commit.

Examples:
  shipyard run --tag p2g-v2.4.0
  shipyard run --commit-message "fix remapping [g2g-skip-tests]"
  shipyard run --only p2g --publish-backend dir --publish-root /srv/releases
  shipyard run --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRelease(commandContext(cmd), cmd, cmd.OutOrStdout(), global, flags, deps)
		},
	}

	addTriggerFlags(cmd, &flags.Trigger)
	addConfigOverrideFlags(cmd, &flags.WorkDir, &flags.OutputDir, &flags.StatusFile)
	cmd.Flags().StringVar(&flags.PublishBackend, "publish-backend", "", "publish backend (dir|s3)")
	cmd.Flags().StringVar(&flags.PublishRoot, "publish-root", "", "directory the dir backend publishes into")

	return cmd
}

// addConfigOverrideFlags registers the path overrides shared by several commands.
func addConfigOverrideFlags(cmd *cobra.Command, workDir, outputDir, statusFile *string) {
	cmd.Flags().StringVar(workDir, "work-dir", "", "checkout root (default \".\")")
	if outputDir != nil {
		cmd.Flags().StringVar(outputDir, "output-dir", "", "directory for bundles, packages and reports")
	}
	if statusFile != nil {
		cmd.Flags().StringVar(statusFile, "status-file", "", "key=value status file read by the notifier")
	}
}

// runResult is the JSON document printed by run -o json.
type runResult struct {
	Summary    *release.Summary `json:"summary"`
	StatusFile string           `json:"status_file"`
	Status     *tui.StatusView  `json:"status"`
	Error      string           `json:"error,omitempty"`
}

func runRelease(ctx context.Context, cmd *cobra.Command, w io.Writer, global *GlobalFlags, flags *RunFlags, deps runDeps) error {
	logger := zerolog.Ctx(ctx)

	cfg, err := config.LoadWithOverrides(ctx, global.ConfigFile, config.Overrides{
		WorkDir:        flags.WorkDir,
		OutputDir:      flags.OutputDir,
		StatusFile:     flags.StatusFile,
		PublishBackend: flags.PublishBackend,
		PublishRoot:    flags.PublishRoot,
	})
	if err != nil {
		return err
	}

	store, err := status.CreateFileStore(ctx, cfg.StatusFile)
	if err != nil {
		return err
	}

	trigger, err := buildTrigger(ctx, cmd, &flags.Trigger, cfg.WorkDir, deps.discover)
	if err != nil {
		return recordSetupAbort(ctx, store, deps.clock, err)
	}

	publisher, err := publish.New(cfg.Publish)
	if err != nil {
		return recordSetupAbort(ctx, store, deps.clock, err)
	}

	handler := signal.NewHandler(ctx)
	defer handler.Stop()
	ctx = handler.Context()

	exec := toolchain.NewExecutorWithRunner(deps.runner)
	if global.Verbose {
		exec.SetLiveOutput(logging.NewFilteringWriter(cmd.ErrOrStderr()))
	}

	runner := pipeline.NewExecutor(
		store,
		cfg.OutputDir,
		toolchain.NewBundleBuilder(exec, cfg.Bundle, cfg.WorkDir),
		toolchain.NewTestHarness(exec, cfg.Test, cfg.OutputDir),
		toolchain.NewDocBuilder(exec, cfg.Docs),
		publisher,
	)
	orchestrator := release.NewOrchestrator(
		store,
		resolve.NewResolver(cfg.Targets, deps.clock),
		toolchain.NewProvisioner(exec, cfg.Provision, cfg.WorkDir),
		runner,
		deps.clock,
	)

	logger.Debug().
		Str("work_dir", cfg.WorkDir).
		Str("status_file", cfg.StatusFile).
		Str("publish_backend", cfg.Publish.Backend).
		Msg("configuration loaded")

	summary, runErr := orchestrator.Run(ctx, trigger, flags.Trigger.Only)

	select {
	case <-handler.Interrupted():
		logger.Warn().Str("signal", handler.Signal().String()).Msg("run interrupted")
		if runErr == nil {
			runErr = errors.ErrInterrupted
		} else {
			runErr = fmt.Errorf("%w: %w", errors.ErrInterrupted, runErr)
		}
	default:
	}

	if outErr := printRunResult(w, global.Output, summary, store, runErr); outErr != nil {
		return outErr
	}
	return runErr
}

// recordSetupAbort marks the run failed and finished when setup stops before
// the orchestrator starts, then returns err.
func recordSetupAbort(ctx context.Context, store status.Store, clk clock.Clock, err error) error {
	cleanupCtx, cancel := ctxutil.ForCleanup(ctx)
	defer cancel()

	zerolog.Ctx(ctx).Error().Err(err).Msg("release setup failed, no target will run")
	if setErr := store.Set(cleanupCtx, constants.KeyRunStatus, constants.StatusFailed.String()); setErr != nil {
		zerolog.Ctx(ctx).Error().Err(setErr).Msg("failed to record run status")
	}
	if setErr := store.Set(cleanupCtx, constants.KeyFinishTime, clk.Now().UTC().Format(time.RFC3339)); setErr != nil {
		zerolog.Ctx(ctx).Error().Err(setErr).Msg("failed to record finish time")
	}
	return err
}

func printRunResult(w io.Writer, format string, summary *release.Summary, store *status.FileStore, runErr error) error {
	view := tui.NewStatusView(store.Entries())

	if format == OutputJSON {
		result := runResult{Summary: summary, StatusFile: store.Path(), Status: view}
		if runErr != nil {
			result.Error = runErr.Error()
		}
		return tui.NewJSONOutput(w).JSON(result)
	}

	out := tui.NewTTYOutput(w)
	if summary.Run != nil {
		out.Info(fmt.Sprintf("run %s  suffix %s  targets %v (%s)",
			summary.Run.RunID, summary.Run.Suffix, summary.Run.TargetCodes(), summary.Run.Selection))
	}
	for _, r := range summary.Results {
		if r.Failed {
			out.Warning(r.Code + " failed")
		} else {
			out.Success(r.Code + " released")
		}
	}
	_, _ = fmt.Fprintln(w)
	tui.RenderStatus(w, view, nil)
	_, _ = fmt.Fprintln(w)

	if runErr != nil {
		// The error itself is printed by cobra; only add the suggested action.
		if _, action := errors.Actionable(runErr); action != "" {
			out.Info(action)
		}
		return nil
	}
	out.Success("all targets released; status written to " + store.Path())
	return nil
}
