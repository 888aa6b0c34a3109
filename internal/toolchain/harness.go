package toolchain

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/shipyard/internal/config"
	"github.com/mrz1836/shipyard/internal/errors"
)

// HarnessRun is the captured result of one test harness invocation.
type HarnessRun struct {
	// Output is the combined stdout and stderr of the harness.
	Output []byte
	// ExitCode is the harness exit status.
	ExitCode int
	Duration time.Duration
}

// TestHarness runs a target's integration tests against its bundle.
type TestHarness struct {
	exec      *Executor
	cfg       config.TestConfig
	outputDir string
}

// NewTestHarness creates a harness whose temporary logs live in outputDir.
func NewTestHarness(exec *Executor, cfg config.TestConfig, outputDir string) *TestHarness {
	return &TestHarness{exec: exec, cfg: cfg, outputDir: outputDir}
}

// Run invokes the harness in the configured test directory. The output is
// spooled to a temporary file in the output directory, read back, and the
// file removed on every path.
//
// Errors:
//   - ErrTestHarnessUnavailable: the harness could not be started; no output.
//   - ErrTestsFailed: the harness ran but exited non-zero or timed out; the
//     returned HarnessRun still carries its output.
func (h *TestHarness) Run(ctx context.Context, target config.TargetConfig, suffix, bundlePath string) (*HarnessRun, error) {
	log := zerolog.Ctx(ctx)

	if err := os.MkdirAll(h.outputDir, 0o750); err != nil {
		return nil, errors.Wrapf(errors.ErrTestHarnessUnavailable, "create output dir: %v", err)
	}
	spool, err := os.CreateTemp(h.outputDir, "."+target.Code+"-harness-*.log")
	if err != nil {
		return nil, errors.Wrapf(errors.ErrTestHarnessUnavailable, "create harness log: %v", err)
	}
	spoolPath := spool.Name()
	defer func() {
		if rmErr := os.Remove(spoolPath); rmErr != nil && !os.IsNotExist(rmErr) {
			log.Warn().Err(rmErr).Str("path", spoolPath).Msg("failed to remove harness log")
		}
	}()

	env := targetEnv(target, suffix)
	env[EnvBundlePath] = bundlePath
	env[EnvPathToScripts] = bundlePath
	env[EnvFeatureFilter] = target.FeatureFilter
	env[EnvDataPath] = h.cfg.DataPath

	outcome, execErr := h.exec.Exec(ctx, Step{
		Name:    "tests",
		Dir:     h.cfg.Dir,
		Command: h.cfg.Command,
		Env:     env,
		Timeout: h.cfg.Timeout,
		Output:  spool,
	})
	if closeErr := spool.Close(); closeErr != nil && execErr == nil {
		execErr = closeErr
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if !outcome.Started {
		return nil, fmt.Errorf("%w: %s: %w", errors.ErrTestHarnessUnavailable, target.Code, execErr)
	}

	output, readErr := os.ReadFile(spoolPath) //#nosec G304 -- path created above
	if readErr != nil {
		return nil, errors.Wrapf(errors.ErrTestHarnessUnavailable, "read harness log: %v", readErr)
	}

	run := &HarnessRun{Output: output, ExitCode: outcome.ExitCode, Duration: outcome.Duration}
	if execErr != nil {
		if stderrors.Is(execErr, errors.ErrCommandTimeout) {
			run.ExitCode = -1
		}
		return run, fmt.Errorf("%w: %s: %w", errors.ErrTestsFailed, target.Code, execErr)
	}
	return run, nil
}
