package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	shipyarderrors "github.com/mrz1836/shipyard/internal/errors"
)

// outputTailLines is how many trailing output lines are attached to a failure log.
const outputTailLines = 20

// outputTailBytes bounds the in-memory copy of a step's output.
const outputTailBytes = 64 << 10

// Step describes one collaborator invocation.
type Step struct {
	// Name identifies the step in logs ("bundle", "docs:html").
	Name string
	// Dir is the working directory; it must exist.
	Dir string
	// Command is the shell command.
	Command string
	// Env is the explicit collaborator environment.
	Env Env
	// Timeout bounds the command; zero means no timeout.
	Timeout time.Duration
	// Output receives combined output in addition to the executor's capture.
	Output io.Writer
}

// Outcome is the result of one step.
type Outcome struct {
	ExitCode int
	Duration time.Duration
	// Started is false when the process could not be launched, or when sh
	// reports the command itself was missing or not executable.
	Started bool
}

// Executor runs collaborator steps with timeout handling and logging.
type Executor struct {
	runner     CommandRunner
	liveOutput io.Writer
}

// NewExecutor creates an executor with the default shell runner.
func NewExecutor() *Executor {
	return &Executor{runner: &ShellRunner{}}
}

// NewExecutorWithRunner creates an executor with custom runner (for testing).
func NewExecutorWithRunner(runner CommandRunner) *Executor {
	return &Executor{runner: runner}
}

// SetLiveOutput configures the executor to stream command output in real-time.
func (e *Executor) SetLiveOutput(w io.Writer) {
	e.liveOutput = w
}

// Exec runs a step. It returns ErrCommandTimeout when the step's timeout
// elapsed, ErrCommandFailed for any non-zero exit, and the context error when
// the parent context was canceled.
func (e *Executor) Exec(ctx context.Context, step Step) (Outcome, error) {
	log := zerolog.Ctx(ctx).With().Str("step", step.Name).Logger()

	if info, err := os.Stat(step.Dir); err != nil || !info.IsDir() {
		log.Error().Str("work_dir", step.Dir).Msg("step working directory missing")
		return Outcome{ExitCode: -1}, shipyarderrors.Wrapf(shipyarderrors.ErrCommandFailed,
			"%s: working directory missing: %s", step.Name, step.Dir)
	}

	runCtx := ctx
	if step.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, step.Timeout)
		defer cancel()
	}

	capture := &tailBuffer{max: outputTailBytes}
	writers := []io.Writer{capture}
	if step.Output != nil {
		writers = append(writers, step.Output)
	}
	if e.liveOutput != nil {
		writers = append(writers, e.liveOutput)
	}

	log.Info().Str("command", step.Command).Str("work_dir", step.Dir).Msg("executing step")

	start := time.Now()
	exitCode, runErr := e.runner.Run(runCtx, step.Dir, step.Command, step.Env, io.MultiWriter(writers...))
	outcome := Outcome{
		ExitCode: exitCode,
		Duration: time.Since(start),
		Started:  exitCode >= 0 && exitCode != exitNotExecutable && exitCode != exitNotFound,
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		log.Error().
			Dur("duration_ms", outcome.Duration).
			Str("output_tail", tail(capture.String(), outputTailLines)).
			Msg("step timed out")
		return outcome, shipyarderrors.Wrapf(shipyarderrors.ErrCommandTimeout, "%s after %s", step.Name, step.Timeout)
	}

	if ctx.Err() != nil {
		log.Warn().Msg("step canceled")
		return outcome, ctx.Err()
	}

	if runErr != nil || exitCode != 0 {
		log.Error().
			Int("exit_code", exitCode).
			Dur("duration_ms", outcome.Duration).
			Str("output_tail", tail(capture.String(), outputTailLines)).
			Msg("step failed")
		return outcome, fmt.Errorf("%s exited with code %d: %w", step.Name, exitCode, shipyarderrors.ErrCommandFailed)
	}

	log.Info().Dur("duration_ms", outcome.Duration).Msg("step completed")
	return outcome, nil
}

// tail returns the last n lines of s.
func tail(s string, n int) string {
	s = strings.TrimRight(s, "\n")
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	max int
	buf []byte
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	if over := len(b.buf) - b.max; over > 0 {
		b.buf = append(b.buf[:0], b.buf[over:]...)
	}
	return len(p), nil
}

func (b *tailBuffer) String() string {
	return string(b.buf)
}
