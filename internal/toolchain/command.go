// Package toolchain drives the external collaborators of a release run:
// environment provisioning, bundle building, the integration test harness and
// the documentation builder. Each collaborator is a configured shell command.
//
// SECURITY NOTE: commands come from project configuration (.shipyard/config.yaml)
// or the user's global config (~/.shipyard/config.yaml). They are trusted input
// in the same way Makefiles and CI definitions are. The sh -c invocation is
// intentional so commands may use pipes, redirects and variable expansion.
package toolchain

import (
	"context"
	"io"
	"os"
	"os/exec"
	"sort"
	"time"
)

// Exit statuses sh uses when a command cannot be executed at all.
const (
	exitNotExecutable = 126
	exitNotFound      = 127
	// exitSignaled reports a process killed by a signal the way shells do (128+SIGKILL).
	exitSignaled = 137
)

// waitDelay bounds how long Run waits for output pipes after the process
// exits or is killed, in case a grandchild keeps them open.
const waitDelay = 5 * time.Second

// Env is the explicit environment passed to a collaborator on top of the
// inherited process environment.
type Env map[string]string

// List returns the environment as sorted KEY=VALUE pairs.
func (e Env) List() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+e[k])
	}
	return out
}

// CommandRunner defines the interface for executing shell commands.
// This allows for testing by injecting mock implementations.
type CommandRunner interface {
	// Run executes command in workDir with env appended to the process
	// environment. Combined stdout and stderr are written to out.
	// exitCode is -1 when the process could not be started.
	Run(ctx context.Context, workDir, command string, env Env, out io.Writer) (exitCode int, err error)
}

// ShellRunner implements CommandRunner using sh -c.
type ShellRunner struct{}

// Run executes a shell command using sh -c.
func (r *ShellRunner) Run(ctx context.Context, workDir, command string, env Env, out io.Writer) (int, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = workDir
	cmd.WaitDelay = waitDelay
	cmd.Env = append(os.Environ(), env.List()...)
	if out == nil {
		out = io.Discard
	}
	// One writer for both streams keeps the harness log interleaved as produced.
	cmd.Stdout = out
	cmd.Stderr = out

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	// ProcessState is only set once the process actually ran.
	if cmd.ProcessState != nil {
		if code := cmd.ProcessState.ExitCode(); code >= 0 {
			return code, err
		}
		return exitSignaled, err
	}
	return -1, err
}

// Ensure ShellRunner implements CommandRunner.
var _ CommandRunner = (*ShellRunner)(nil)
