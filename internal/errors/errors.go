// Package errors provides centralized error handling for shipyard.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrProvisionFailed indicates the environment provisioner exited non-zero.
	// This is fatal to the whole run.
	ErrProvisionFailed = errors.New("environment provisioning failed")

	// ErrBundleBuildFailed indicates the bundle builder failed or did not
	// produce the expected artifact tree and tarball.
	ErrBundleBuildFailed = errors.New("bundle build failed")

	// ErrTestsFailed indicates the test harness exited with a non-zero status.
	ErrTestsFailed = errors.New("integration tests failed")

	// ErrTestHarnessUnavailable indicates the test harness could not be started at all.
	ErrTestHarnessUnavailable = errors.New("test harness could not be started")

	// ErrReportBlockMissing indicates the harness output did not contain a
	// structured data block delimited by lone braces.
	ErrReportBlockMissing = errors.New("structured test report block not found")

	// ErrReportParse indicates the structured data block could not be decoded.
	ErrReportParse = errors.New("structured test report could not be parsed")

	// ErrDocsBuildFailed indicates a documentation format failed to build.
	ErrDocsBuildFailed = errors.New("documentation build failed")

	// ErrPublishFailed indicates the package directory could not be published.
	ErrPublishFailed = errors.New("publish failed")

	// ErrRunFailed indicates at least one target pipeline was unsuccessful.
	ErrRunFailed = errors.New("release run failed")

	// ErrInterrupted indicates the run was stopped by SIGINT or SIGTERM.
	ErrInterrupted = errors.New("release run interrupted")

	// ErrTargetPanicked indicates a target scope terminated abruptly and was recovered.
	ErrTargetPanicked = errors.New("target pipeline terminated abruptly")

	// ErrUnknownTarget indicates a target code that is not configured.
	ErrUnknownTarget = errors.New("unknown target")

	// ErrInvalidStatusKey indicates a status key that cannot be represented
	// as a single key=value line.
	ErrInvalidStatusKey = errors.New("invalid status key")

	// ErrStatusFileCorrupted indicates a status file line without a key=value assignment.
	ErrStatusFileCorrupted = errors.New("status file corrupted")

	// ErrLockTimeout indicates a file lock could not be acquired within the timeout period.
	ErrLockTimeout = errors.New("lock acquisition timeout")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidTargets indicates an invalid target list in configuration.
	ErrConfigInvalidTargets = errors.New("invalid targets configuration")

	// ErrConfigInvalidDocs indicates an invalid documentation configuration value.
	ErrConfigInvalidDocs = errors.New("invalid docs configuration")

	// ErrConfigInvalidCommand indicates a missing collaborator command or a non-positive timeout.
	ErrConfigInvalidCommand = errors.New("invalid command configuration")

	// ErrInvalidPublishBackend indicates an unsupported or incomplete publish backend.
	ErrInvalidPublishBackend = errors.New("invalid publish backend")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrCommandNotConfigured indicates that a mock command was not configured in tests.
	ErrCommandNotConfigured = errors.New("command not configured")

	// ErrCommandFailed indicates that a command execution failed.
	ErrCommandFailed = errors.New("command failed")

	// ErrCommandTimeout indicates a command exceeded its timeout duration.
	ErrCommandTimeout = errors.New("command timeout exceeded")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrNotDirectory indicates a path expected to be a directory is not one.
	ErrNotDirectory = errors.New("not a directory")

	// ErrNotGitRepo indicates the path is not a git repository.
	ErrNotGitRepo = errors.New("not a git repository")

	// ErrStatusFileNotFound indicates the status file does not exist yet.
	ErrStatusFileNotFound = errors.New("status file not found")
)

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}
