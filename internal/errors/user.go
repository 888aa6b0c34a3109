package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinel errors to their user-facing messages.
// Using a slice (not a map) because errors.Is() requires proper error chain traversal.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	// ===================
	// Run level
	// ===================
	{
		err: ErrRunFailed,
		info: ErrorInfo{
			Message: "One or more targets did not complete successfully.",
			Action:  "Run 'shipyard status' to see which stage failed for each target.",
		},
	},
	{
		err: ErrInterrupted,
		info: ErrorInfo{
			Message: "The run was interrupted. Targets that had not started are recorded as FAILED.",
			Action:  "Re-run the release once the interruption cause is resolved.",
		},
	},
	{
		err: ErrProvisionFailed,
		info: ErrorInfo{
			Message: "The build environment could not be provisioned. No target was attempted.",
			Action:  "Check provision.command and provision.spec in your configuration.",
		},
	},

	// ===================
	// Target stages
	// ===================
	{
		err: ErrBundleBuildFailed,
		info: ErrorInfo{
			Message: "The software bundle could not be built.",
			Action:  "Re-run with --verbose to see the bundle builder output.",
		},
	},
	{
		err: ErrTestHarnessUnavailable,
		info: ErrorInfo{
			Message: "The integration test harness could not be started.",
			Action:  "Verify test.command and that the harness is installed in the build environment.",
		},
	},
	{
		err: ErrTestsFailed,
		info: ErrorInfo{
			Message: "Integration tests reported failures.",
			Action:  "Inspect the <target>_test_report.txt summary in the output directory.",
		},
	},
	{
		err: ErrReportBlockMissing,
		info: ErrorInfo{
			Message: "The test harness output did not contain a structured result block.",
			Action:  "Make sure the harness is invoked with a pretty JSON formatter.",
		},
	},
	{
		err: ErrReportParse,
		info: ErrorInfo{
			Message: "The structured test result block is not valid JSON.",
			Action:  "Check for free-form log lines interleaved with the JSON block.",
		},
	},
	{
		err: ErrDocsBuildFailed,
		info: ErrorInfo{
			Message: "Documentation failed to build; the package was not published.",
			Action:  "Re-run with --verbose to see the documentation builder output.",
		},
	},
	{
		err: ErrPublishFailed,
		info: ErrorInfo{
			Message: "The package could not be published.",
			Action:  "Check publish.root permissions or object storage credentials.",
		},
	},

	// ===================
	// Status store
	// ===================
	{
		err: ErrLockTimeout,
		info: ErrorInfo{
			Message: "The status file is locked by another process.",
			Action:  "Wait for the other shipyard process to finish, then retry.",
		},
	},
	{
		err: ErrStatusFileNotFound,
		info: ErrorInfo{
			Message: "No status file exists yet.",
			Action:  "Run 'shipyard run' first or pass --file.",
		},
	},
	{
		err: ErrStatusFileCorrupted,
		info: ErrorInfo{
			Message: "The status file contains a line that is not a key=value assignment.",
			Action:  "Remove or fix the offending line.",
		},
	},

	// ===================
	// Configuration
	// ===================
	{
		err: ErrConfigInvalidTargets,
		info: ErrorInfo{
			Message: "The targets configuration is invalid.",
			Action:  "Each target needs a unique code and a product name.",
		},
	},
	{
		err: ErrConfigInvalidCommand,
		info: ErrorInfo{
			Message: "A collaborator command or timeout is misconfigured.",
			Action:  "Check the command and timeout keys with 'shipyard config show'.",
		},
	},
	{
		err: ErrInvalidPublishBackend,
		info: ErrorInfo{
			Message: "The publish configuration is invalid.",
			Action:  "Use publish.backend 'dir' with publish.root, or 's3' with endpoint and bucket.",
		},
	},
	{
		err: ErrUnknownTarget,
		info: ErrorInfo{
			Message: "The requested target is not configured.",
			Action:  "Run 'shipyard config show' to list configured targets.",
		},
	},
	{
		err: ErrNotGitRepo,
		info: ErrorInfo{
			Message: "The work directory is not a git checkout.",
			Action:  "Pass --tag, --commit-message and --author explicitly.",
		},
	},
}

// errorInfoMap provides O(1) lookup for direct sentinel error matches.
//
//nolint:gochecknoglobals // Pre-built mapping for O(1) lookup performance
var errorInfoMap = buildErrorInfoMap()

func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo looks up the ErrorInfo for a given error.
// It first tries a direct map lookup for unwrapped sentinel errors,
// then falls back to errors.Is() traversal for wrapped errors.
func getErrorInfo(err error) ErrorInfo {
	if info, ok := errorInfoMap[err]; ok {
		return info
	}

	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}

	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action the user can take to resolve the issue.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
