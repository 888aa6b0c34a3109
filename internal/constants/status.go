package constants

// StageStatus is a value recorded in the status file for a stage key.
// The notifier reads these strings verbatim.
type StageStatus string

// Stage status values.
const (
	// StatusSuccessful marks a stage that completed.
	StatusSuccessful StageStatus = "SUCCESSFUL"

	// StatusFailed marks a stage that failed or never ran for a selected target.
	// It is the seeded default for stage keys of selected targets.
	StatusFailed StageStatus = "FAILED"

	// StatusSkipped marks a stage that was intentionally not run.
	StatusSkipped StageStatus = "SKIPPED"
)

// String returns the string representation of the StageStatus.
func (s StageStatus) String() string {
	return string(s)
}

// Values for the boolean <target>_package_published key.
const (
	PublishedTrue  = "TRUE"
	PublishedFalse = "FALSE"
)

// Stage identifies one ordered step of a target pipeline.
type Stage string

// Pipeline stages in execution order.
const (
	StageBundle  Stage = "bundle"
	StageTests   Stage = "tests"
	StageDocs    Stage = "documentation"
	StagePublish Stage = "publish"
)

// String returns the string representation of the Stage.
func (s Stage) String() string {
	return string(s)
}

// Status key suffixes. A target's key is "<code>" + suffix.
const (
	KeySuffixPackage   = "_package"
	KeySuffixTests     = "_tests"
	KeySuffixDocs      = "_documentation"
	KeySuffixPublished = "_package_published"
)

// Run-level status keys.
const (
	KeyRunID         = "run_id"
	KeyStartTime     = "start_time"
	KeyFinishTime    = "finish_time"
	KeyGitTag        = "git_tag"
	KeyGitAuthor     = "git_author"
	KeyCommitMessage = "commit_message"
	KeyReleaseSuffix = "release_suffix"
	KeyTargets       = "targets"
	KeyRunStatus     = "run_status"
)
