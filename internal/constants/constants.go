// Package constants provides centralized constant values used throughout shipyard.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory names and paths used by shipyard.
const (
	// ShipyardHome is the hidden directory name where shipyard stores its
	// global configuration and logs. It is created in the user's home directory.
	ShipyardHome = ".shipyard"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"
)

// Default locations relative to the checkout.
const (
	// DefaultOutputDir holds bundles, package directories and test reports.
	DefaultOutputDir = "build"

	// DefaultStatusFile is the key=value status file read by the notifier.
	DefaultStatusFile = "build/status.txt"

	// DefaultTestDir is the directory the test harness runs in.
	DefaultTestDir = "integration_tests"

	// DefaultDocsBuildDir is the documentation builder output directory,
	// relative to a target's docs directory.
	DefaultDocsBuildDir = "_build"

	// DefaultPublishRoot is where the dir publisher places package directories.
	DefaultPublishRoot = "public"
)

// Timeouts for external collaborators. None of them is retried.
const (
	// DefaultProvisionTimeout bounds environment provisioning.
	DefaultProvisionTimeout = 60 * time.Minute

	// DefaultBundleTimeout bounds a single bundle build.
	DefaultBundleTimeout = 90 * time.Minute

	// DefaultTestTimeout bounds a single test harness run.
	DefaultTestTimeout = 120 * time.Minute

	// DefaultDocsTimeout bounds one documentation format build.
	DefaultDocsTimeout = 30 * time.Minute
)

// Status file locking.
const (
	// StatusLockTimeout is the maximum duration to wait for the status file lock.
	StatusLockTimeout = 5 * time.Second

	// StatusLockRetryInterval is the pause between lock attempts.
	StatusLockRetryInterval = 50 * time.Millisecond
)

// Release naming.
const (
	// TimestampSuffixLayout formats the fallback release suffix (YYYYMMDD-HHMMSS).
	TimestampSuffixLayout = "20060102-150405"

	// SkipTestsToken is appended to a target code inside brackets to skip that
	// target's tests; on its own ([skip-tests]) it skips tests for every target.
	SkipTestsToken = "skip-tests"

	// BundleDirInfix sits between the product name and the release suffix in bundle paths.
	BundleDirInfix = "swbundle"

	// TarballExtension is appended to the bundle path by the bundle builder.
	TarballExtension = ".tar.gz"

	// TestReportFileSuffix names the rendered test summary written per target.
	TestReportFileSuffix = "_test_report.txt"

	// DocsPackageDir is the subdirectory of a package directory holding built docs.
	DocsPackageDir = "docs"
)
