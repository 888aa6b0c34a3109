package constants

// Log file names.
const (
	// CLILogFileName is the name of the global CLI log file.
	// This file is located in ~/.shipyard/logs/shipyard.log
	CLILogFileName = "shipyard.log"

	// LogMaxSizeMB is the maximum size of a log file before rotation.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated log files kept.
	LogMaxBackups = 5

	// LogMaxAgeDays is the maximum age of a rotated log file.
	LogMaxAgeDays = 30

	// LogCompress enables gzip compression of rotated log files.
	LogCompress = true
)

// Configuration file names.
const (
	// ConfigFileName is the name of both the global and project configuration files.
	ConfigFileName = "config.yaml"

	// EnvPrefix is the prefix for environment variable overrides (SHIPYARD_WORK_DIR, ...).
	EnvPrefix = "SHIPYARD"
)

// Default target codes and product names.
const (
	TargetPolar2Grid  = "p2g"
	ProductPolar2Grid = "polar2grid"
	TargetGeo2Grid    = "g2g"
	ProductGeo2Grid   = "geo2grid"
)
