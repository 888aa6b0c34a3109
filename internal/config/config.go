// Package config provides configuration management for shipyard with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (applied by the cli package via ApplyOverrides)
//  2. Environment variables (SHIPYARD_* prefix)
//  3. Project config (.shipyard/config.yaml in the checkout)
//  4. Global config (~/.shipyard/config.yaml)
//  5. Built-in defaults
//
// The resulting Config is the explicit replacement for the ambient environment
// variables a release script would otherwise read: it is built once per run and
// passed down to every component.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import other internal packages.
package config

import "time"

// Config is the root configuration structure for shipyard.
type Config struct {
	// WorkDir is the source checkout root. Relative collaborator directories
	// and output paths are resolved against it.
	// Default: "."
	WorkDir string `yaml:"work_dir" json:"work_dir" mapstructure:"work_dir"`

	// OutputDir receives bundles, package directories and test reports.
	// Default: "build"
	OutputDir string `yaml:"output_dir" json:"output_dir" mapstructure:"output_dir"`

	// StatusFile is the key=value status file read by the notifier.
	// Default: "build/status.txt"
	StatusFile string `yaml:"status_file" json:"status_file" mapstructure:"status_file"`

	// Targets lists the known product lines in selection priority order.
	Targets []TargetConfig `yaml:"targets" json:"targets" mapstructure:"targets"`

	// Provision configures the environment provisioner run once per run.
	Provision ProvisionConfig `yaml:"provision" json:"provision" mapstructure:"provision"`

	// Bundle configures the bundle builder.
	Bundle BundleConfig `yaml:"bundle" json:"bundle" mapstructure:"bundle"`

	// Test configures the integration test harness.
	Test TestConfig `yaml:"test" json:"test" mapstructure:"test"`

	// Docs configures the documentation builder.
	Docs DocsConfig `yaml:"docs" json:"docs" mapstructure:"docs"`

	// Publish configures where finished package directories are published.
	Publish PublishConfig `yaml:"publish" json:"publish" mapstructure:"publish"`
}

// TargetConfig describes one product line.
type TargetConfig struct {
	// Code is the short identifier used in tags ("p2g-v2.3.0") and commit
	// message tokens ("[p2g]", "[p2g-skip-tests]"). Alphanumeric only.
	Code string `yaml:"code" json:"code" mapstructure:"code"`

	// Product is the product name used in artifact paths ("polar2grid").
	Product string `yaml:"product" json:"product" mapstructure:"product"`

	// FeatureFilter selects the harness features for this target.
	FeatureFilter string `yaml:"feature_filter" json:"feature_filter" mapstructure:"feature_filter"`

	// DocsDir is the documentation source directory, relative to WorkDir.
	DocsDir string `yaml:"docs_dir" json:"docs_dir" mapstructure:"docs_dir"`
}

// ProvisionConfig configures environment provisioning.
type ProvisionConfig struct {
	// Command provisions the build environment. Empty disables provisioning.
	Command string `yaml:"command" json:"command" mapstructure:"command"`

	// Spec is the environment specification passed as $PROVISION_SPEC.
	Spec string `yaml:"spec" json:"spec" mapstructure:"spec"`

	// Timeout bounds the provisioning command.
	// Default: 60 minutes
	Timeout time.Duration `yaml:"timeout" json:"timeout" mapstructure:"timeout"`
}

// BundleConfig configures the bundle builder.
type BundleConfig struct {
	// Command builds $PRODUCT into $OUTPUT_PATH and $OUTPUT_PATH.tar.gz.
	Command string `yaml:"command" json:"command" mapstructure:"command"`

	// Timeout bounds a single bundle build.
	// Default: 90 minutes
	Timeout time.Duration `yaml:"timeout" json:"timeout" mapstructure:"timeout"`
}

// TestConfig configures the integration test harness.
type TestConfig struct {
	// Command runs the harness; its combined output must contain one
	// brace-delimited JSON block.
	Command string `yaml:"command" json:"command" mapstructure:"command"`

	// Dir is the harness working directory, relative to WorkDir.
	// Default: "integration_tests"
	Dir string `yaml:"dir" json:"dir" mapstructure:"dir"`

	// DataPath is the test data location passed as $DATA_PATH.
	DataPath string `yaml:"data_path" json:"data_path" mapstructure:"data_path"`

	// Timeout bounds a single harness run.
	// Default: 120 minutes
	Timeout time.Duration `yaml:"timeout" json:"timeout" mapstructure:"timeout"`
}

// DocsConfig configures the documentation builder.
type DocsConfig struct {
	// Command builds one format ($DOC_FORMAT) inside the target's DocsDir.
	Command string `yaml:"command" json:"command" mapstructure:"command"`

	// CleanCommand runs before every format. Empty disables cleaning.
	CleanCommand string `yaml:"clean_command" json:"clean_command" mapstructure:"clean_command"`

	// Formats are built in order.
	// Default: ["html", "latexpdf"]
	Formats []string `yaml:"formats" json:"formats" mapstructure:"formats"`

	// BuildDir is the builder output directory relative to DocsDir;
	// format output is expected in BuildDir/<format>.
	// Default: "_build"
	BuildDir string `yaml:"build_dir" json:"build_dir" mapstructure:"build_dir"`

	// Timeout bounds one format build.
	// Default: 30 minutes
	Timeout time.Duration `yaml:"timeout" json:"timeout" mapstructure:"timeout"`
}

// Publish backends.
const (
	PublishBackendDir = "dir"
	PublishBackendS3  = "s3"
)

// PublishConfig configures the publisher sink.
type PublishConfig struct {
	// Backend is "dir" (local or mounted filesystem) or "s3" (S3-compatible object storage).
	// Default: "dir"
	Backend string `yaml:"backend" json:"backend" mapstructure:"backend"`

	// Root is the public directory for the dir backend.
	// Default: "public"
	Root string `yaml:"root" json:"root" mapstructure:"root"`

	// Endpoint is the object storage host:port for the s3 backend.
	Endpoint string `yaml:"endpoint" json:"endpoint" mapstructure:"endpoint"`

	// Bucket receives package trees under "<product>/<suffix>/".
	Bucket string `yaml:"bucket" json:"bucket" mapstructure:"bucket"`

	// Region is the bucket region (optional).
	Region string `yaml:"region" json:"region" mapstructure:"region"`

	// AccessKey and SecretKey authenticate against the object store.
	// Prefer SHIPYARD_PUBLISH_ACCESS_KEY / SHIPYARD_PUBLISH_SECRET_KEY.
	AccessKey string `yaml:"access_key" json:"access_key" mapstructure:"access_key"`
	SecretKey string `yaml:"secret_key" json:"secret_key" mapstructure:"secret_key"`

	// UseSSL enables TLS to the object store.
	// Default: true
	UseSSL bool `yaml:"use_ssl" json:"use_ssl" mapstructure:"use_ssl"`

	// PublicRead grants anonymous read access to the published prefix.
	// Default: true
	PublicRead bool `yaml:"public_read" json:"public_read" mapstructure:"public_read"`

	// Concurrency bounds parallel object uploads.
	// Default: 4
	Concurrency int `yaml:"concurrency" json:"concurrency" mapstructure:"concurrency"`
}

// Target returns the configured target with the given code.
func (c *Config) Target(code string) (TargetConfig, bool) {
	for _, t := range c.Targets {
		if t.Code == code {
			return t, true
		}
	}
	return TargetConfig{}, false
}

// TargetCodes returns the configured target codes in priority order.
func (c *Config) TargetCodes() []string {
	codes := make([]string, 0, len(c.Targets))
	for _, t := range c.Targets {
		codes = append(codes, t.Code)
	}
	return codes
}

// secretMask replaces credential values in Redacted output.
const secretMask = "********"

// Redacted returns a copy of the config with credentials masked, for display.
func (c *Config) Redacted() *Config {
	out := *c
	out.Targets = append([]TargetConfig(nil), c.Targets...)
	out.Docs.Formats = append([]string(nil), c.Docs.Formats...)
	if out.Publish.AccessKey != "" {
		out.Publish.AccessKey = secretMask
	}
	if out.Publish.SecretKey != "" {
		out.Publish.SecretKey = secretMask
	}
	return &out
}
