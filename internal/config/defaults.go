package config

import "github.com/mrz1836/shipyard/internal/constants"

// Default collaborator commands. They receive their inputs through the
// explicit environment documented in the toolchain package.
const (
	DefaultBundleCommand = `./swbundle/create_bundle.sh "$PRODUCT" "$OUTPUT_PATH"`
	DefaultTestCommand   = `behave "$FEATURE_FILTER" --no-logcapture --no-color --no-capture -D datapath="$DATA_PATH" --format json.pretty`
	DefaultDocsCommand   = `make "$DOC_FORMAT"`
	DefaultDocsClean     = `make clean`
	DefaultProvisionSpec = "build_environment.yml"
)

// DefaultTargets returns the built-in product lines.
func DefaultTargets() []TargetConfig {
	return []TargetConfig{
		{
			Code:          constants.TargetPolar2Grid,
			Product:       constants.ProductPolar2Grid,
			FeatureFilter: "features/polar2grid.feature",
			DocsDir:       "doc",
		},
		{
			Code:          constants.TargetGeo2Grid,
			Product:       constants.ProductGeo2Grid,
			FeatureFilter: "features/geo2grid.feature",
			DocsDir:       "doc",
		},
	}
}

// DefaultConfig returns a Config populated with built-in defaults.
// It mirrors setDefaults so code paths that skip viper see the same values.
func DefaultConfig() *Config {
	return &Config{
		WorkDir:    ".",
		OutputDir:  constants.DefaultOutputDir,
		StatusFile: constants.DefaultStatusFile,
		Targets:    DefaultTargets(),
		Provision: ProvisionConfig{
			// Provisioning is opt-in: most CI images are prebuilt.
			Command: "",
			Spec:    DefaultProvisionSpec,
			Timeout: constants.DefaultProvisionTimeout,
		},
		Bundle: BundleConfig{
			Command: DefaultBundleCommand,
			Timeout: constants.DefaultBundleTimeout,
		},
		Test: TestConfig{
			Command:  DefaultTestCommand,
			Dir:      constants.DefaultTestDir,
			DataPath: "test_data",
			Timeout:  constants.DefaultTestTimeout,
		},
		Docs: DocsConfig{
			Command:      DefaultDocsCommand,
			CleanCommand: DefaultDocsClean,
			Formats:      []string{"html", "latexpdf"},
			BuildDir:     constants.DefaultDocsBuildDir,
			Timeout:      constants.DefaultDocsTimeout,
		},
		Publish: PublishConfig{
			Backend:     PublishBackendDir,
			Root:        constants.DefaultPublishRoot,
			UseSSL:      true,
			PublicRead:  true,
			Concurrency: 4,
		},
	}
}
