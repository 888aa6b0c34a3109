package toolchain

import "github.com/mrz1836/shipyard/internal/config"

// Environment variables passed to collaborator commands.
const (
	EnvTarget        = "TARGET"
	EnvProduct       = "PRODUCT"
	EnvReleaseSuffix = "RELEASE_SUFFIX"
	EnvOutputPath    = "OUTPUT_PATH"
	EnvBundlePath    = "BUNDLE_PATH"
	EnvPathToScripts = "PATH_TO_SCRIPTS"
	EnvFeatureFilter = "FEATURE_FILTER"
	EnvDataPath      = "DATA_PATH"
	EnvDocFormat     = "DOC_FORMAT"
	EnvProvisionSpec = "PROVISION_SPEC"
)

// targetEnv returns the variables every per-target collaborator receives.
func targetEnv(target config.TargetConfig, suffix string) Env {
	return Env{
		EnvTarget:        target.Code,
		EnvProduct:       target.Product,
		EnvReleaseSuffix: suffix,
	}
}
