package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/shipyard/internal/constants"
	"github.com/mrz1836/shipyard/internal/errors"
)

// Overrides carries CLI flag values, the highest precedence layer.
// Only non-empty values are applied.
type Overrides struct {
	WorkDir        string
	OutputDir      string
	StatusFile     string
	PublishBackend string
	PublishRoot    string
}

// newViperInstance creates a new Viper instance with standard shipyard configuration.
// This includes environment variable prefix (SHIPYARD_), key replacer, and defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// unmarshalAndValidate unmarshals viper config into Config struct and validates it.
func unmarshalAndValidate(ctx context.Context, v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	zerolog.Ctx(ctx).Debug().
		Str("component", "config").
		Strs("targets", cfg.TargetCodes()).
		Str("publish_backend", cfg.Publish.Backend).
		Dur("test_timeout", cfg.Test.Timeout).
		Msg("configuration loaded and unmarshaled")

	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// Load reads configuration from all available sources with proper precedence.
// Configuration is loaded in the following order (highest precedence first):
//  1. Environment variables (SHIPYARD_* prefix)
//  2. Explicit config file (configFile, when non-empty)
//  3. Project config (<workDir>/.shipyard/config.yaml)
//  4. Global config (~/.shipyard/config.yaml)
//  5. Built-in defaults
//
// Missing global or project files are not an error; a missing explicit file is.
func Load(ctx context.Context, workDir, configFile string) (*Config, error) {
	v := newViperInstance()

	if globalPath, err := GlobalConfigPath(); err == nil && fileExists(globalPath) {
		if err := mergeConfigFile(v, globalPath); err != nil {
			return nil, errors.Wrap(err, "failed to read global config file")
		}
	}

	if projectPath := ProjectConfigPath(workDir); fileExists(projectPath) {
		if err := mergeConfigFile(v, projectPath); err != nil {
			return nil, errors.Wrap(err, "failed to read project config file")
		}
	}

	if configFile != "" {
		if err := mergeConfigFile(v, configFile); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", configFile)
		}
	}

	return unmarshalAndValidate(ctx, v)
}

// LoadWithOverrides loads configuration and applies CLI flag overrides.
// Only non-empty override values are applied, then the result is re-validated
// and its paths resolved against WorkDir.
func LoadWithOverrides(ctx context.Context, configFile string, overrides Overrides) (*Config, error) {
	workDir := overrides.WorkDir
	if workDir == "" {
		workDir = "."
	}

	cfg, err := Load(ctx, workDir, configFile)
	if err != nil {
		return nil, err
	}

	applyOverrides(cfg, overrides)

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}
	if err := cfg.ResolvePaths(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPaths loads configuration from specific file paths for testing.
// This function allows precise control over which config files are loaded.
//
// projectConfigPath is the path to project-level config (higher priority).
// globalConfigPath is the path to global config (lower priority).
// Either path can be empty to skip that level.
func LoadFromPaths(ctx context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" {
		if err := mergeConfigFile(v, globalConfigPath); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}

	if projectConfigPath != "" {
		if err := mergeConfigFile(v, projectConfigPath); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
		}
	}

	return unmarshalAndValidate(ctx, v)
}

func mergeConfigFile(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return err
	}
	return nil
}

// fileExists returns true if the file at path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// setDefaults configures all default values on the Viper instance.
// These defaults match the values from DefaultConfig().
// IMPORTANT: Keys must match the YAML tag names exactly for proper mapping.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("work_dir", d.WorkDir)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("status_file", d.StatusFile)

	targets := make([]map[string]any, 0, len(d.Targets))
	for _, t := range d.Targets {
		targets = append(targets, map[string]any{
			"code":           t.Code,
			"product":        t.Product,
			"feature_filter": t.FeatureFilter,
			"docs_dir":       t.DocsDir,
		})
	}
	v.SetDefault("targets", targets)

	v.SetDefault("provision.command", d.Provision.Command)
	v.SetDefault("provision.spec", d.Provision.Spec)
	v.SetDefault("provision.timeout", d.Provision.Timeout.String())

	v.SetDefault("bundle.command", d.Bundle.Command)
	v.SetDefault("bundle.timeout", d.Bundle.Timeout.String())

	v.SetDefault("test.command", d.Test.Command)
	v.SetDefault("test.dir", d.Test.Dir)
	v.SetDefault("test.data_path", d.Test.DataPath)
	v.SetDefault("test.timeout", d.Test.Timeout.String())

	v.SetDefault("docs.command", d.Docs.Command)
	v.SetDefault("docs.clean_command", d.Docs.CleanCommand)
	v.SetDefault("docs.formats", d.Docs.Formats)
	v.SetDefault("docs.build_dir", d.Docs.BuildDir)
	v.SetDefault("docs.timeout", d.Docs.Timeout.String())

	v.SetDefault("publish.backend", d.Publish.Backend)
	v.SetDefault("publish.root", d.Publish.Root)
	v.SetDefault("publish.endpoint", "")
	v.SetDefault("publish.bucket", "")
	v.SetDefault("publish.region", "")
	v.SetDefault("publish.access_key", "")
	v.SetDefault("publish.secret_key", "")
	v.SetDefault("publish.use_ssl", d.Publish.UseSSL)
	v.SetDefault("publish.public_read", d.Publish.PublicRead)
	v.SetDefault("publish.concurrency", d.Publish.Concurrency)
}

// applyOverrides merges non-empty override values into the config.
func applyOverrides(cfg *Config, overrides Overrides) {
	if overrides.WorkDir != "" {
		cfg.WorkDir = overrides.WorkDir
	}
	if overrides.OutputDir != "" {
		cfg.OutputDir = overrides.OutputDir
	}
	if overrides.StatusFile != "" {
		cfg.StatusFile = overrides.StatusFile
	}
	if overrides.PublishBackend != "" {
		cfg.Publish.Backend = overrides.PublishBackend
	}
	if overrides.PublishRoot != "" {
		cfg.Publish.Root = overrides.PublishRoot
	}
}

// viperDecoderOption returns the decoder options for Viper unmarshal.
// Durations decode from strings ("90m"); string lists also accept a
// comma-separated env value (SHIPYARD_DOCS_FORMATS=html,latexpdf).
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	)
}
