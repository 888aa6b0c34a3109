package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrz1836/shipyard/internal/constants"
	"github.com/mrz1836/shipyard/internal/errors"
)

// GlobalConfigDir returns the path to the global shipyard configuration directory.
// This is typically ~/.shipyard on Unix systems.
func GlobalConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.ShipyardHome), nil
}

// GlobalConfigPath returns the full path to the global configuration file.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", fmt.Errorf("get global config path: %w", err)
	}
	return filepath.Join(dir, constants.ConfigFileName), nil
}

// ProjectConfigPath returns the project configuration path for a checkout root.
func ProjectConfigPath(workDir string) string {
	return filepath.Join(workDir, constants.ShipyardHome, constants.ConfigFileName)
}

// ResolvePaths makes WorkDir absolute and resolves OutputDir, StatusFile,
// Test.Dir, Test.DataPath, Provision.Spec, Publish.Root and each target's
// DocsDir against it. Already absolute paths are left alone.
func (c *Config) ResolvePaths() error {
	workDir, err := filepath.Abs(c.WorkDir)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve work_dir %q", c.WorkDir)
	}
	c.WorkDir = workDir

	c.OutputDir = resolveAgainst(workDir, c.OutputDir)
	c.StatusFile = resolveAgainst(workDir, c.StatusFile)
	c.Test.Dir = resolveAgainst(workDir, c.Test.Dir)
	c.Test.DataPath = resolveAgainst(workDir, c.Test.DataPath)
	c.Provision.Spec = resolveAgainst(workDir, c.Provision.Spec)
	if c.Publish.Backend == PublishBackendDir {
		c.Publish.Root = resolveAgainst(workDir, c.Publish.Root)
	}
	for i := range c.Targets {
		c.Targets[i].DocsDir = resolveAgainst(workDir, c.Targets[i].DocsDir)
	}
	return nil
}

func resolveAgainst(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
