package toolchain

import (
	"context"
	"fmt"
	"os"

	"github.com/mrz1836/shipyard/internal/config"
	"github.com/mrz1836/shipyard/internal/constants"
	"github.com/mrz1836/shipyard/internal/errors"
)

// BundleBuilder produces a target's software bundle tree and tarball.
type BundleBuilder struct {
	exec    *Executor
	cfg     config.BundleConfig
	workDir string
}

// NewBundleBuilder creates a bundle builder running in workDir.
func NewBundleBuilder(exec *Executor, cfg config.BundleConfig, workDir string) *BundleBuilder {
	return &BundleBuilder{exec: exec, cfg: cfg, workDir: workDir}
}

// TarballPath returns the tarball the bundle command produces for bundlePath.
func TarballPath(bundlePath string) string {
	return bundlePath + constants.TarballExtension
}

// Build runs the bundle command with $OUTPUT_PATH set to bundlePath, then
// checks that both the bundle directory and its tarball exist.
func (b *BundleBuilder) Build(ctx context.Context, target config.TargetConfig, suffix, bundlePath string) error {
	env := targetEnv(target, suffix)
	env[EnvOutputPath] = bundlePath

	if _, err := b.exec.Exec(ctx, Step{
		Name:    "bundle",
		Dir:     b.workDir,
		Command: b.cfg.Command,
		Env:     env,
		Timeout: b.cfg.Timeout,
	}); err != nil {
		return fmt.Errorf("%w: %s: %w", errors.ErrBundleBuildFailed, target.Code, err)
	}

	if info, err := os.Stat(bundlePath); err != nil || !info.IsDir() {
		return errors.Wrapf(errors.ErrBundleBuildFailed, "%s: bundle directory not produced: %s", target.Code, bundlePath)
	}
	if _, err := os.Stat(TarballPath(bundlePath)); err != nil {
		return errors.Wrapf(errors.ErrBundleBuildFailed, "%s: bundle tarball not produced: %s", target.Code, TarballPath(bundlePath))
	}
	return nil
}
