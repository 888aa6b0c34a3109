package toolchain

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mrz1836/shipyard/internal/config"
	"github.com/mrz1836/shipyard/internal/constants"
	"github.com/mrz1836/shipyard/internal/errors"
	"github.com/mrz1836/shipyard/internal/fsutil"
)

// DocBuilder builds a target's documentation in every configured format and
// copies each format tree into the package directory.
type DocBuilder struct {
	exec *Executor
	cfg  config.DocsConfig
}

// NewDocBuilder creates a documentation builder.
func NewDocBuilder(exec *Executor, cfg config.DocsConfig) *DocBuilder {
	return &DocBuilder{exec: exec, cfg: cfg}
}

// Build runs clean then build for each format in order inside the target's
// docs directory. The first failing format stops the build.
func (d *DocBuilder) Build(ctx context.Context, target config.TargetConfig, suffix, packageDir string) error {
	for _, format := range d.cfg.Formats {
		if err := d.buildFormat(ctx, target, suffix, packageDir, format); err != nil {
			return fmt.Errorf("%w: %s %s: %w", errors.ErrDocsBuildFailed, target.Code, format, err)
		}
	}
	return nil
}

func (d *DocBuilder) buildFormat(ctx context.Context, target config.TargetConfig, suffix, packageDir, format string) error {
	env := targetEnv(target, suffix)
	env[EnvDocFormat] = format
	env[EnvOutputPath] = packageDir

	if d.cfg.CleanCommand != "" {
		if _, err := d.exec.Exec(ctx, Step{
			Name:    "docs-clean:" + format,
			Dir:     target.DocsDir,
			Command: d.cfg.CleanCommand,
			Env:     env,
			Timeout: d.cfg.Timeout,
		}); err != nil {
			return err
		}
	}

	if _, err := d.exec.Exec(ctx, Step{
		Name:    "docs:" + format,
		Dir:     target.DocsDir,
		Command: d.cfg.Command,
		Env:     env,
		Timeout: d.cfg.Timeout,
	}); err != nil {
		return err
	}

	src := filepath.Join(target.DocsDir, d.cfg.BuildDir, format)
	dst := filepath.Join(packageDir, constants.DocsPackageDir, format)
	if err := fsutil.CopyTree(src, dst); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Debug().Str("format", format).Str("dest", dst).Msg("documentation copied into package")
	return nil
}
