package toolchain

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mrz1836/shipyard/internal/config"
	"github.com/mrz1836/shipyard/internal/errors"
)

// Provisioner prepares the build environment once per run.
type Provisioner struct {
	exec    *Executor
	cfg     config.ProvisionConfig
	workDir string
}

// NewProvisioner creates a provisioner running in workDir.
func NewProvisioner(exec *Executor, cfg config.ProvisionConfig, workDir string) *Provisioner {
	return &Provisioner{exec: exec, cfg: cfg, workDir: workDir}
}

// Provision runs the provisioning command with $PROVISION_SPEC set.
// An empty command disables provisioning.
func (p *Provisioner) Provision(ctx context.Context) error {
	if p.cfg.Command == "" {
		zerolog.Ctx(ctx).Debug().Msg("no provisioning command configured, skipping")
		return nil
	}

	_, err := p.exec.Exec(ctx, Step{
		Name:    "provision",
		Dir:     p.workDir,
		Command: p.cfg.Command,
		Env:     Env{EnvProvisionSpec: p.cfg.Spec},
		Timeout: p.cfg.Timeout,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrProvisionFailed, err)
	}
	return nil
}
