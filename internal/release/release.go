// Package release drives a whole run: resolve the targets, seed the status
// record, provision the environment, run every selected target and record the
// run verdict. The finish time is written on every exit path.
package release

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/shipyard/internal/clock"
	"github.com/mrz1836/shipyard/internal/constants"
	"github.com/mrz1836/shipyard/internal/ctxutil"
	"github.com/mrz1836/shipyard/internal/errors"
	"github.com/mrz1836/shipyard/internal/resolve"
	"github.com/mrz1836/shipyard/internal/status"
)

// Provisioner prepares the build environment.
type Provisioner interface {
	Provision(ctx context.Context) error
}

// TargetRunner runs one target pipeline and reports whether it failed.
type TargetRunner interface {
	Run(ctx context.Context, rc *resolve.RunContext, target resolve.Target) bool
}

// TargetResult is the verdict for one target.
type TargetResult struct {
	Code   string `json:"code"`
	Failed bool   `json:"failed"`
}

// Summary describes a finished run.
type Summary struct {
	Run        *resolve.RunContext `json:"run"`
	Results    []TargetResult      `json:"results"`
	FinishTime time.Time           `json:"finish_time"`
}

// Failed reports whether any target failed.
func (s *Summary) Failed() bool {
	for _, r := range s.Results {
		if r.Failed {
			return true
		}
	}
	return false
}

// Orchestrator runs releases.
type Orchestrator struct {
	store       status.Store
	resolver    *resolve.Resolver
	provisioner Provisioner
	runner      TargetRunner
	clock       clock.Clock
}

// NewOrchestrator wires an orchestrator.
func NewOrchestrator(store status.Store, resolver *resolve.Resolver, provisioner Provisioner, runner TargetRunner, clk clock.Clock) *Orchestrator {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Orchestrator{
		store:       store,
		resolver:    resolver,
		provisioner: provisioner,
		runner:      runner,
		clock:       clk,
	}
}

// Run executes a release for trigger. Targets run sequentially; a failed
// target never stops the next one.
//
// Errors:
//   - ErrUnknownTarget when only names a target that is not configured.
//   - ErrRunFailed (wrapping ErrProvisionFailed) when provisioning failed.
//   - ErrRunFailed when at least one target failed; the Summary is still returned.
func (o *Orchestrator) Run(ctx context.Context, trigger resolve.Trigger, only []string) (summary *Summary, err error) {
	log := zerolog.Ctx(ctx)
	summary = &Summary{}

	defer func() {
		cleanupCtx, cancel := ctxutil.ForCleanup(ctx)
		defer cancel()
		summary.FinishTime = o.clock.Now().UTC()
		if setErr := o.store.Set(cleanupCtx, constants.KeyFinishTime, summary.FinishTime.Format(time.RFC3339)); setErr != nil {
			log.Error().Err(setErr).Msg("failed to record finish time")
		}
	}()

	rc, err := o.resolver.Resolve(trigger, only)
	if err != nil {
		return summary, err
	}
	summary.Run = rc

	runLog := log.With().Str("run_id", rc.RunID).Logger()
	ctx = runLog.WithContext(ctx)

	runLog.Info().
		Str("tag", trigger.Tag).
		Str("suffix", rc.Suffix).
		Strs("targets", rc.TargetCodes()).
		Str("selection", string(rc.Selection)).
		Msg("release run starting")

	if err := resolve.Seed(ctx, o.store, rc); err != nil {
		return summary, fmt.Errorf("%w: %w", errors.ErrRunFailed, err)
	}

	if err := o.provisioner.Provision(ctx); err != nil {
		runLog.Error().Err(err).Msg("environment provisioning failed, no target will run")
		return summary, fmt.Errorf("%w: %w", errors.ErrRunFailed, err)
	}

	for _, target := range rc.Targets {
		if ctxErr := ctxutil.Canceled(ctx); ctxErr != nil {
			runLog.Warn().Str("target", target.Code).Msg("run canceled before target started")
			summary.Results = append(summary.Results, TargetResult{Code: target.Code, Failed: true})
			continue
		}
		failed := o.runner.Run(ctx, rc, target)
		summary.Results = append(summary.Results, TargetResult{Code: target.Code, Failed: failed})
	}

	if summary.Failed() {
		runLog.Error().Msg("release run finished with failures")
		return summary, errors.ErrRunFailed
	}

	if err := o.store.Set(ctx, constants.KeyRunStatus, constants.StatusSuccessful.String()); err != nil {
		return summary, fmt.Errorf("%w: %w", errors.ErrRunFailed, err)
	}
	runLog.Info().Msg("release run finished successfully")
	return summary, nil
}
