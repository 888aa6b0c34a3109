// Package pipeline runs one target through its ordered stages: bundle build,
// tests, documentation and publish. Each target runs in its own scope; any
// failure inside it, including a panic, ends that target only and is reported
// to the caller as a boolean.
package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog"

	"github.com/mrz1836/shipyard/internal/config"
	"github.com/mrz1836/shipyard/internal/constants"
	"github.com/mrz1836/shipyard/internal/errors"
	"github.com/mrz1836/shipyard/internal/fsutil"
	"github.com/mrz1836/shipyard/internal/publish"
	"github.com/mrz1836/shipyard/internal/report"
	"github.com/mrz1836/shipyard/internal/resolve"
	"github.com/mrz1836/shipyard/internal/status"
	"github.com/mrz1836/shipyard/internal/toolchain"
)

// BundleBuilder builds a target bundle at bundlePath.
type BundleBuilder interface {
	Build(ctx context.Context, target config.TargetConfig, suffix, bundlePath string) error
}

// TestRunner runs the integration test harness against a bundle.
type TestRunner interface {
	Run(ctx context.Context, target config.TargetConfig, suffix, bundlePath string) (*toolchain.HarnessRun, error)
}

// DocBuilder builds documentation into a package directory.
type DocBuilder interface {
	Build(ctx context.Context, target config.TargetConfig, suffix, packageDir string) error
}

// State is the transient per-target state owned by one target scope.
type State struct {
	Target     resolve.Target
	BundlePath string
	PackageDir string
	Failed     bool
	// blockPublish is set by failures that must keep the package private.
	blockPublish bool
}

// BundlePath returns "<outputDir>/<product>-swbundle-<suffix>".
func BundlePath(outputDir, product, suffix string) string {
	return filepath.Join(outputDir, product+"-"+constants.BundleDirInfix+"-"+suffix)
}

// PackageDir returns "<outputDir>/<product>-<suffix>".
func PackageDir(outputDir, product, suffix string) string {
	return filepath.Join(outputDir, product+"-"+suffix)
}

// ReportPath returns "<outputDir>/<code>_test_report.txt".
func ReportPath(outputDir, code string) string {
	return filepath.Join(outputDir, code+constants.TestReportFileSuffix)
}

// Executor runs target pipelines.
type Executor struct {
	store     status.Store
	outputDir string
	bundle    BundleBuilder
	tests     TestRunner
	docs      DocBuilder
	publisher publish.Publisher
}

// NewExecutor creates an executor writing artifacts under outputDir and
// outcomes to store.
func NewExecutor(store status.Store, outputDir string, bundle BundleBuilder, tests TestRunner, docs DocBuilder, publisher publish.Publisher) *Executor {
	return &Executor{
		store:     store,
		outputDir: outputDir,
		bundle:    bundle,
		tests:     tests,
		docs:      docs,
		publisher: publisher,
	}
}

// Run executes every stage for target and reports whether the target failed.
// It never panics and never returns early for reasons other than a failed
// bundle or documentation stage.
func (e *Executor) Run(ctx context.Context, rc *resolve.RunContext, target resolve.Target) (failed bool) {
	log := zerolog.Ctx(ctx).With().Str("target", target.Code).Logger()
	ctx = log.WithContext(ctx)

	state := &State{
		Target:     target,
		BundlePath: BundlePath(e.outputDir, target.Product, rc.Suffix),
		PackageDir: PackageDir(e.outputDir, target.Product, rc.Suffix),
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Err(errors.ErrTargetPanicked).
				Str("panic", fmt.Sprint(r)).
				Str("stack", string(debug.Stack())).
				Msg("target pipeline terminated abruptly")
			failed = true
		}
	}()

	log.Info().Str("suffix", rc.Suffix).Str("bundle_path", state.BundlePath).Msg("starting target pipeline")

	if !e.runBundle(ctx, rc, state) {
		return true
	}
	e.runTests(ctx, rc, state)
	if !e.runDocs(ctx, rc, state) {
		return true
	}
	e.runPublish(ctx, rc, state)

	log.Info().Bool("failed", state.Failed).Msg("target pipeline finished")
	return state.Failed
}

func (e *Executor) runBundle(ctx context.Context, rc *resolve.RunContext, s *State) bool {
	log := stageLogger(ctx, constants.StageBundle)

	if err := e.bundle.Build(ctx, s.Target.TargetConfig, rc.Suffix, s.BundlePath); err != nil {
		log.Error().Err(err).Msg("bundle build failed, skipping remaining stages")
		s.Failed = true
		return false
	}

	tarball := toolchain.TarballPath(s.BundlePath)
	if err := fsutil.CopyFile(tarball, filepath.Join(s.PackageDir, filepath.Base(tarball))); err != nil {
		log.Error().Err(err).Msg("could not place bundle tarball in package directory")
		s.Failed = true
		return false
	}

	return e.record(ctx, s, status.PackageKey(s.Target.Code), constants.StatusSuccessful.String())
}

func (e *Executor) runTests(ctx context.Context, rc *resolve.RunContext, s *State) {
	log := stageLogger(ctx, constants.StageTests)
	key := status.TestsKey(s.Target.Code)

	if s.Target.SkipTests {
		log.Info().Msg("tests skipped by request")
		e.record(ctx, s, key, constants.StatusSkipped.String())
		return
	}

	run, runErr := e.tests.Run(ctx, s.Target.TargetConfig, rc.Suffix, s.BundlePath)
	if stderrors.Is(runErr, errors.ErrTestHarnessUnavailable) || run == nil {
		log.Error().Err(runErr).Msg("test harness could not be run, package will not be published")
		s.Failed = true
		s.blockPublish = true
		return
	}

	entries, extractErr := report.Extract(string(run.Output))
	if extractErr != nil {
		log.Error().Err(extractErr).Int("exit_code", run.ExitCode).Msg("no usable test report in harness output")
	} else {
		summary := report.Render(entries)
		if err := os.WriteFile(ReportPath(e.outputDir, s.Target.Code), []byte(summary+"\n"), 0o644); err != nil { //#nosec G306 -- report is published alongside the package
			log.Warn().Err(err).Msg("could not write test report")
		}
		log.Info().Int("scenarios", len(entries)).Str("summary", summary).Msg("test report extracted")
	}

	if runErr != nil || extractErr != nil {
		log.Error().Err(runErr).Int("exit_code", run.ExitCode).Msg("tests failed, continuing with documentation")
		s.Failed = true
		return
	}

	e.record(ctx, s, key, constants.StatusSuccessful.String())
}

func (e *Executor) runDocs(ctx context.Context, rc *resolve.RunContext, s *State) bool {
	log := stageLogger(ctx, constants.StageDocs)

	if err := e.docs.Build(ctx, s.Target.TargetConfig, rc.Suffix, s.PackageDir); err != nil {
		log.Error().Err(err).Msg("documentation build failed, package will not be published")
		s.Failed = true
		return false
	}
	return e.record(ctx, s, status.DocsKey(s.Target.Code), constants.StatusSuccessful.String())
}

func (e *Executor) runPublish(ctx context.Context, rc *resolve.RunContext, s *State) {
	log := stageLogger(ctx, constants.StagePublish)

	if s.blockPublish {
		log.Warn().Msg("publish skipped after an earlier hard failure")
		return
	}

	res, err := e.publisher.Publish(ctx, publish.Package{
		Dir:     s.PackageDir,
		Product: s.Target.Product,
		Suffix:  rc.Suffix,
	})
	if err != nil {
		log.Error().Err(err).Msg("publish failed")
		s.Failed = true
		return
	}

	log.Info().Str("location", res.Location).Msg("package published")
	e.record(ctx, s, status.PublishedKey(s.Target.Code), constants.PublishedTrue)
}

// record writes a stage outcome. A store failure fails the target, since the
// notifier would otherwise report a stale value.
func (e *Executor) record(ctx context.Context, s *State, key, value string) bool {
	if err := e.store.Set(ctx, key, value); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("key", key).Msg("failed to record stage outcome")
		s.Failed = true
		return false
	}
	return true
}

func stageLogger(ctx context.Context, stage constants.Stage) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("stage", stage.String()).Logger()
	return &l
}
