// Package resolve decides, from the triggering tag and commit message, which
// targets a run builds and the release suffix that names its artifacts.
//
// Resolution never fails on malformed triggers: anything that does not match
// falls through to building every known target with a timestamp suffix.
package resolve

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mrz1836/shipyard/internal/clock"
	"github.com/mrz1836/shipyard/internal/config"
	"github.com/mrz1836/shipyard/internal/constants"
	"github.com/mrz1836/shipyard/internal/errors"
)

// versionTagPattern matches "<code>-v<major>.<minor>.<patch><suffix>".
var versionTagPattern = regexp.MustCompile(`^([A-Za-z0-9]+)-v\d+\.\d+\.\d+\S*$`)

// Trigger holds the facts a run is started from.
type Trigger struct {
	Tag           string `json:"tag"`
	CommitMessage string `json:"commit_message"`
	Author        string `json:"author"`
}

// Target is a selected target and its test policy for this run.
type Target struct {
	config.TargetConfig `yaml:",inline"`

	SkipTests bool `json:"skip_tests" yaml:"skip_tests"`
}

// SelectionSource records which rule selected the targets.
type SelectionSource string

// Selection sources.
const (
	SelectedByTag           SelectionSource = "tag"
	SelectedByCommitMessage SelectionSource = "commit_message"
	SelectedByFlag          SelectionSource = "flag"
	SelectedByDefault       SelectionSource = "default"
)

// RunContext is the immutable set of per-run facts.
type RunContext struct {
	RunID     string    `json:"run_id"`
	StartTime time.Time `json:"start_time"`
	Trigger   Trigger   `json:"trigger"`

	// Suffix names the run's artifacts: a version from the tag or a timestamp.
	Suffix        string `json:"release_suffix"`
	SuffixFromTag bool   `json:"suffix_from_tag"`

	// Targets are the selected targets in configured order.
	Targets   []Target        `json:"targets"`
	Selection SelectionSource `json:"selection"`

	// Known lists every configured target, selected or not.
	Known []config.TargetConfig `json:"-"`
}

// TargetCodes returns the selected target codes in order.
func (rc *RunContext) TargetCodes() []string {
	codes := make([]string, 0, len(rc.Targets))
	for _, t := range rc.Targets {
		codes = append(codes, t.Code)
	}
	return codes
}

// Target returns the selected target with the given code.
func (rc *RunContext) Target(code string) (Target, bool) {
	for _, t := range rc.Targets {
		if t.Code == code {
			return t, true
		}
	}
	return Target{}, false
}

// Resolver builds RunContexts.
type Resolver struct {
	targets []config.TargetConfig
	clock   clock.Clock
	newID   func() string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithIDGenerator overrides run ID generation (for testing).
func WithIDGenerator(fn func() string) Option {
	return func(r *Resolver) { r.newID = fn }
}

// NewResolver creates a resolver over the configured targets.
func NewResolver(targets []config.TargetConfig, clk clock.Clock, opts ...Option) *Resolver {
	if clk == nil {
		clk = clock.RealClock{}
	}
	r := &Resolver{targets: targets, clock: clk, newID: uuid.NewString}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve applies the selection rules in priority order: an explicit only
// list, the tag prefix, bracketed commit message tokens, then every target.
// Only fails when only names an unknown target.
func (r *Resolver) Resolve(trigger Trigger, only []string) (*RunContext, error) {
	now := r.clock.Now().UTC()
	rc := &RunContext{
		RunID:     r.newID(),
		StartTime: now,
		Trigger:   trigger,
		Known:     r.targets,
	}

	rc.Suffix, rc.SuffixFromTag = r.suffix(trigger.Tag, now)

	codes, source, err := r.selectCodes(trigger, only)
	if err != nil {
		return nil, err
	}
	rc.Selection = source

	for _, t := range r.targets {
		if !slices.Contains(codes, t.Code) {
			continue
		}
		rc.Targets = append(rc.Targets, Target{
			TargetConfig: t,
			SkipTests:    skipTests(trigger.CommitMessage, t.Code),
		})
	}
	return rc, nil
}

func (r *Resolver) suffix(tag string, now time.Time) (string, bool) {
	m := versionTagPattern.FindStringSubmatch(tag)
	if m != nil && r.known(m[1]) {
		return strings.TrimPrefix(tag, m[1]+"-"), true
	}
	return now.Format(constants.TimestampSuffixLayout), false
}

func (r *Resolver) selectCodes(trigger Trigger, only []string) ([]string, SelectionSource, error) {
	if len(only) > 0 {
		for _, code := range only {
			if !r.known(code) {
				return nil, "", errors.Wrapf(errors.ErrUnknownTarget, "%q", code)
			}
		}
		return only, SelectedByFlag, nil
	}

	for _, t := range r.targets {
		if strings.HasPrefix(trigger.Tag, t.Code+"-") {
			return []string{t.Code}, SelectedByTag, nil
		}
	}

	for _, t := range r.targets {
		if strings.Contains(trigger.CommitMessage, "["+t.Code+"]") ||
			strings.Contains(trigger.CommitMessage, skipToken(t.Code)) {
			return []string{t.Code}, SelectedByCommitMessage, nil
		}
	}

	all := make([]string, 0, len(r.targets))
	for _, t := range r.targets {
		all = append(all, t.Code)
	}
	return all, SelectedByDefault, nil
}

func (r *Resolver) known(code string) bool {
	for _, t := range r.targets {
		if t.Code == code {
			return true
		}
	}
	return false
}

func skipToken(code string) string {
	return "[" + code + "-" + constants.SkipTestsToken + "]"
}

// skipTests reports whether message asks to skip tests for code, either with
// "[<code>-skip-tests]" or globally with "[skip-tests]".
func skipTests(message, code string) bool {
	return strings.Contains(message, skipToken(code)) ||
		strings.Contains(message, "["+constants.SkipTestsToken+"]")
}
