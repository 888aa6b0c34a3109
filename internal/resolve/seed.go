package resolve

import (
	"context"
	"strings"
	"time"

	"github.com/mrz1836/shipyard/internal/constants"
	"github.com/mrz1836/shipyard/internal/errors"
	"github.com/mrz1836/shipyard/internal/status"
)

// Seed writes a definite value for every key later stages may overwrite, so
// the notifier sees a complete record even if the run is killed. Selected
// targets start FAILED (tests SKIPPED when skipped); unselected targets are
// SKIPPED throughout. Every publish flag starts FALSE.
func Seed(ctx context.Context, store status.Store, rc *RunContext) error {
	entries := []status.Entry{
		{Key: constants.KeyRunID, Value: rc.RunID},
		{Key: constants.KeyStartTime, Value: rc.StartTime.UTC().Format(time.RFC3339)},
		{Key: constants.KeyGitTag, Value: rc.Trigger.Tag},
		{Key: constants.KeyGitAuthor, Value: rc.Trigger.Author},
		{Key: constants.KeyCommitMessage, Value: rc.Trigger.CommitMessage},
		{Key: constants.KeyReleaseSuffix, Value: rc.Suffix},
		{Key: constants.KeyTargets, Value: strings.Join(rc.TargetCodes(), ",")},
		{Key: constants.KeyRunStatus, Value: constants.StatusFailed.String()},
	}

	for _, known := range rc.Known {
		stage := constants.StatusSkipped
		tests := constants.StatusSkipped
		if t, ok := rc.Target(known.Code); ok {
			stage = constants.StatusFailed
			if !t.SkipTests {
				tests = constants.StatusFailed
			}
		}
		entries = append(entries,
			status.Entry{Key: status.PackageKey(known.Code), Value: stage.String()},
			status.Entry{Key: status.TestsKey(known.Code), Value: tests.String()},
			status.Entry{Key: status.DocsKey(known.Code), Value: stage.String()},
			status.Entry{Key: status.PublishedKey(known.Code), Value: constants.PublishedFalse},
		)
	}

	for _, e := range entries {
		if err := store.Set(ctx, e.Key, e.Value); err != nil {
			return errors.Wrapf(err, "seed %s", e.Key)
		}
	}
	return nil
}
