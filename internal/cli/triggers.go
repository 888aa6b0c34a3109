package cli

import (
	"context"
	stderrors "errors"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/shipyard/internal/errors"
	"github.com/mrz1836/shipyard/internal/gitmeta"
	"github.com/mrz1836/shipyard/internal/resolve"
)

// TriggerFlags selects the release trigger shared by run and resolve.
type TriggerFlags struct {
	Tag           string
	CommitMessage string
	Author        string
	FromGit       bool
	Only          []string
}

// discoverFunc reads trigger metadata from a checkout. Tests replace it.
type discoverFunc func(workDir string) (*gitmeta.Metadata, error)

func addTriggerFlags(cmd *cobra.Command, flags *TriggerFlags) {
	cmd.Flags().StringVar(&flags.Tag, "tag", "", "release tag that triggered the run (e.g. p2g-v2.4.0)")
	cmd.Flags().StringVar(&flags.CommitMessage, "commit-message", "", "commit message of the triggering revision")
	cmd.Flags().StringVar(&flags.Author, "author", "", "author of the triggering revision")
	cmd.Flags().BoolVar(&flags.FromGit, "from-git", false, "read tag, commit message and author from the checkout")
	cmd.Flags().StringSliceVar(&flags.Only, "only", nil, "run only these target codes (repeatable)")
}

// buildTrigger combines explicit flags with metadata discovered from the
// checkout. Explicit values always win.
//
// With --from-git, discovery failures are errors. With no trigger flag at
// all, discovery is attempted and a checkout that is not a git repository
// yields an empty trigger, which selects every target.
func buildTrigger(ctx context.Context, cmd *cobra.Command, flags *TriggerFlags, workDir string, discover discoverFunc) (resolve.Trigger, error) {
	trigger := resolve.Trigger{
		Tag:           flags.Tag,
		CommitMessage: flags.CommitMessage,
		Author:        flags.Author,
	}

	explicit := cmd.Flags().Changed("tag") || cmd.Flags().Changed("commit-message") || cmd.Flags().Changed("author")
	if explicit && !flags.FromGit {
		return trigger, nil
	}

	meta, err := discover(workDir)
	if err != nil {
		if !flags.FromGit && stderrors.Is(err, errors.ErrNotGitRepo) {
			zerolog.Ctx(ctx).Debug().Err(err).Str("work_dir", workDir).Msg("no git metadata, running with an empty trigger")
			return trigger, nil
		}
		return trigger, errors.Wrap(err, "failed to read trigger from git")
	}

	zerolog.Ctx(ctx).Debug().
		Str("commit", meta.Commit).
		Str("tag", meta.Tag).
		Strs("tags", meta.Tags).
		Msg("trigger discovered from git")

	if !cmd.Flags().Changed("tag") {
		trigger.Tag = meta.Tag
	}
	if !cmd.Flags().Changed("commit-message") {
		trigger.CommitMessage = meta.CommitMessage
	}
	if !cmd.Flags().Changed("author") {
		trigger.Author = meta.Author
	}
	return trigger, nil
}
