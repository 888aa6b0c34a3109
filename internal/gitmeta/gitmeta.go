// Package gitmeta discovers release triggers from a git checkout: the tag
// pointing at HEAD, the HEAD commit message and its author.
package gitmeta

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/mrz1836/shipyard/internal/errors"
)

// Metadata is what a checkout says about the release being made.
type Metadata struct {
	Commit        string   `json:"commit"`
	CommitMessage string   `json:"commit_message"`
	Author        string   `json:"author"`
	Tag           string   `json:"tag,omitempty"`
	Tags          []string `json:"tags,omitempty"`
}

// Discover opens the repository containing workDir (searching parent
// directories) and reads HEAD. When several tags point at HEAD, Tag is the
// first in lexical order and Tags lists all of them.
func Discover(workDir string) (*Metadata, error) {
	repo, err := git.PlainOpenWithOptions(workDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if stderrors.Is(err, git.ErrRepositoryNotExists) {
			return nil, errors.Wrapf(errors.ErrNotGitRepo, "%s", workDir)
		}
		return nil, errors.Wrap(err, "failed to open repository")
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("%w: HEAD cannot be resolved: %w", errors.ErrNotGitRepo, err)
	}

	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, errors.Wrap(err, "failed to read HEAD commit")
	}

	tags, err := tagsAt(repo, head.Hash())
	if err != nil {
		return nil, err
	}

	meta := &Metadata{
		Commit:        head.Hash().String(),
		CommitMessage: strings.TrimRight(commit.Message, "\n"),
		Author:        formatAuthor(commit.Author),
		Tags:          tags,
	}
	if len(tags) > 0 {
		meta.Tag = tags[0]
	}
	return meta, nil
}

// tagsAt lists the short names of lightweight and annotated tags whose
// target commit is hash.
func tagsAt(repo *git.Repository, hash plumbing.Hash) ([]string, error) {
	iter, err := repo.Tags()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tags")
	}
	defer iter.Close()

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		target := ref.Hash()
		if tag, tagErr := repo.TagObject(target); tagErr == nil {
			commit, commitErr := tag.Commit()
			if commitErr != nil {
				// Tags of trees or blobs never mark a release.
				return nil //nolint:nilerr // non-commit tags are skipped
			}
			target = commit.Hash
		}
		if target == hash {
			names = append(names, ref.Name().Short())
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to walk tags")
	}

	sort.Strings(names)
	return names, nil
}

func formatAuthor(sig object.Signature) string {
	switch {
	case sig.Name != "" && sig.Email != "":
		return fmt.Sprintf("%s <%s>", sig.Name, sig.Email)
	case sig.Name != "":
		return sig.Name
	default:
		return sig.Email
	}
}
