package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/mrz1836/shipyard/internal/errors"
	"github.com/mrz1836/shipyard/internal/fsutil"
)

// DirPublisher publishes into a directory tree.
type DirPublisher struct {
	root string
}

// NewDirPublisher creates a publisher writing under root.
func NewDirPublisher(root string) *DirPublisher {
	return &DirPublisher{root: root}
}

// Publish replaces <root>/<basename(pkg.Dir)> with a copy of the package and
// broadens its permissions.
func (p *DirPublisher) Publish(ctx context.Context, pkg Package) (Result, error) {
	dst := filepath.Join(p.root, filepath.Base(pkg.Dir))

	if err := os.MkdirAll(p.root, fsutil.PublicDirPerm); err != nil { //#nosec G301 -- public root
		return Result{}, fmt.Errorf("%w: create root: %w", errors.ErrPublishFailed, err)
	}
	if err := fsutil.CopyTree(pkg.Dir, dst); err != nil {
		return Result{}, fmt.Errorf("%w: %w", errors.ErrPublishFailed, err)
	}
	if err := fsutil.BroadenPermissions(dst); err != nil {
		return Result{}, fmt.Errorf("%w: %w", errors.ErrPublishFailed, err)
	}

	files, err := fsutil.Files(dst)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", errors.ErrPublishFailed, err)
	}
	res := Result{Location: dst, Files: len(files)}
	for _, f := range files {
		res.Bytes += f.Size
	}

	zerolog.Ctx(ctx).Info().
		Str("location", dst).
		Int("files", res.Files).
		Str("size", humanize.Bytes(uint64(res.Bytes))). //nolint:gosec // sizes are non-negative
		Msg("package published")
	return res, nil
}

var _ Publisher = (*DirPublisher)(nil)
