package publish

import (
	"context"
	"fmt"
	"mime"
	"path"
	"path/filepath"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/shipyard/internal/config"
	"github.com/mrz1836/shipyard/internal/errors"
	"github.com/mrz1836/shipyard/internal/fsutil"
)

// ObjectPublisher publishes into an S3-compatible bucket under
// "<product>/<suffix>/".
type ObjectPublisher struct {
	store ObjectStore
	cfg   config.PublishConfig
}

// NewObjectPublisher creates an object store publisher.
func NewObjectPublisher(store ObjectStore, cfg config.PublishConfig) *ObjectPublisher {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &ObjectPublisher{store: store, cfg: cfg}
}

// KeyPrefix returns the object prefix a package is published under.
func KeyPrefix(pkg Package) string {
	return path.Join(pkg.Product, pkg.Suffix) + "/"
}

// Publish removes every object under the package prefix, uploads the package
// tree concurrently and, when configured, grants anonymous read access to the
// product prefix.
func (p *ObjectPublisher) Publish(ctx context.Context, pkg Package) (Result, error) {
	log := zerolog.Ctx(ctx)
	bucket := p.cfg.Bucket
	prefix := KeyPrefix(pkg)

	files, err := fsutil.Files(pkg.Dir)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", errors.ErrPublishFailed, err)
	}

	if err := p.store.EnsureBucket(ctx, bucket, p.cfg.Region); err != nil {
		return Result{}, fmt.Errorf("%w: %w", errors.ErrPublishFailed, err)
	}

	stale, err := p.store.ListKeys(ctx, bucket, prefix)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", errors.ErrPublishFailed, err)
	}
	if len(stale) > 0 {
		log.Debug().Int("objects", len(stale)).Str("prefix", prefix).Msg("removing previously published objects")
		if err := p.store.RemoveKeys(ctx, bucket, stale); err != nil {
			return Result{}, fmt.Errorf("%w: %w", errors.ErrPublishFailed, err)
		}
	}

	var uploaded atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)
	for _, f := range files {
		g.Go(func() error {
			key := prefix + f.Rel
			if err := p.store.PutFile(gctx, bucket, key, f.Path, contentType(f.Rel)); err != nil {
				return fmt.Errorf("upload %s: %w", key, err)
			}
			uploaded.Add(f.Size)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("%w: %w", errors.ErrPublishFailed, err)
	}

	if p.cfg.PublicRead {
		if err := p.grantPublicRead(ctx, bucket, pkg.Product+"/"); err != nil {
			return Result{}, fmt.Errorf("%w: %w", errors.ErrPublishFailed, err)
		}
	}

	res := Result{
		Location: "s3://" + bucket + "/" + prefix,
		Files:    len(files),
		Bytes:    uploaded.Load(),
	}
	log.Info().
		Str("location", res.Location).
		Int("files", res.Files).
		Str("size", humanize.Bytes(uint64(res.Bytes))). //nolint:gosec // sizes are non-negative
		Msg("package published")
	return res, nil
}

func (p *ObjectPublisher) grantPublicRead(ctx context.Context, bucket, prefix string) error {
	current, err := p.store.BucketPolicy(ctx, bucket)
	if err != nil {
		return fmt.Errorf("read bucket policy: %w", err)
	}
	updated, changed, err := withPublicRead(current, bucket, prefix)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	if err := p.store.SetBucketPolicy(ctx, bucket, updated); err != nil {
		return fmt.Errorf("set bucket policy: %w", err)
	}
	return nil
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

var _ Publisher = (*ObjectPublisher)(nil)
