// Package publish moves a finished package directory to its public location.
//
// Two sinks are supported: a directory on a local or mounted filesystem, and
// an S3-compatible object store. Both replace whatever was previously
// published for the same package and make the result publicly readable.
package publish

import (
	"context"

	"github.com/mrz1836/shipyard/internal/config"
	"github.com/mrz1836/shipyard/internal/errors"
)

// Package identifies a package directory to publish.
type Package struct {
	// Dir is the local package directory.
	Dir string
	// Product and Suffix name the package in the object store layout.
	Product string
	Suffix  string
}

// Result describes a completed publish.
type Result struct {
	// Location is the public path or s3:// URL.
	Location string
	Files    int
	Bytes    int64
}

// Publisher replaces the public copy of a package.
type Publisher interface {
	Publish(ctx context.Context, pkg Package) (Result, error)
}

// New returns the publisher selected by cfg.Publish.Backend.
func New(cfg config.PublishConfig) (Publisher, error) {
	switch cfg.Backend {
	case config.PublishBackendDir:
		return NewDirPublisher(cfg.Root), nil
	case config.PublishBackendS3:
		store, err := NewMinioStore(cfg)
		if err != nil {
			return nil, err
		}
		return NewObjectPublisher(store, cfg), nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidPublishBackend, "backend %q", cfg.Backend)
	}
}
