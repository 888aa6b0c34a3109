// Package fsutil holds the file and directory-tree operations shared by the
// pipeline, the documentation builder and the publishers.
package fsutil

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mrz1836/shipyard/internal/errors"
)

// Permission bits applied by BroadenPermissions.
const (
	PublicDirPerm  fs.FileMode = 0o755
	PublicFilePerm fs.FileMode = 0o644
)

// File is a regular file inside a tree.
type File struct {
	// Rel is the slash-separated path relative to the tree root.
	Rel string
	// Path is the absolute path on disk.
	Path string
	Size int64
}

// CopyTree replaces dst with a copy of the directory tree at src.
func CopyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return errors.Wrapf(err, "stat %s", src)
	}
	if !info.IsDir() {
		return errors.Wrap(errors.ErrNotDirectory, src)
	}
	if err := os.RemoveAll(dst); err != nil {
		return errors.Wrapf(err, "remove %s", dst)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return errors.Wrapf(err, "create %s", filepath.Dir(dst))
	}
	if err := os.CopyFS(dst, os.DirFS(src)); err != nil {
		return errors.Wrapf(err, "copy %s to %s", src, dst)
	}
	return nil
}

// CopyFile copies the regular file at src to dst, creating dst's parent
// directories and replacing any existing dst.
func CopyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return errors.Wrapf(err, "create %s", filepath.Dir(dst))
	}
	in, err := os.Open(src) //#nosec G304 -- caller supplies paths under the configured output dir
	if err != nil {
		return errors.Wrapf(err, "open %s", src)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst) //#nosec G304 -- caller supplies paths under the configured output dir
	if err != nil {
		return errors.Wrapf(err, "create %s", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.Wrapf(err, "copy %s to %s", src, dst)
	}
	return out.Close()
}

// BroadenPermissions makes a tree world-readable: directories become 0755 and
// files gain at least 0644, keeping any execute bits they had.
func BroadenPermissions(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		mode := PublicDirPerm
		if !d.IsDir() {
			mode = info.Mode().Perm() | PublicFilePerm
		}
		if err := os.Chmod(path, mode); err != nil { //#nosec G302 -- published trees are public by design
			return errors.Wrapf(err, "chmod %s", path)
		}
		return nil
	})
}

// Files lists the regular files under root in lexical order.
func Files(root string) ([]File, error) {
	var files []File
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, File{Rel: filepath.ToSlash(rel), Path: path, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walk %s", root)
	}
	return files, nil
}
