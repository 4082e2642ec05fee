// Package fs provides file-based storage for mirrored course pages.
package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fwojciec/ceibadl"
)

// Ensure Store implements ceibadl.FileStore at compile time.
var _ ceibadl.FileStore = (*Store)(nil)

// Store writes files below the local file system. Each file is written to
// a temporary sibling and renamed into place so a rerun never leaves a
// truncated page behind.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// EnsureDir creates dir and any missing parents.
func (s *Store) EnsureDir(dir string) error {
	if dir == "" {
		return ceibadl.Errorf(ceibadl.EINVALID, "directory required")
	}
	return os.MkdirAll(dir, 0755)
}

// WriteFile replaces dir/name with data. Parent directories are created.
func (s *Store) WriteFile(ctx context.Context, dir, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return ceibadl.Errorf(ceibadl.EINVALID, "invalid file name %q", name)
	}
	if err := s.EnsureDir(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, filepath.Join(dir, name)); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
