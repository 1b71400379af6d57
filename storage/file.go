package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"newsdigest/types"
)

// FileStore keeps the archive in a local JSON file
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load returns an empty archive when the file does not exist yet.
func (f *FileStore) Load(_ context.Context) (types.Archive, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return types.Archive{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading archive %s: %w", f.path, err)
	}
	return Decode(data)
}

// Save writes to a temporary file in the same directory and renames it over the target,
// so readers see either the old or the new document.
func (f *FileStore) Save(_ context.Context, archive types.Archive) error {
	data, err := Encode(archive)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing archive: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod archive: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replacing archive %s: %w", f.path, err)
	}
	return nil
}
