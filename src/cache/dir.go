package cache

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// DirStorage keeps one file per entry under a directory.
type DirStorage struct {
	dir string
}

// NewDirStorage creates the directory if needed.
func NewDirStorage(dir string) (*DirStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &DirStorage{dir: dir}, nil
}

// Dir returns the backing directory.
func (s *DirStorage) Dir() string { return s.dir }

// path escapes key into a single file name. Distinct keys never share a file.
func (s *DirStorage) path(key string, kind Kind) string {
	return filepath.Join(s.dir, url.PathEscape(key)+kind.Ext())
}

func (s *DirStorage) Has(_ context.Context, key string, kind Kind) (bool, error) {
	info, err := os.Stat(s.path(key, kind))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

func (s *DirStorage) Read(_ context.Context, key string, kind Kind) ([]byte, error) {
	data, err := os.ReadFile(s.path(key, kind))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

// Write replaces the entry atomically so concurrent writers of the same key
// never leave a torn file.
func (s *DirStorage) Write(_ context.Context, key string, kind Kind, data []byte) error {
	path := s.path(key, kind)
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
