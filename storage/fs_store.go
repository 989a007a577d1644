package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FSStore keeps one file per blob under a single directory.
type FSStore struct {
	dir string
}

func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create images directory: %w", err)
	}
	return &FSStore{dir: dir}, nil
}

func (s *FSStore) Store(ctx context.Context, name string, data []byte, contentType string) error {
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write image %s: %w", name, err)
	}
	return nil
}

func (s *FSStore) Retrieve(ctx context.Context, name string) ([]byte, string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("read image %s: %w", name, err)
	}
	return data, ContentTypeByExt(name), nil
}

func (s *FSStore) Remove(ctx context.Context, name string) error {
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove image %s: %w", name, err)
	}
	return nil
}
