package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/triptime/internal/errs"
)

// Store persists and retrieves model artifacts by path.
type Store interface {
	Save(ctx context.Context, path string, a *Artifact) error
	Load(ctx context.Context, path string) (*Artifact, error)
}

// FileStore keeps artifacts on the local filesystem. Saves replace the
// artifact atomically (temp file + rename), so a concurrent load either sees
// the previous complete artifact or the new one, never a partial write.
type FileStore struct{}

// NewFileStore constructs a FileStore.
func NewFileStore() *FileStore {
	return &FileStore{}
}

// Save writes the artifact to path, creating parent directories as needed.
func (s *FileStore) Save(_ context.Context, path string, a *Artifact) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Model("save", fmt.Errorf("create artifact dir: %w", err))
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errs.Model("save", fmt.Errorf("create temp artifact: %w", err))
	}
	if err := json.NewEncoder(tmp).Encode(a); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return errs.Model("save", fmt.Errorf("encode artifact: %w", err))
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return errs.Model("save", fmt.Errorf("close temp artifact: %w", err))
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return errs.Model("save", fmt.Errorf("replace artifact: %w", err))
	}
	return nil
}

// Load reads the artifact at path.
func (s *FileStore) Load(_ context.Context, path string) (*Artifact, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errs.MissingResource(path, err)
		}
		return nil, errs.Model("load", err)
	}
	var a Artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, errs.Model("load", fmt.Errorf("decode artifact: %w", err))
	}
	return &a, nil
}
