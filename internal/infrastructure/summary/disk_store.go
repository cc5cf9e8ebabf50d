package summary

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/LavaJover/shvark-country-service/internal/domain"
)

// DiskStore keeps the summary image in one file, replaced atomically.
type DiskStore struct {
	path string
}

func NewDiskStore(path string) *DiskStore {
	return &DiskStore{path: path}
}

func (s *DiskStore) Save(ctx context.Context, image []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create summary directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".summary-*.png")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(image); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write summary image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close summary image: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to chmod summary image: %w", err)
	}

	return os.Rename(tmpName, s.path)
}

func (s *DiskStore) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrSummaryNotFound
		}
		return nil, fmt.Errorf("failed to read summary image: %w", err)
	}
	return data, nil
}
