package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/storefront/backoffice/internal/domain/bulk"
	"k8s.io/utils/clock"
)

var _ bulk.UploadArchive = (*LocalArchive)(nil)

// LocalArchive keeps raw uploads under a directory on disk. It is the
// development fallback when no bucket is configured.
type LocalArchive struct {
	root   string
	prefix string
	clock  clock.PassiveClock
}

// NewLocalArchive creates an archive rooted at dir
func NewLocalArchive(dir, prefix string, c clock.PassiveClock) (*LocalArchive, error) {
	if dir == "" {
		return nil, errors.New("storage directory is required")
	}
	if c == nil {
		c = clock.RealClock{}
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalArchive{root: dir, prefix: prefix, clock: c}, nil
}

// Put writes the file and returns its key relative to the root
func (a *LocalArchive) Put(ctx context.Context, importID uuid.UUID, filename, _ string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := ObjectKey(a.prefix, a.clock.Now(), importID, filename)
	full := a.path(key)
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o640); err != nil {
		return "", fmt.Errorf("failed to write archive file: %w", err)
	}
	return key, nil
}

// Delete removes the file stored under key
func (a *LocalArchive) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(a.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete archive file: %w", err)
	}
	return nil
}

func (a *LocalArchive) path(key string) string {
	return filepath.Join(a.root, filepath.FromSlash(key))
}
