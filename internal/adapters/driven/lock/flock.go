// Package lock provides cross-process run locks backed by gofrs/flock.
package lock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Verify interface compliance at compile time.
var _ driven.RunLocker = (*FileLocker)(nil)

// FileLocker implements driven.RunLocker with advisory file locks.
type FileLocker struct{}

// NewFileLocker creates a file locker.
func NewFileLocker() *FileLocker {
	return &FileLocker{}
}

// TryLock acquires an exclusive lock on path without blocking, creating
// the parent directory if needed. It returns domain.ErrPipelineLocked when
// the lock is held elsewhere.
func (FileLocker) TryLock(path string) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s is held by another process", domain.ErrPipelineLocked, path)
	}
	return fl.Unlock, nil
}
