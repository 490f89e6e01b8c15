package index

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	kberrors "github.com/promptops/kbindex/internal/errors"
)

// lockFile guards the index dir against concurrent builds from other
// processes. Readers never take it; the snapshot rename keeps reads
// consistent.
const lockFile = "build.lock"

// BuildLock serializes index builds across processes.
type BuildLock struct {
	fl *flock.Flock
}

// AcquireBuildLock takes the build lock for dir without blocking. A
// lock already held elsewhere yields ErrCodeSnapshotLocked, which is
// retryable by the caller.
func AcquireBuildLock(dir string) (*BuildLock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, kberrors.PersistenceError(
			fmt.Sprintf("cannot create index dir %s", dir), err)
	}

	fl := flock.New(filepath.Join(dir, lockFile))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, kberrors.PersistenceError("cannot acquire build lock", err)
	}
	if !locked {
		return nil, kberrors.New(kberrors.ErrCodeSnapshotLocked,
			fmt.Sprintf("another build holds the lock in %s", dir), nil)
	}
	return &BuildLock{fl: fl}, nil
}

// Release frees the lock. Safe to call once per acquisition.
func (l *BuildLock) Release() error {
	return l.fl.Unlock()
}
