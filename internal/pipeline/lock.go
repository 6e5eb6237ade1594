package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"subtrans/internal/logging"
	"subtrans/internal/services"
)

const lockFileName = ".subtrans.lock"

type workDirLock struct {
	path string
	lock *flock.Flock
}

// lockWorkDir creates dir and takes an exclusive lock on it. A second run
// pointed at the same directory is rejected instead of waiting.
func lockWorkDir(dir string) (*workDirLock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "work dir", fmt.Sprintf("create %s", dir), err)
	}
	path := filepath.Join(dir, lockFileName)
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "work dir", "acquire lock", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, "", "work dir",
			fmt.Sprintf("%s is in use by another run", dir), nil)
	}
	return &workDirLock{path: path, lock: lock}, nil
}

func (l *workDirLock) release(logger *slog.Logger) {
	if l == nil || l.lock == nil {
		return
	}
	if err := l.lock.Unlock(); err != nil {
		logger.Warn("failed to release work dir lock",
			logging.String("lock", l.path),
			logging.Error(err),
		)
	}
}
