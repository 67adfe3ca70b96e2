package index

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const lockTimeout = 5 * time.Second

// acquireDirLock takes the index directory lock, shared for readers and
// exclusive for writers, so a CLI rebuild and a running server never see a
// half-written vector/metadata pair.
func acquireDirLock(dir string, exclusive bool) (func(), error) {
	lockPath := filepath.Join(dir, lockFile)
	l := flock.New(lockPath)
	deadline := time.Now().Add(lockTimeout)
	for {
		var (
			locked bool
			err    error
		)
		if exclusive {
			locked, err = l.TryLock()
		} else {
			locked, err = l.TryRLock()
		}
		if err != nil {
			return func() {}, fmt.Errorf("cannot acquire index lock: %w", err)
		}
		if locked {
			return func() { _ = l.Unlock() }, nil
		}
		if time.Now().After(deadline) {
			return func() {}, fmt.Errorf("index is locked by another process (lock: %s)", lockPath)
		}
		time.Sleep(100 * time.Millisecond)
	}
}
