package fixes

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watchDebounce batches the burst of events an editor save produces.
const watchDebounce = 100 * time.Millisecond

// Watch reloads the store whenever its file is written or replaced. It blocks
// until ctx is done. The parent directory is watched so that atomic
// rename-over saves are seen.
func (f *Fixer) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create pattern watcher: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(f.path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	f.log.Info("watching error patterns", zap.String("path", f.path))

	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != f.path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			timer.Reset(watchDebounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			f.log.Warn("pattern watcher error", zap.Error(err))

		case <-timer.C:
			if err := f.Reload(); err != nil {
				f.log.Warn("pattern reload failed, keeping previous set", zap.Error(err))
			}
		}
	}
}
