package packs

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes a pack overlay directory and invokes a callback when a
// pack definition changes. It never touches a Registry itself: the hosting
// process reacts by building a fresh Registry and swapping it atomically.
// Editor save storms are debounced into a single callback.
type Watcher struct {
	dir      string
	onChange func()
	logger   *slog.Logger
	debounce time.Duration
}

// NewWatcher creates a watcher for dir. onChange runs after each settled
// burst of file events.
func NewWatcher(dir string, onChange func(), logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		dir:      dir,
		onChange: onChange,
		logger:   logger.With("component", "packs.watcher"),
		debounce: 500 * time.Millisecond,
	}
}

// Start begins watching until ctx is cancelled. It returns immediately;
// event handling runs in a background goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsWatcher.Add(w.dir); err != nil {
		fsWatcher.Close()
		return err
	}

	go func() {
		defer fsWatcher.Close()

		var timer *time.Timer
		var timerCh <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-fsWatcher.Events:
				if !ok {
					return
				}
				if !isPackFile(event.Name) {
					continue
				}
				w.logger.Info("pack overlay changed", "op", event.Op.String(), "path", event.Name)
				if timer == nil {
					timer = time.NewTimer(w.debounce)
					timerCh = timer.C
				} else {
					timer.Reset(w.debounce)
				}

			case err, ok := <-fsWatcher.Errors:
				if !ok {
					return
				}
				w.logger.Error("pack watcher error", "error", err)

			case <-timerCh:
				timer = nil
				timerCh = nil
				w.onChange()
			}
		}
	}()

	return nil
}

func isPackFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
