package discovery

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"repofind/internal/eventbus"
)

// DefaultDebounce is how long the watcher waits for more filesystem events
// before requesting a scan.
const DefaultDebounce = 300 * time.Millisecond

// Watcher requests scans of directories created under the roots while the
// finder is open. It watches each root and its direct subdirectories.
type Watcher struct {
	fsw      *fsnotify.Watcher
	bus      eventbus.EventBus
	debounce time.Duration
	logger   *zap.Logger
}

// NewWatcher starts watching roots. A zero debounce uses DefaultDebounce.
func NewWatcher(bus eventbus.EventBus, roots []string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w := &Watcher{fsw: fsw, bus: bus, debounce: debounce, logger: logger}

	for _, root := range roots {
		if err := w.addTree(root); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// addTree watches dir and the directories directly inside it
func (w *Watcher) addTree(dir string) error {
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", dir, err)
	}
	for _, e := range entries {
		if !e.IsDir() || e.Name()[0] == '.' {
			continue
		}
		sub := filepath.Join(dir, e.Name())
		if err := w.fsw.Add(sub); err != nil {
			w.logger.Debug("cannot watch directory", zap.String("path", sub), zap.Error(err))
		}
	}
	return nil
}

// Run forwards created directories as scan requests until ctx is done
func (w *Watcher) Run(ctx context.Context) error {
	var (
		pending []string
		timer   *time.Timer
		fire    <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			dir, ok := w.created(ev)
			if !ok {
				continue
			}
			pending = append(pending, dir)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			paths := SortedUnique(pending)
			pending, fire = nil, nil
			w.logger.Debug("requesting scan of new directories", zap.Strings("paths", paths))
			w.bus.Publish(eventbus.ScanRequestedEvent{Paths: paths})

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.logger.Warn("file watcher overflowed", zap.Error(err))
				continue
			}
			return fmt.Errorf("file watcher failed: %w", err)
		}
	}
}

// created returns the directory to scan for ev, if ev created one
func (w *Watcher) created(ev fsnotify.Event) (string, bool) {
	if !ev.Has(fsnotify.Create) {
		return "", false
	}
	info, err := os.Stat(ev.Name)
	if err != nil || !info.IsDir() {
		return "", false
	}
	if filepath.Base(ev.Name) == ".git" {
		return filepath.Dir(ev.Name), true
	}
	if filepath.Base(ev.Name)[0] == '.' {
		return "", false
	}
	if err := w.fsw.Add(ev.Name); err != nil {
		w.logger.Debug("cannot watch directory", zap.String("path", ev.Name), zap.Error(err))
	}
	return ev.Name, true
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
