package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"repofind/internal/config"
	"repofind/internal/discovery"
	"repofind/internal/eventbus"
	"repofind/internal/finder"
	"repofind/internal/logic"
	"repofind/internal/manifest"
)

// pushInterval bounds how often producers replace the finder's items
const pushInterval = 50 * time.Millisecond

// source feeds the finder and turns the chosen line into program output
type source interface {
	Resolve(selection string) (string, error)
	Close()
}

type sourceOptions struct {
	cfg    *config.Config
	roots  []string
	stdin  bool
	handle *finder.Handle
	logger *zap.Logger
}

func newSource(ctx context.Context, opts sourceOptions) (source, error) {
	switch {
	case opts.stdin:
		return newLineSource(ctx, os.Stdin, opts.handle, opts.logger), nil
	case len(opts.roots) == 0 && opts.cfg.Manifest != "":
		return newManifestSource(opts.cfg.Manifest, opts.handle)
	default:
		roots := opts.roots
		if len(roots) == 0 {
			roots = opts.cfg.Roots
		}
		return newScanSource(ctx, roots, opts)
	}
}

// lineSource offers the lines of a reader
type lineSource struct {
	cancel context.CancelFunc
}

func newLineSource(ctx context.Context, r io.Reader, handle *finder.Handle, logger *zap.Logger) *lineSource {
	ctx, cancel := context.WithCancel(ctx)
	handle.SetStatus("Reading…")
	go readLines(ctx, r, handle, logger)
	return &lineSource{cancel: cancel}
}

// readLines pushes the non-empty lines of r to handle as they arrive
func readLines(ctx context.Context, r io.Reader, handle *finder.Handle, logger *zap.Logger) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	var lines []string
	last := time.Now()
	for sc.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if time.Since(last) >= pushInterval {
			handle.SetItems(lines)
			last = time.Now()
		}
	}
	handle.SetItems(lines)
	handle.SetStatus("")
	if err := sc.Err(); err != nil {
		logger.Warn("reading stdin failed", zap.Error(err))
		handle.SetError(fmt.Sprintf("reading input: %v", err))
	}
	logger.Debug("stdin read", zap.Int("lines", len(lines)))
}

func (s *lineSource) Resolve(selection string) (string, error) {
	return selection, nil
}

func (s *lineSource) Close() { s.cancel() }

// repoSource offers repositories held in a store
type repoSource struct {
	store *logic.MemoryRepositoryStore
	close func()
}

// Resolve returns the path of the selected repository, or its name when
// the manifest did not give a path.
func (s *repoSource) Resolve(selection string) (string, error) {
	repo, ok := s.store.Lookup(selection)
	if !ok {
		return "", fmt.Errorf("unknown repository %q", selection)
	}
	if repo.Path == "" {
		return repo.Name, nil
	}
	return repo.Path, nil
}

func (s *repoSource) Close() {
	if s.close != nil {
		s.close()
	}
}

func newManifestSource(path string, handle *finder.Handle) (*repoSource, error) {
	repos, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}
	store := logic.NewMemoryRepositoryStore()
	for i := range repos {
		store.AddRepository(&repos[i])
	}
	handle.SetItems(store.Items())
	handle.SetStatus(repoCount(store.Len()))
	return &repoSource{store: store}, nil
}

func newScanSource(ctx context.Context, roots []string, opts sourceOptions) (*repoSource, error) {
	absRoots := make([]string, 0, len(roots))
	for _, root := range roots {
		abs, err := filepath.Abs(expandHome(root))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
		}
		absRoots = append(absRoots, abs)
	}

	ctx, cancel := context.WithCancel(ctx)
	bus := eventbus.New(opts.logger)
	store := logic.NewMemoryRepositoryStore()
	items := &itemSync{handle: opts.handle, store: store}
	subscribe(bus, items)

	ds := discovery.NewDiscoveryService(bus, discovery.Options{
		Roots:    absRoots,
		MaxDepth: opts.cfg.MaxDepth,
		SkipDirs: opts.cfg.SkipDirs,
		Logger:   opts.logger,
	})

	var watcher *discovery.Watcher
	if opts.cfg.Watch {
		var err error
		watcher, err = discovery.NewWatcher(bus, absRoots, 0, opts.logger)
		if err != nil {
			cancel()
			bus.Close()
			return nil, err
		}
		go func() {
			if err := watcher.Run(ctx); err != nil {
				opts.logger.Warn("watcher stopped", zap.Error(err))
				opts.handle.SetError(err.Error())
			}
		}()
	}

	go items.run(ctx)
	if err := ds.StartScan(ctx, absRoots); err != nil {
		cancel()
		bus.Close()
		return nil, err
	}

	return &repoSource{
		store: store,
		close: func() {
			cancel()
			ds.StopScan()
			if watcher != nil {
				_ = watcher.Close()
			}
			bus.Close()
		},
	}, nil
}

// subscribe mirrors discovery events into the store and the finder
func subscribe(bus eventbus.EventBus, items *itemSync) {
	var scanning atomic.Bool

	bus.Subscribe(eventbus.EventScanStarted, func(eventbus.DomainEvent) {
		scanning.Store(true)
		items.handle.SetStatus("Scanning…")
	})
	bus.Subscribe(eventbus.EventRepoDiscovered, func(e eventbus.DomainEvent) {
		event, ok := e.(eventbus.RepoDiscoveredEvent)
		if !ok {
			return
		}
		repo := event.Repo
		if items.store.AddRepository(&repo) {
			items.markDirty()
		}
		if scanning.Load() {
			items.handle.SetStatus("Scanning… " + repoCount(items.store.Len()))
		}
	})
	bus.Subscribe(eventbus.EventScanCompleted, func(eventbus.DomainEvent) {
		scanning.Store(false)
		items.flush()
		items.handle.SetStatus(repoCount(items.store.Len()))
	})
	bus.Subscribe(eventbus.EventError, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.ErrorEvent); ok {
			items.handle.SetError(event.Error())
		}
	})
}

// itemSync copies the store into the finder at most once per pushInterval
type itemSync struct {
	handle *finder.Handle
	store  logic.RepositoryStore
	dirty  atomic.Bool
}

func (s *itemSync) markDirty() { s.dirty.Store(true) }

func (s *itemSync) flush() {
	s.dirty.Store(false)
	s.handle.SetItems(s.store.Items())
}

func (s *itemSync) run(ctx context.Context) {
	ticker := time.NewTicker(pushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.dirty.Swap(false) {
				s.handle.SetItems(s.store.Items())
			}
		}
	}
}

func repoCount(n int) string {
	if n == 1 {
		return "1 repository"
	}
	return fmt.Sprintf("%d repositories", n)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
