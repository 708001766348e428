package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"repofind/internal/domain"
	"repofind/internal/eventbus"
	"repofind/internal/git"
)

// ErrScanInProgress is returned by StartScan while another scan runs
var ErrScanInProgress = errors.New("scan already in progress")

// DiscoveryService finds git repositories in the filesystem
type DiscoveryService interface {
	StartScan(ctx context.Context, roots []string) error
	StopScan()
	// Wait blocks until the running scan has finished
	Wait()
}

// Options configures the discovery service
type Options struct {
	// Roots are the configured scan roots; display names are relative to them
	Roots    []string
	MaxDepth int
	SkipDirs []string
	Logger   *zap.Logger
}

// discoveryService is the concrete implementation
type discoveryService struct {
	bus    eventbus.EventBus
	opts   Options
	skip   map[string]bool
	logger *zap.Logger

	mu         sync.Mutex
	isScanning bool
	cancelFunc context.CancelFunc
	pending    []string // paths requested while a scan was running
	wg         sync.WaitGroup
}

// NewDiscoveryService creates a new discovery service. Scans requested on
// the bus while another scan runs are started once it finishes.
func NewDiscoveryService(bus eventbus.EventBus, opts Options) DiscoveryService {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ds := &discoveryService{
		bus:    bus,
		opts:   opts,
		skip:   make(map[string]bool, len(opts.SkipDirs)),
		logger: logger,
	}
	for _, d := range opts.SkipDirs {
		ds.skip[d] = true
	}

	bus.Subscribe(eventbus.EventScanRequested, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.ScanRequestedEvent); ok {
			ds.request(event.Paths)
		}
	})

	return ds
}

func (ds *discoveryService) request(paths []string) {
	err := ds.StartScan(context.Background(), paths)
	if errors.Is(err, ErrScanInProgress) {
		ds.mu.Lock()
		ds.pending = append(ds.pending, paths...)
		ds.mu.Unlock()
		return
	}
	if err != nil {
		ds.logger.Warn("requested scan failed", zap.Error(err))
	}
}

// StartScan starts scanning for git repositories in the background
func (ds *discoveryService) StartScan(ctx context.Context, roots []string) error {
	ds.mu.Lock()
	if ds.isScanning {
		ds.mu.Unlock()
		return ErrScanInProgress
	}
	ds.isScanning = true

	scanCtx, cancel := context.WithCancel(ctx)
	ds.cancelFunc = cancel
	ds.wg.Add(1)
	ds.mu.Unlock()

	ds.bus.Publish(eventbus.ScanStartedEvent{Paths: roots})

	go func() {
		defer ds.wg.Done()
		reposFound := 0
		defer func() {
			ds.mu.Lock()
			ds.isScanning = false
			ds.cancelFunc = nil
			next := ds.pending
			ds.pending = nil
			ds.mu.Unlock()
			cancel()

			ds.bus.Publish(eventbus.ScanCompletedEvent{ReposFound: reposFound})
			if len(next) > 0 && scanCtx.Err() == nil {
				go ds.request(next)
			}
		}()

		for _, root := range roots {
			if scanCtx.Err() != nil {
				return
			}
			reposFound += ds.scanDirectory(scanCtx, root)
		}
	}()

	return nil
}

// StopScan stops any ongoing scan and waits for it to finish
func (ds *discoveryService) StopScan() {
	ds.mu.Lock()
	if ds.cancelFunc != nil {
		ds.cancelFunc()
	}
	ds.pending = nil
	ds.mu.Unlock()

	ds.wg.Wait()
}

// Wait blocks until the running scan has finished
func (ds *discoveryService) Wait() {
	ds.wg.Wait()
}

// scanDirectory walks root for git repositories and returns how many it found
func (ds *discoveryService) scanDirectory(ctx context.Context, root string) int {
	reposFound := 0
	root = filepath.Clean(root)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			if path == root {
				return err
			}
			ds.logger.Debug("skipping unreadable path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !d.IsDir() {
			return nil
		}

		if path != root {
			// MaxDepth counts directory levels below root
			relPath, _ := filepath.Rel(root, path)
			if strings.Count(relPath, string(filepath.Separator)) >= ds.opts.MaxDepth {
				return filepath.SkipDir
			}
			name := d.Name()
			if ds.skip[name] || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
		}

		// .git is a file in worktrees and submodules
		if _, err := os.Lstat(filepath.Join(path, ".git")); err == nil {
			ds.publishRepo(path)
			reposFound++
			return filepath.SkipDir
		}
		return nil
	})

	if err != nil && !errors.Is(err, context.Canceled) {
		ds.logger.Warn("scan failed", zap.String("root", root), zap.Error(err))
		ds.bus.Publish(eventbus.ErrorEvent{
			Message: fmt.Sprintf("failed to scan %s", root),
			Err:     err,
		})
	}

	return reposFound
}

func (ds *discoveryService) publishRepo(repoPath string) {
	repo := domain.Repository{
		Path:        repoPath,
		Name:        filepath.Base(repoPath),
		DisplayName: ds.displayName(repoPath),
	}

	md, err := git.Inspect(repoPath)
	if err != nil {
		ds.logger.Debug("could not inspect repository", zap.String("path", repoPath), zap.Error(err))
	} else {
		repo.Description = md.Description
		repo.Fork = md.Fork
		repo.Source = md.Source
	}

	ds.bus.Publish(eventbus.RepoDiscoveredEvent{Repo: repo})
}

// displayName returns repoPath relative to the closest configured root,
// or its base name when no root contains it.
func (ds *discoveryService) displayName(repoPath string) string {
	best := ""
	for _, root := range ds.opts.Roots {
		rel, err := filepath.Rel(filepath.Clean(root), repoPath)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if best == "" || len(rel) < len(best) {
			best = rel
		}
	}
	if best == "" || best == "." {
		return filepath.Base(repoPath)
	}
	return filepath.ToSlash(best)
}

// SortedUnique returns paths sorted with duplicates removed
func SortedUnique(paths []string) []string {
	out := slices.Clone(paths)
	slices.Sort(out)
	return slices.Compact(out)
}
