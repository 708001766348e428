package logic

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"repofind/internal/domain"
)

// MemoryRepositoryStore is an in-memory implementation of RepositoryStore
// that keeps repositories in the order they were added.
type MemoryRepositoryStore struct {
	mu        sync.RWMutex
	repos     map[string]*domain.Repository
	order     []string          // paths in insertion order
	byDisplay map[string]string // finder line -> path
}

// NewMemoryRepositoryStore creates a new memory-based repository store
func NewMemoryRepositoryStore() *MemoryRepositoryStore {
	return &MemoryRepositoryStore{
		repos:     make(map[string]*domain.Repository),
		byDisplay: make(map[string]string),
	}
}

func (s *MemoryRepositoryStore) GetRepository(path string) *domain.Repository {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repos[path]
}

// AddRepository adds repo or replaces the one at the same path, keeping
// its position. A repository whose finder line is already taken by another
// one gets a longer display name. It reports whether the finder lines
// changed.
func (s *MemoryRepositoryStore) AddRepository(repo *domain.Repository) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := keyOf(repo)
	r := *repo

	old, exists := s.repos[key]
	var oldLine string
	if exists {
		oldLine = old.Display()
		if s.byDisplay[oldLine] == key {
			delete(s.byDisplay, oldLine)
		}
	} else {
		s.order = append(s.order, key)
	}

	s.disambiguate(&r, key)
	line := r.Display()
	s.repos[key] = &r
	s.byDisplay[line] = key
	return !exists || oldLine != line
}

// disambiguate extends the display name of repo until its line is unused:
// first with parent directories from its path, then with a counter.
func (s *MemoryRepositoryStore) disambiguate(repo *domain.Repository, key string) {
	if s.free(repo.Display(), key) {
		return
	}

	base := repo.DisplayName
	if base == "" {
		base = repo.Name
	}
	if repo.Path != "" {
		parts := strings.Split(filepath.ToSlash(filepath.Clean(repo.Path)), "/")
		for n := strings.Count(base, "/") + 2; n <= len(parts); n++ {
			repo.DisplayName = strings.Join(parts[len(parts)-n:], "/")
			if s.free(repo.Display(), key) {
				return
			}
		}
	}
	for n := 2; ; n++ {
		repo.DisplayName = fmt.Sprintf("%s #%d", base, n)
		if s.free(repo.Display(), key) {
			return
		}
	}
}

func (s *MemoryRepositoryStore) free(line, key string) bool {
	owner, taken := s.byDisplay[line]
	return !taken || owner == key
}

// keyOf identifies a repository: its path, or its name when it has none
func keyOf(repo *domain.Repository) string {
	if repo.Path != "" {
		return repo.Path
	}
	return repo.Name
}

func (s *MemoryRepositoryStore) RemoveRepository(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	repo, ok := s.repos[path]
	if !ok {
		return
	}
	line := repo.Display()
	if s.byDisplay[line] == path {
		delete(s.byDisplay, line)
	}
	delete(s.repos, path)
	for i, p := range s.order {
		if p == path {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *MemoryRepositoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

func (s *MemoryRepositoryStore) Items() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]string, len(s.order))
	for i, path := range s.order {
		items[i] = s.repos[path].Display()
	}
	return items
}

func (s *MemoryRepositoryStore) Lookup(display string) (*domain.Repository, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path, ok := s.byDisplay[display]
	if !ok {
		return nil, false
	}
	return s.repos[path], true
}
