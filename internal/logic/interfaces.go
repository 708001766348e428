package logic

import "repofind/internal/domain"

// RepositoryStore provides access to repository data
type RepositoryStore interface {
	GetRepository(path string) *domain.Repository
	AddRepository(repo *domain.Repository) bool
	RemoveRepository(path string)
	Len() int
	// Items returns the finder lines of all repositories in insertion order
	Items() []string
	// Lookup maps a finder line back to its repository
	Lookup(display string) (*domain.Repository, bool)
}
