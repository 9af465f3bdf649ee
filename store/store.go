// Package store provides a small in-memory container store for ad-hoc
// retrieval across a session. Containers are kept by category and name;
// storing under an existing name replaces the previous container.
package store

import (
	"sync"

	"github.com/tabkit/tabular/dataset"
)

// Store maps (category, name) to containers. It is read-mostly and
// guarded by a single lock; there is no finer-grained concurrency control
// because there is no shared mutable hot state beyond the maps.
type Store struct {
	mu      sync.RWMutex
	storage map[dataset.Category]map[string]*dataset.Container
}

// New creates an empty store.
func New() *Store {
	storage := make(map[dataset.Category]map[string]*dataset.Container, len(dataset.Categories()))
	for _, category := range dataset.Categories() {
		storage[category] = make(map[string]*dataset.Container)
	}
	return &Store{storage: storage}
}

// Store saves the container under name in its own category, replacing any
// previous entry with that name.
func (s *Store) Store(name string, c *dataset.Container) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storage[c.Category()][name] = c
}

// Get retrieves a container by name, searching every category in the
// fixed category order.
func (s *Store) Get(name string) (*dataset.Container, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, category := range dataset.Categories() {
		if c, ok := s.storage[category][name]; ok {
			return c, true
		}
	}
	return nil, false
}

// GetInCategory retrieves a container by name within one category.
func (s *Store) GetInCategory(name string, category dataset.Category) (*dataset.Container, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.storage[category][name]
	return c, ok
}

// ListCategory returns the stored names in one category.
func (s *Store) ListCategory(category dataset.Category) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.storage[category]))
	for name := range s.storage[category] {
		names = append(names, name)
	}
	return names
}

// ListAll returns every stored name grouped by category.
func (s *Store) ListAll() map[dataset.Category][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[dataset.Category][]string, len(s.storage))
	for category, entries := range s.storage {
		names := make([]string, 0, len(entries))
		for name := range entries {
			names = append(names, name)
		}
		out[category] = names
	}
	return out
}

// Delete removes a container by name, searching all categories when none
// is given. It reports whether anything was deleted.
func (s *Store) Delete(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, category := range dataset.Categories() {
		if _, ok := s.storage[category][name]; ok {
			delete(s.storage[category], name)
			return true
		}
	}
	return false
}

// Metadata returns the metadata of the named container.
func (s *Store) Metadata(name string) (map[string]any, bool) {
	c, ok := s.Get(name)
	if !ok {
		return nil, false
	}
	return c.Metadata(), true
}

// UpdateMetadata overlays delta onto the named container's metadata.
// Containers are immutable, so the stored entry is replaced with a
// derived successor. It reports whether the container was found.
func (s *Store) UpdateMetadata(name string, delta map[string]any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, category := range dataset.Categories() {
		if c, ok := s.storage[category][name]; ok {
			s.storage[category][name] = c.Derive(c.Payload(), delta)
			return true
		}
	}
	return false
}
