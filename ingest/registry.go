package ingest

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tabkit/tabular/dataset"
)

// Registry holds loaders keyed by name and by the extensions they declare.
// When several loaders claim the same extension they are ordered by
// descending priority, name as tiebreak, so Resolve is deterministic.
//
// The registry is safe for concurrent reads; registration is expected to
// happen during an initialization phase.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Loader
	byExt  map[string][]Loader
	order  []string
}

// NewRegistry creates an empty loader registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Loader),
		byExt:  make(map[string][]Loader),
	}
}

// NewDefaultRegistry creates a registry with the built-in CSV and Excel
// loaders registered.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	// Built-ins carry distinct extensions; registration cannot fail.
	_ = r.Register(NewCSVLoader())
	_ = r.Register(NewExcelLoader())
	return r
}

// Register adds a loader under its name and every declared extension.
// Re-registering an existing name is a failure, not an overwrite.
func (r *Registry) Register(l Loader) error {
	if l == nil {
		return fmt.Errorf("cannot register nil loader")
	}
	name := l.Name()
	if name == "" {
		return fmt.Errorf("loader name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("%w: %q", ErrLoaderExists, name)
	}
	r.byName[name] = l
	r.order = append(r.order, name)

	for _, ext := range l.Extensions() {
		ext = strings.ToLower(ext)
		loaders := append(r.byExt[ext], l)
		sort.SliceStable(loaders, func(i, j int) bool {
			if loaders[i].Priority() != loaders[j].Priority() {
				return loaders[i].Priority() > loaders[j].Priority()
			}
			return loaders[i].Name() < loaders[j].Name()
		})
		r.byExt[ext] = loaders
	}
	return nil
}

// Resolve picks the loader for path. With preferred set, the loader with
// that exact name is returned or the lookup fails naming the registered
// alternatives. Otherwise the highest-priority loader for the path's
// extension wins.
func (r *Registry) Resolve(path, preferred string) (Loader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if preferred != "" {
		l, ok := r.byName[preferred]
		if !ok {
			available := make([]string, len(r.order))
			copy(available, r.order)
			sort.Strings(available)
			return nil, fmt.Errorf("%w: %q (available: %s)",
				ErrLoaderNotFound, preferred, strings.Join(available, ", "))
		}
		return l, nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	loaders := r.byExt[ext]
	if len(loaders) == 0 {
		return nil, fmt.Errorf("%w: %q (extension %q)", ErrNoLoader, path, ext)
	}
	return loaders[0], nil
}

// Load resolves a loader for path and invokes it.
func (r *Registry) Load(path, preferred string, opts ...Option) (*dataset.Container, error) {
	l, err := r.Resolve(path, preferred)
	if err != nil {
		return nil, err
	}
	return l.Load(path, opts...)
}

// List returns loader names in registration order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// LoadersForCategory returns loaders producing the given data category, in
// registration order.
func (r *Registry) LoadersForCategory(category dataset.Category) []Loader {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Loader
	for _, name := range r.order {
		if l := r.byName[name]; l.Category() == category {
			out = append(out, l)
		}
	}
	return out
}

// Variant describes one loader claiming a file's extension.
type Variant struct {
	Name     string
	Priority int
	Category dataset.Category
}

// Variants lists every loader registered for the path's extension, best
// first.
func (r *Registry) Variants(path string) []Variant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ext := strings.ToLower(filepath.Ext(path))
	loaders := r.byExt[ext]
	variants := make([]Variant, len(loaders))
	for i, l := range loaders {
		variants[i] = Variant{Name: l.Name(), Priority: l.Priority(), Category: l.Category()}
	}
	return variants
}
