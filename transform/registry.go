package transform

import (
	"fmt"
	"log/slog"
	"sync"
)

// Registry holds named transform steps and the pipelines composed from
// them. Step references are resolved and frozen when a pipeline is
// created, so later registry changes cannot leave a pipeline with dangling
// names.
type Registry struct {
	mu           sync.RWMutex
	transformers map[string]Transformer
	order        []string
	pipelines    map[string]*Pipeline
	pipeOrder    []string
	logger       *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger handed to pipelines created by this registry.
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) { r.logger = logger }
}

// NewRegistry creates an empty transform registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		transformers: make(map[string]Transformer),
		pipelines:    make(map[string]*Pipeline),
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a transform step keyed by its unique name. Duplicate
// registration fails.
func (r *Registry) Register(t Transformer) error {
	if t == nil {
		return fmt.Errorf("cannot register nil transformer")
	}
	name := t.Name()
	if name == "" {
		return fmt.Errorf("transformer name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.transformers[name]; exists {
		return fmt.Errorf("%w: %q", ErrTransformerExists, name)
	}
	r.transformers[name] = t
	r.order = append(r.order, name)
	return nil
}

// Get retrieves a registered step by name.
func (r *Registry) Get(name string) (Transformer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.transformers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTransformerNotFound, name)
	}
	return t, nil
}

// Has reports whether a step is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.transformers[name]
	return ok
}

// List returns step names in registration order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// CreatePipeline validates every referenced step name, freezes the
// resolved steps into a pipeline and stores it under name. Duplicate
// pipeline names fail; an unknown step name fails naming the first
// offender.
func (r *Registry) CreatePipeline(name string, steps []string) (*Pipeline, error) {
	if name == "" {
		return nil, fmt.Errorf("pipeline name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.pipelines[name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrPipelineExists, name)
	}

	resolved := make([]Transformer, len(steps))
	for i, step := range steps {
		t, ok := r.transformers[step]
		if !ok {
			return nil, fmt.Errorf("%w: %q in pipeline %q", ErrTransformerNotFound, step, name)
		}
		resolved[i] = t
	}

	p := newPipeline(name, resolved, r.logger)
	r.pipelines[name] = p
	r.pipeOrder = append(r.pipeOrder, name)
	return p, nil
}

// Pipeline retrieves a stored pipeline by name.
func (r *Registry) Pipeline(name string) (*Pipeline, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.pipelines[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPipelineNotFound, name)
	}
	return p, nil
}

// ListPipelines returns pipeline names in creation order.
func (r *Registry) ListPipelines() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.pipeOrder))
	copy(names, r.pipeOrder)
	return names
}
