// Package tabular ties the ingestion, transformation, quality and
// analysis layers together behind one facade. A Processor loads files
// through the loader registry, optionally runs a named pipeline over the
// result and keeps every produced container in an in-memory store.
package tabular

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/tabkit/tabular/dataset"
	"github.com/tabkit/tabular/eda"
	"github.com/tabkit/tabular/ingest"
	"github.com/tabkit/tabular/quality"
	"github.com/tabkit/tabular/store"
	"github.com/tabkit/tabular/transform"
)

// Processor is the top-level entry point for loading and processing
// tabular files.
type Processor struct {
	loaders    *ingest.Registry
	transforms *transform.Registry
	quality    *quality.Manager
	eda        *eda.Manager
	store      *store.Store
	logger     *slog.Logger

	completenessThreshold float64
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithLogger sets the processor's logger. It is also passed down to the
// transformation registry and the quality and analysis managers.
func WithLogger(logger *slog.Logger) ProcessorOption {
	return func(p *Processor) { p.logger = logger }
}

// WithLoaderRegistry replaces the default loader registry.
func WithLoaderRegistry(r *ingest.Registry) ProcessorOption {
	return func(p *Processor) { p.loaders = r }
}

// WithCompletenessThreshold sets the pass threshold of the built-in
// completeness quality check.
func WithCompletenessThreshold(threshold float64) ProcessorOption {
	return func(p *Processor) { p.completenessThreshold = threshold }
}

// NewProcessor creates a processor with the default CSV and Excel
// loaders, an empty transformation registry, the built-in quality checks
// and the built-in analyzers.
func NewProcessor(opts ...ProcessorOption) *Processor {
	p := &Processor{
		logger:                slog.Default(),
		completenessThreshold: quality.DefaultCompletenessThreshold,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.loaders == nil {
		p.loaders = ingest.NewDefaultRegistry()
	}
	p.transforms = transform.NewRegistry(transform.WithLogger(p.logger))
	p.quality = quality.NewManager(
		quality.WithLogger(p.logger),
		quality.WithCompletenessThreshold(p.completenessThreshold),
	)
	p.eda = eda.NewManager(eda.WithLogger(p.logger))
	p.store = store.New()
	return p
}

// ProcessOptions controls a single ProcessFile call.
type ProcessOptions struct {
	// Name stores the result under this name. Defaults to the file name
	// without its extension.
	Name string
	// Loader forces a specific loader by name instead of resolving by
	// extension.
	Loader string
	// Pipeline names a previously created pipeline to run over the
	// loaded container.
	Pipeline string
	// LoadOptions are passed through to the loader.
	LoadOptions []ingest.Option
}

// ProcessFile loads a file, optionally runs a pipeline over it and
// stores the final container. The container is returned for immediate
// use.
func (p *Processor) ProcessFile(ctx context.Context, path string, opts ProcessOptions) (*dataset.Container, error) {
	loader, err := p.loaders.Resolve(path, opts.Loader)
	if err != nil {
		return nil, err
	}

	p.logger.Info("loading file",
		slog.String("path", path),
		slog.String("loader", loader.Name()),
	)
	container, err := loader.Load(path, opts.LoadOptions...)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	if opts.Pipeline != "" {
		pipeline, err := p.transforms.Pipeline(opts.Pipeline)
		if err != nil {
			return nil, err
		}
		container, err = pipeline.Execute(ctx, container)
		if err != nil {
			return nil, fmt.Errorf("pipeline %q: %w", opts.Pipeline, err)
		}
	}

	name := opts.Name
	if name == "" {
		base := filepath.Base(path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	p.store.Store(name, container)
	return container, nil
}

// Data retrieves a stored container by name.
func (p *Processor) Data(name string) (*dataset.Container, bool) {
	return p.store.Get(name)
}

// Metadata retrieves the metadata of a stored container by name.
func (p *Processor) Metadata(name string) (map[string]any, bool) {
	return p.store.Metadata(name)
}

// ListData returns the names of all stored containers by category.
func (p *Processor) ListData() map[dataset.Category][]string {
	return p.store.ListAll()
}

// RegisterLoader adds a loader to the loader registry.
func (p *Processor) RegisterLoader(l ingest.Loader) error {
	return p.loaders.Register(l)
}

// ListLoaders returns the registered loader names.
func (p *Processor) ListLoaders() []string {
	return p.loaders.List()
}

// RegisterTransformer adds a transformer to the transformation registry.
func (p *Processor) RegisterTransformer(t transform.Transformer) error {
	return p.transforms.Register(t)
}

// CreatePipeline builds a named pipeline from registered transformer
// names.
func (p *Processor) CreatePipeline(name string, steps ...string) error {
	_, err := p.transforms.CreatePipeline(name, steps)
	return err
}

// ListPipelines returns the names of created pipelines.
func (p *Processor) ListPipelines() []string {
	return p.transforms.ListPipelines()
}

// RunQualityChecks runs every applicable quality check against the
// container.
func (p *Processor) RunQualityChecks(c *dataset.Container) *quality.Report {
	return p.quality.RunAllChecks(c)
}

// Analyze runs the registered analyzers against the container. The
// quality report may be nil.
func (p *Processor) Analyze(c *dataset.Container, qr *quality.Report, opts ...eda.AnalyzeOption) *eda.Report {
	return p.eda.Analyze(c, qr, opts...)
}

// QualityManager exposes the quality manager for check registration.
func (p *Processor) QualityManager() *quality.Manager { return p.quality }

// AnalysisManager exposes the analysis manager for analyzer
// registration.
func (p *Processor) AnalysisManager() *eda.Manager { return p.eda }
