package eda

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/tabkit/tabular/dataset"
	"github.com/tabkit/tabular/quality"
)

// Manager is a registry of analyzers. A fresh manager carries the
// built-in univariate analyzer.
type Manager struct {
	mu        sync.RWMutex
	analyzers map[string]Analyzer
	order     []string
	logger    *slog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) { m.logger = logger }
}

// WithoutDefaults skips registration of the built-in analyzers.
func WithoutDefaults() ManagerOption {
	return func(m *Manager) { m.analyzers = map[string]Analyzer{}; m.order = nil }
}

// NewManager creates a manager with the built-in univariate analyzer
// registered.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		analyzers: map[string]Analyzer{},
		logger:    slog.Default(),
	}
	defaults := NewUnivariateAnalyzer()
	m.analyzers[defaults.Name()] = defaults
	m.order = []string{defaults.Name()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RegisterAnalyzer adds an analyzer. Duplicate names fail.
func (m *Manager) RegisterAnalyzer(a Analyzer) error {
	if a == nil {
		return fmt.Errorf("cannot register nil analyzer")
	}
	name := a.Name()
	if name == "" {
		return fmt.Errorf("analyzer name cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.analyzers[name]; exists {
		return fmt.Errorf("%w: %q", ErrAnalyzerExists, name)
	}
	m.analyzers[name] = a
	m.order = append(m.order, name)
	return nil
}

// Analyzers returns registered analyzer names in registration order.
func (m *Manager) Analyzers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.order))
	copy(names, m.order)
	return names
}

// AnalyzeOption narrows which analyzers an Analyze call runs.
type AnalyzeOption func(*analyzeFilter)

type analyzeFilter struct {
	types []AnalysisType
	names []string
}

// WithTypes restricts the run to analyzers of the given analysis types.
func WithTypes(types ...AnalysisType) AnalyzeOption {
	return func(f *analyzeFilter) { f.types = append(f.types, types...) }
}

// WithNames restricts the run to the named analyzers.
func WithNames(names ...string) AnalyzeOption {
	return func(f *analyzeFilter) { f.names = append(f.names, names...) }
}

// Analyze runs every compatible registered analyzer against the
// container, honoring the optional type and name filters. Analyzers that
// error are logged and skipped; the remaining results still form a
// report. The quality report may be nil.
func (m *Manager) Analyze(c *dataset.Container, qr *quality.Report, opts ...AnalyzeOption) *Report {
	var filter analyzeFilter
	for _, opt := range opts {
		opt(&filter)
	}

	m.mu.RLock()
	var compatible []Analyzer
	for _, name := range m.order {
		a := m.analyzers[name]
		if a.CanAnalyze(c) && filter.matches(a) {
			compatible = append(compatible, a)
		}
	}
	m.mu.RUnlock()

	if len(compatible) == 0 {
		m.logger.Warn("no compatible analyzers for data",
			slog.String("category", c.Category().String()),
		)
		return newReport(c, qr, nil, map[string]any{
			"status": "no compatible analyzers found",
		})
	}

	var results []Result
	for _, a := range compatible {
		m.logger.Info("running analyzer", slog.String("analyzer", a.Name()))
		result, err := a.Analyze(c, qr)
		if err != nil {
			m.logger.Error("analyzer failed, excluding from report",
				slog.String("analyzer", a.Name()),
				slog.String("error", err.Error()),
			)
			continue
		}
		results = append(results, result)
	}

	return newReport(c, qr, results, map[string]any{
		"total_analyzers":     len(compatible),
		"successful_analyses": len(results),
	})
}

func (f *analyzeFilter) matches(a Analyzer) bool {
	if len(f.types) > 0 {
		found := false
		for _, t := range f.types {
			if a.Type() == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(f.names) > 0 {
		found := false
		for _, n := range f.names {
			if a.Name() == n {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
