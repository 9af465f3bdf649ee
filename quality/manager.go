package quality

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/tabkit/tabular/dataset"
)

// Manager is a registry of quality checks. A fresh manager carries the
// built-in completeness check.
type Manager struct {
	mu     sync.RWMutex
	checks map[string]Check
	order  []string
	logger *slog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) { m.logger = logger }
}

// WithoutDefaults skips registration of the built-in checks.
func WithoutDefaults() ManagerOption {
	return func(m *Manager) { m.checks = map[string]Check{}; m.order = nil }
}

// WithCompletenessThreshold overrides the pass threshold of the built-in
// completeness check. A no-op after WithoutDefaults.
func WithCompletenessThreshold(threshold float64) ManagerOption {
	return func(m *Manager) {
		c := NewCompletenessCheck(threshold)
		if _, ok := m.checks[c.Name()]; ok {
			m.checks[c.Name()] = c
		}
	}
}

// NewManager creates a manager with the built-in completeness check
// registered.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		checks: map[string]Check{},
		logger: slog.Default(),
	}
	defaults := NewCompletenessCheck(DefaultCompletenessThreshold)
	m.checks[defaults.Name()] = defaults
	m.order = []string{defaults.Name()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RegisterCheck adds a named check. Duplicate names fail.
func (m *Manager) RegisterCheck(c Check) error {
	if c == nil {
		return fmt.Errorf("cannot register nil check")
	}
	name := c.Name()
	if name == "" {
		return fmt.Errorf("check name cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.checks[name]; exists {
		return fmt.Errorf("%w: %q", ErrCheckExists, name)
	}
	m.checks[name] = c
	m.order = append(m.order, name)
	return nil
}

// Checks returns registered check names in registration order.
func (m *Manager) Checks() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.order))
	copy(names, m.order)
	return names
}

// ChecksByCategory returns registered checks in the given category.
func (m *Manager) ChecksByCategory(category CheckCategory) []Check {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Check
	for _, name := range m.order {
		if c := m.checks[name]; c.Category() == category {
			out = append(out, c)
		}
	}
	return out
}

// RunCheck runs the named check against the container and wraps the
// single result in a report. Unknown names and incompatible data fail.
func (m *Manager) RunCheck(c *dataset.Container, name string) (*Report, error) {
	m.mu.RLock()
	check, ok := m.checks[name]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCheckNotFound, name)
	}
	if !check.CanHandle(c) {
		return nil, fmt.Errorf("%w: check %q, category %q", ErrCannotHandle, name, c.Category())
	}

	result, err := check.Check(c)
	if err != nil {
		return nil, fmt.Errorf("check %q: %w", name, err)
	}

	return newReport(c, []Result{result}, map[string]any{
		"check_name":    name,
		"data_category": c.Category().String(),
	}), nil
}

// RunAllChecks runs every registered check whose CanHandle accepts the
// container. A check that errors or panics is logged and excluded from
// the report; the run continues (best-effort aggregation).
func (m *Manager) RunAllChecks(c *dataset.Container) *Report {
	m.mu.RLock()
	checks := make([]Check, 0, len(m.order))
	for _, name := range m.order {
		checks = append(checks, m.checks[name])
	}
	m.mu.RUnlock()

	var results []Result
	for _, check := range checks {
		if !check.CanHandle(c) {
			continue
		}
		result, err := runCheckSafe(check, c)
		if err != nil {
			m.logger.Error("quality check failed, excluding from report",
				slog.String("check", check.Name()),
				slog.String("error", err.Error()),
			)
			continue
		}
		results = append(results, result)
	}

	return newReport(c, results, map[string]any{
		"total_checks":  len(results),
		"data_category": c.Category().String(),
	})
}

// runCheckSafe converts a panicking check into an error so one misbehaving
// plugin cannot abort the aggregate run.
func runCheckSafe(check Check, c *dataset.Container) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("check panicked: %v", r)
		}
	}()
	return check.Check(c)
}
