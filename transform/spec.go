package transform

import (
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

// ConvertArgs carries dtype-conversion options for one column.
type ConvertArgs struct {
	// Errors selects the per-value failure policy: "coerce" (default)
	// turns unparseable values into missing, "raise" aborts the transform
	// naming the column and dtype.
	Errors string `yaml:"errors" validate:"omitempty,oneof=coerce raise"`

	// Format is an explicit Go time layout for datetime targets.
	Format string `yaml:"format"`

	// TrueValues and FalseValues override the accepted boolean literals
	// (case-insensitive). Defaults: true/1/yes/y and false/0/no/n.
	TrueValues  []string `yaml:"true_values"`
	FalseValues []string `yaml:"false_values"`
}

// Raise reports whether the strict failure policy was requested.
func (a ConvertArgs) Raise() bool { return a.Errors == "raise" }

// ColumnSpec is the declarative per-column configuration driving the
// ColumnTransformer. Keys of a ColumnSpecs map name source columns.
type ColumnSpec struct {
	// Dtype is the conversion target. Required unless Remove is set.
	Dtype string `yaml:"dtype" validate:"omitempty,oneof=string int32 int64 float64 bool datetime category"`

	// ConvertArgs tunes the dtype conversion.
	ConvertArgs ConvertArgs `yaml:"convert_args"`

	// Transform is applied element-wise before conversion. Not
	// representable in spec files.
	Transform func(string) string `yaml:"-"`

	// NAValues lists literal strings replaced with the missing marker
	// before conversion (case-insensitive).
	NAValues []string `yaml:"na_values"`

	// FillNA fills missing values after conversion: a literal value, or
	// "ffill"/"bfill" for directional fill.
	FillNA any `yaml:"fillna"`

	// Rename relabels the column after conversion.
	Rename string `yaml:"rename"`

	// Remove drops the column; all other fields are ignored.
	Remove bool `yaml:"remove"`
}

// ColumnSpecs maps source column names to their specifications.
type ColumnSpecs map[string]ColumnSpec

var specValidator = newSpecValidator()

func newSpecValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		spec := sl.Current().Interface().(ColumnSpec)
		if !spec.Remove && spec.Dtype == "" {
			sl.ReportError(spec.Dtype, "Dtype", "dtype", "required", "")
		}
	}, ColumnSpec{})
	return v
}

// Validate checks every specification: a dtype is required unless the
// column is marked for removal, and dtype/errors values must be known.
func (s ColumnSpecs) Validate() error {
	for _, name := range s.sortedColumns() {
		if err := specValidator.Struct(s[name]); err != nil {
			return fmt.Errorf("column %q: invalid specification: %w", name, err)
		}
	}
	return nil
}

func (s ColumnSpecs) sortedColumns() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// echo renders the specification back into plain metadata values for the
// transformation history, so the applied configuration is auditable.
func (s ColumnSpecs) echo() map[string]any {
	out := make(map[string]any, len(s))
	for name, spec := range s {
		entry := map[string]any{}
		if spec.Dtype != "" {
			entry["dtype"] = spec.Dtype
		}
		if spec.ConvertArgs.Errors != "" {
			entry["errors"] = spec.ConvertArgs.Errors
		}
		if spec.ConvertArgs.Format != "" {
			entry["format"] = spec.ConvertArgs.Format
		}
		if len(spec.ConvertArgs.TrueValues) > 0 {
			entry["true_values"] = append([]string(nil), spec.ConvertArgs.TrueValues...)
		}
		if len(spec.ConvertArgs.FalseValues) > 0 {
			entry["false_values"] = append([]string(nil), spec.ConvertArgs.FalseValues...)
		}
		if spec.Transform != nil {
			entry["transform"] = "custom"
		}
		if len(spec.NAValues) > 0 {
			entry["na_values"] = append([]string(nil), spec.NAValues...)
		}
		if spec.FillNA != nil {
			entry["fillna"] = spec.FillNA
		}
		if spec.Rename != "" {
			entry["rename"] = spec.Rename
		}
		if spec.Remove {
			entry["remove"] = true
		}
		out[name] = entry
	}
	return out
}

// LoadColumnSpecs reads a ColumnSpecs map from a YAML file.
func LoadColumnSpecs(path string) (ColumnSpecs, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec file %s: %w", path, err)
	}
	var specs ColumnSpecs
	if err := yaml.Unmarshal(raw, &specs); err != nil {
		return nil, fmt.Errorf("parse spec file %s: %w", path, err)
	}
	if err := specs.Validate(); err != nil {
		return nil, fmt.Errorf("spec file %s: %w", path, err)
	}
	return specs, nil
}
