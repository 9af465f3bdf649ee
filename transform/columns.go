package transform

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tabkit/tabular/dataset"
)

// defaultDatetimeLayouts are tried in order when no explicit format is
// given.
var defaultDatetimeLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
}

var (
	defaultTrueValues  = []string{"true", "1", "yes", "y"}
	defaultFalseValues = []string{"false", "0", "no", "n"}
)

// ColumnTransformer converts, renames, fills and removes table columns
// according to a declarative per-column specification. Each column is
// processed independently in a fixed order: remove, pre-transform, NA
// sentinels, dtype conversion, fill, rename. Columns that end up missing
// in every row are dropped afterwards.
type ColumnTransformer struct {
	specs ColumnSpecs
}

// NewColumnTransformer validates the specification map and builds the
// transformer.
func NewColumnTransformer(specs ColumnSpecs) (*ColumnTransformer, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("column specification map cannot be empty")
	}
	if err := specs.Validate(); err != nil {
		return nil, err
	}
	return &ColumnTransformer{specs: specs}, nil
}

func (t *ColumnTransformer) Name() string { return "column_transformer" }

func (t *ColumnTransformer) Categories() []dataset.Category {
	return []dataset.Category{dataset.Tabular}
}

// CanTransform returns (false, nil) for non-tabular containers so a
// pipeline can skip this step, and an error when the container is tabular
// but the payload is not a table or specified columns are absent.
func (t *ColumnTransformer) CanTransform(c *dataset.Container) (bool, error) {
	if c.Category() != dataset.Tabular {
		return false, nil
	}
	table, ok := c.Table()
	if !ok {
		return false, fmt.Errorf("%w (category %q)", ErrNotTabular, c.Category())
	}

	var missing []string
	for _, name := range t.specs.sortedColumns() {
		if !table.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return false, fmt.Errorf("%w: %s", ErrColumnMismatch, strings.Join(missing, ", "))
	}
	return true, nil
}

// Transform applies the specification and derives a new container whose
// metadata gained a transformation_history entry and a refreshed dtype
// map.
func (t *ColumnTransformer) Transform(ctx context.Context, c *dataset.Container) (*dataset.Container, error) {
	ok, err := t.CanTransform(c)
	if err != nil {
		return nil, &StepError{Step: t.Name(), Err: err}
	}
	if !ok {
		return nil, &StepError{Step: t.Name(),
			Err: fmt.Errorf("cannot transform category %q", c.Category())}
	}

	source, _ := c.Table()
	table := source.Clone()
	before := source.Dtypes()

	for _, name := range t.specs.sortedColumns() {
		spec := t.specs[name]
		if spec.Remove {
			if err := table.DropColumn(name); err != nil {
				return nil, &StepError{Step: t.Name(), Column: name, Err: err}
			}
			continue
		}
		if err := t.transformColumn(table, name, spec); err != nil {
			return nil, err
		}
	}

	dropAllMissing(table)

	delta := c.AppendHistory(dataset.MetaTransformationHistory, map[string]any{
		"processor":     t.Name(),
		"specification": t.specs.echo(),
	})
	if conversions := dtypeChanges(before, table.Dtypes()); len(conversions) > 0 {
		for k, v := range c.AppendHistory(dataset.MetaTypeConversionHistory, map[string]any{
			"processor":   t.Name(),
			"conversions": conversions,
		}) {
			delta[k] = v
		}
	}
	delta[dataset.MetaDtypes] = table.Dtypes()
	delta[dataset.MetaColumns] = table.Columns()
	delta[dataset.MetaRows] = table.NumRows()

	return c.Derive(table, delta), nil
}

func (t *ColumnTransformer) transformColumn(table *dataset.Table, name string, spec ColumnSpec) error {
	col, _ := table.Column(name)

	if spec.Transform != nil {
		for i, cell := range col.Cells {
			if cell == nil {
				continue
			}
			col.Cells[i] = spec.Transform(cellString(cell))
		}
		col.Type = dataset.TypeString
	}

	if len(spec.NAValues) > 0 {
		na := make(map[string]struct{}, len(spec.NAValues))
		for _, v := range spec.NAValues {
			na[strings.ToLower(v)] = struct{}{}
		}
		for i, cell := range col.Cells {
			if cell == nil {
				continue
			}
			if _, missing := na[strings.ToLower(cellString(cell))]; missing {
				col.Cells[i] = nil
			}
		}
	}

	if err := convertColumn(col, spec); err != nil {
		return &StepError{Step: t.Name(), Column: name, Dtype: spec.Dtype, Err: err}
	}

	if spec.FillNA != nil {
		fillColumn(col, spec.FillNA)
	}

	if spec.Rename != "" && spec.Rename != name {
		if err := table.RenameColumn(name, spec.Rename); err != nil {
			return &StepError{Step: t.Name(), Column: name, Err: err}
		}
	}
	return nil
}

// convertColumn coerces every cell to the target dtype. With the default
// lenient policy a failed parse becomes missing; under "raise" the first
// failure aborts the column.
func convertColumn(col *dataset.Column, spec ColumnSpec) error {
	convert := converterFor(spec)
	for i, cell := range col.Cells {
		if cell == nil {
			continue
		}
		v, err := convert(cell)
		if err != nil {
			if spec.ConvertArgs.Raise() {
				return err
			}
			col.Cells[i] = nil
			continue
		}
		col.Cells[i] = v
	}
	col.Type = spec.Dtype
	return nil
}

func converterFor(spec ColumnSpec) func(any) (any, error) {
	switch spec.Dtype {
	case dataset.TypeInt32, dataset.TypeInt64:
		return convertInt
	case dataset.TypeFloat64:
		return convertFloat
	case dataset.TypeBool:
		return boolConverter(spec.ConvertArgs)
	case dataset.TypeDatetime:
		return datetimeConverter(spec.ConvertArgs)
	default: // string, category
		return func(cell any) (any, error) { return cellString(cell), nil }
	}
}

// convertInt parses integers leniently: integral float literals ("4.0")
// are accepted, fractional ones are failures.
func convertInt(cell any) (any, error) {
	switch v := cell.(type) {
	case int64:
		return v, nil
	case float64:
		if v == math.Trunc(v) {
			return int64(v), nil
		}
		return nil, fmt.Errorf("value %v is not integral", v)
	case bool:
		if v {
			return int64(1), nil
		}
		return int64(0), nil
	}
	s := strings.TrimSpace(cellString(cell))
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("cannot parse %q as integer", s)
	}
	if f != math.Trunc(f) {
		return nil, fmt.Errorf("value %q is not integral", s)
	}
	return int64(f), nil
}

func convertFloat(cell any) (any, error) {
	switch v := cell.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	}
	s := strings.TrimSpace(cellString(cell))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("cannot parse %q as float", s)
	}
	return f, nil
}

// boolConverter maps accepted literal strings case-insensitively. An
// unmapped literal becomes missing even under the raise policy; raise
// guards conversion machinery, not vocabulary gaps.
func boolConverter(args ConvertArgs) func(any) (any, error) {
	trueValues := args.TrueValues
	if len(trueValues) == 0 {
		trueValues = defaultTrueValues
	}
	falseValues := args.FalseValues
	if len(falseValues) == 0 {
		falseValues = defaultFalseValues
	}

	mapping := make(map[string]bool, len(trueValues)+len(falseValues))
	for _, v := range trueValues {
		mapping[strings.ToLower(v)] = true
	}
	for _, v := range falseValues {
		mapping[strings.ToLower(v)] = false
	}

	return func(cell any) (any, error) {
		if b, ok := cell.(bool); ok {
			return b, nil
		}
		s := strings.ToLower(strings.TrimSpace(cellString(cell)))
		b, ok := mapping[s]
		if !ok {
			return nil, nil // unmapped literal -> missing
		}
		return b, nil
	}
}

func datetimeConverter(args ConvertArgs) func(any) (any, error) {
	layouts := defaultDatetimeLayouts
	if args.Format != "" {
		layouts = []string{args.Format}
	}
	return func(cell any) (any, error) {
		if ts, ok := cell.(time.Time); ok {
			return ts, nil
		}
		s := strings.TrimSpace(cellString(cell))
		for _, layout := range layouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts, nil
			}
		}
		return nil, fmt.Errorf("cannot parse %q as datetime", s)
	}
}

// fillColumn applies the post-conversion fill: "ffill"/"bfill" carry the
// nearest observed value forward/backward, anything else is a literal
// fill value.
func fillColumn(col *dataset.Column, fill any) {
	switch fill {
	case "ffill":
		var last any
		for i, cell := range col.Cells {
			if cell != nil {
				last = cell
				continue
			}
			col.Cells[i] = last
		}
	case "bfill":
		var next any
		for i := len(col.Cells) - 1; i >= 0; i-- {
			if col.Cells[i] != nil {
				next = col.Cells[i]
				continue
			}
			col.Cells[i] = next
		}
	default:
		for i, cell := range col.Cells {
			if cell == nil {
				col.Cells[i] = fill
			}
		}
	}
}

// dtypeChanges diffs two dtype maps, recording "from -> to" per surviving
// column whose type changed.
func dtypeChanges(before, after map[string]string) map[string]any {
	changes := make(map[string]any)
	for name, to := range after {
		if from, ok := before[name]; ok && from != to {
			changes[name] = map[string]any{"from": from, "to": to}
		}
	}
	return changes
}

// dropAllMissing removes columns whose every cell is missing. Zero-row
// tables keep their columns.
func dropAllMissing(table *dataset.Table) {
	if table.NumRows() == 0 {
		return
	}
	var doomed []string
	for _, name := range table.Columns() {
		col, _ := table.Column(name)
		if col.AllMissing() {
			doomed = append(doomed, name)
		}
	}
	sort.Strings(doomed)
	for _, name := range doomed {
		_ = table.DropColumn(name)
	}
}

// cellString renders a cell for string-based processing.
func cellString(cell any) string {
	switch v := cell.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}
