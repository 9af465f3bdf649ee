package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tabkit/tabular/dataset"
)

// buildTable assembles a typed table from a header row and string records.
// Empty fields and NA literals become missing cells, then each column's
// dtype is inferred from its surviving values (int64 -> float64 -> bool ->
// string).
func buildTable(header []string, records [][]string, naValues []string) (*dataset.Table, error) {
	na := make(map[string]struct{}, len(naValues))
	for _, v := range naValues {
		na[v] = struct{}{}
	}

	columns := make([]dataset.Column, len(header))
	for i, name := range header {
		cells := make([]any, len(records))
		for j, record := range records {
			var raw string
			if i < len(record) {
				raw = record[i]
			}
			if raw == "" {
				continue
			}
			if _, missing := na[raw]; missing {
				continue
			}
			cells[j] = raw
		}
		columns[i] = inferColumn(dataset.Column{Name: name, Type: dataset.TypeString, Cells: cells})
	}

	table, err := dataset.NewTable(columns...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return table, nil
}

// inferColumn promotes a column of raw strings to the narrowest dtype that
// fits every non-missing value.
func inferColumn(col dataset.Column) dataset.Column {
	if tryInt64(&col) || tryFloat64(&col) || tryBool(&col) {
		return col
	}
	return col
}

func tryInt64(col *dataset.Column) bool {
	parsed := make([]any, len(col.Cells))
	seen := false
	for i, cell := range col.Cells {
		if cell == nil {
			continue
		}
		v, err := strconv.ParseInt(strings.TrimSpace(cell.(string)), 10, 64)
		if err != nil {
			return false
		}
		parsed[i] = v
		seen = true
	}
	if !seen {
		return false
	}
	col.Type = dataset.TypeInt64
	col.Cells = parsed
	return true
}

func tryFloat64(col *dataset.Column) bool {
	parsed := make([]any, len(col.Cells))
	seen := false
	for i, cell := range col.Cells {
		if cell == nil {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(cell.(string)), 64)
		if err != nil {
			return false
		}
		parsed[i] = v
		seen = true
	}
	if !seen {
		return false
	}
	col.Type = dataset.TypeFloat64
	col.Cells = parsed
	return true
}

func tryBool(col *dataset.Column) bool {
	parsed := make([]any, len(col.Cells))
	seen := false
	for i, cell := range col.Cells {
		if cell == nil {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(cell.(string))) {
		case "true":
			parsed[i] = true
		case "false":
			parsed[i] = false
		default:
			return false
		}
		seen = true
	}
	if !seen {
		return false
	}
	col.Type = dataset.TypeBool
	col.Cells = parsed
	return true
}

// baseMetadata computes the metadata every loader attaches to a freshly
// loaded table.
func baseMetadata(table *dataset.Table, implementation string) map[string]any {
	return map[string]any{
		dataset.MetaRows:           table.NumRows(),
		dataset.MetaColumns:        table.Columns(),
		dataset.MetaDtypes:         table.Dtypes(),
		dataset.MetaImplementation: implementation,
		"loaded_at":                time.Now().UTC().Format(time.RFC3339),
	}
}
