package dataset

import (
	"errors"
	"fmt"
	"time"
)

// Dtype tags carried by table columns. Cell values are stored as string,
// int64, float64, bool or time.Time; a nil cell is the canonical missing
// marker.
const (
	TypeString   = "string"
	TypeInt32    = "int32"
	TypeInt64    = "int64"
	TypeFloat64  = "float64"
	TypeBool     = "bool"
	TypeDatetime = "datetime"
	TypeCategory = "category"
)

var (
	ErrColumnNotFound = errors.New("column not found")
	ErrColumnExists   = errors.New("column already exists")
	ErrLengthMismatch = errors.New("column length mismatch")
)

// Column is a single named, typed column of cells. A nil cell marks a
// missing value.
type Column struct {
	Name  string
	Type  string
	Cells []any
}

// MissingCount returns the number of missing (nil) cells.
func (c *Column) MissingCount() int {
	n := 0
	for _, cell := range c.Cells {
		if cell == nil {
			n++
		}
	}
	return n
}

// AllMissing reports whether every cell in the column is missing.
func (c *Column) AllMissing() bool {
	return len(c.Cells) > 0 && c.MissingCount() == len(c.Cells)
}

func (c *Column) clone() Column {
	cells := make([]any, len(c.Cells))
	copy(cells, c.Cells)
	return Column{Name: c.Name, Type: c.Type, Cells: cells}
}

// Table is a column-major in-memory table. Column order is preserved and
// significant.
type Table struct {
	cols []Column
}

// NewTable builds a table from the given columns. Column names must be
// unique and every column must have the same number of cells.
func NewTable(columns ...Column) (*Table, error) {
	t := &Table{}
	for _, col := range columns {
		if err := t.addColumn(col); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Table) addColumn(col Column) error {
	if t.HasColumn(col.Name) {
		return fmt.Errorf("%w: %q", ErrColumnExists, col.Name)
	}
	if len(t.cols) > 0 && len(col.Cells) != t.NumRows() {
		return fmt.Errorf("%w: column %q has %d cells, table has %d rows",
			ErrLengthMismatch, col.Name, len(col.Cells), t.NumRows())
	}
	t.cols = append(t.cols, col.clone())
	return nil
}

// NumRows returns the number of rows in the table.
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return len(t.cols[0].Cells)
}

// NumCols returns the number of columns in the table.
func (t *Table) NumCols() int {
	return len(t.cols)
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.cols))
	for i, col := range t.cols {
		names[i] = col.Name
	}
	return names
}

// Dtypes returns a map from column name to dtype tag.
func (t *Table) Dtypes() map[string]string {
	dtypes := make(map[string]string, len(t.cols))
	for _, col := range t.cols {
		dtypes[col.Name] = col.Type
	}
	return dtypes
}

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	return t.columnIndex(name) >= 0
}

func (t *Table) columnIndex(name string) int {
	for i, col := range t.cols {
		if col.Name == name {
			return i
		}
	}
	return -1
}

// Column returns a pointer to the named column, or false if absent. The
// returned column aliases table storage; mutate it only on tables you own
// (typically a Clone).
func (t *Table) Column(name string) (*Column, bool) {
	i := t.columnIndex(name)
	if i < 0 {
		return nil, false
	}
	return &t.cols[i], true
}

// SetColumn replaces the named column in place, or appends it when absent.
func (t *Table) SetColumn(col Column) error {
	if len(t.cols) > 0 && len(col.Cells) != t.NumRows() {
		return fmt.Errorf("%w: column %q has %d cells, table has %d rows",
			ErrLengthMismatch, col.Name, len(col.Cells), t.NumRows())
	}
	if i := t.columnIndex(col.Name); i >= 0 {
		t.cols[i] = col.clone()
		return nil
	}
	t.cols = append(t.cols, col.clone())
	return nil
}

// RenameColumn relabels a column. Renaming onto an existing different
// column is rejected.
func (t *Table) RenameColumn(oldName, newName string) error {
	i := t.columnIndex(oldName)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrColumnNotFound, oldName)
	}
	if oldName == newName {
		return nil
	}
	if t.HasColumn(newName) {
		return fmt.Errorf("%w: %q", ErrColumnExists, newName)
	}
	t.cols[i].Name = newName
	return nil
}

// DropColumn removes the named column.
func (t *Table) DropColumn(name string) error {
	i := t.columnIndex(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	t.cols = append(t.cols[:i], t.cols[i+1:]...)
	return nil
}

// Equal reports whether two tables hold the same columns in the same
// order with the same names, dtypes and cell values. Missing markers
// only match missing markers; datetimes compare by instant.
func (t *Table) Equal(other *Table) bool {
	if other == nil || len(t.cols) != len(other.cols) {
		return false
	}
	for i, col := range t.cols {
		o := other.cols[i]
		if col.Name != o.Name || col.Type != o.Type || len(col.Cells) != len(o.Cells) {
			return false
		}
		for j, cell := range col.Cells {
			if !cellEqual(cell, o.Cells[j]) {
				return false
			}
		}
	}
	return true
}

func cellEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	return a == b
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	cols := make([]Column, len(t.cols))
	for i, col := range t.cols {
		cols[i] = col.clone()
	}
	return &Table{cols: cols}
}
