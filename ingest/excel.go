package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tabkit/tabular/dataset"
)

// ExcelLoader reads .xlsx workbooks. The first row of the chosen sheet is
// the header; short rows are padded with missing cells since the workbook
// format trims trailing empties.
type ExcelLoader struct {
	name       string
	extensions []string
	priority   int
}

// NewExcelLoader creates the built-in Excel loader.
func NewExcelLoader() *ExcelLoader {
	return &ExcelLoader{
		name:       "excel",
		extensions: []string{".xlsx"},
		priority:   1,
	}
}

func (l *ExcelLoader) Name() string               { return l.name }
func (l *ExcelLoader) Extensions() []string       { return append([]string(nil), l.extensions...) }
func (l *ExcelLoader) Category() dataset.Category { return dataset.Tabular }
func (l *ExcelLoader) Priority() int              { return l.priority }

// Load parses the workbook sheet into a table container.
func (l *ExcelLoader) Load(path string, opts ...Option) (*dataset.Container, error) {
	o := applyOptions(opts)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" {
		return nil, fmt.Errorf("%w: %q (loader %q supports .xlsx)",
			ErrUnsupportedExtension, ext, l.name)
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrMalformed, path, err)
	}
	defer f.Close()

	sheet := o.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: %s has no sheets", ErrMalformed, path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q of %s: %v", ErrMalformed, sheet, path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q of %s has no header row", ErrMalformed, sheet, path)
	}

	// Excel rows come back with trailing empty cells trimmed; treat the
	// blanks past a row's end as empty strings, not ragged input.
	table, err := buildTable(rows[0], rows[1:], o.NAValues)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return dataset.NewContainer(
		table,
		baseMetadata(table, l.name),
		dataset.Tabular,
		dataset.WithSourcePath(path),
	), nil
}
