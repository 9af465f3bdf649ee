package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/ianaindex"

	"github.com/tabkit/tabular/dataset"
)

// CSVLoader reads delimited text files fully into memory and produces a
// tabular container. The separator defaults to ',' and to '\t' for .tsv
// files; both can be overridden per call.
type CSVLoader struct {
	name       string
	extensions []string
	priority   int
}

// NewCSVLoader creates the built-in CSV/TSV loader.
func NewCSVLoader() *CSVLoader {
	return &CSVLoader{
		name:       "csv",
		extensions: []string{".csv", ".tsv", ".txt"},
		priority:   1,
	}
}

func (l *CSVLoader) Name() string               { return l.name }
func (l *CSVLoader) Extensions() []string       { return append([]string(nil), l.extensions...) }
func (l *CSVLoader) Category() dataset.Category { return dataset.Tabular }
func (l *CSVLoader) Priority() int              { return l.priority }

// Load parses the delimited file into a table container with base
// metadata (rows, columns, dtypes, implementation).
func (l *CSVLoader) Load(path string, opts ...Option) (*dataset.Container, error) {
	o := applyOptions(opts)

	ext := strings.ToLower(filepath.Ext(path))
	if !l.supports(ext) {
		return nil, fmt.Errorf("%w: %q (loader %q supports %s)",
			ErrUnsupportedExtension, ext, l.name, strings.Join(l.extensions, ", "))
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader, err := decodeReader(f, o.Encoding)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}

	cr := csv.NewReader(reader)
	cr.Comma = separatorFor(ext, o.Separator)
	cr.LazyQuotes = o.LazyQuotes

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrMalformed, path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s has no header row", ErrMalformed, path)
	}

	table, err := buildTable(records[0], records[1:], o.NAValues)
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

func (l *CSVLoader) supports(ext string) bool {
	for _, e := range l.extensions {
		if e == ext {
			return true
		}
	}
	return false
}

func separatorFor(ext string, override rune) rune {
	if override != 0 {
		return override
	}
	if ext == ".tsv" {
		return '\t'
	}
	return ','
}

// decodeReader wraps r with a character-set decoder when a non-UTF-8
// encoding is requested.
func decodeReader(r io.Reader, name string) (io.Reader, error) {
	if name == "" || strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return r, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unknown encoding %q", name)
	}
	return enc.NewDecoder().Reader(r), nil
}
