package ingest

import (
	"github.com/tabkit/tabular/dataset"
)

// Loader turns a file path into a data container. Implementations declare
// the extensions they support and a priority used to break ties when
// several loaders claim the same extension.
type Loader interface {
	// Name is the unique registry key for this loader.
	Name() string

	// Extensions lists the file extensions this loader handles, with the
	// leading dot, lower case (".csv").
	Extensions() []string

	// Category is the data category of containers this loader produces.
	Category() dataset.Category

	// Priority ranks loaders sharing an extension; higher wins.
	Priority() int

	// Load reads the file and produces a container. It must fail with
	// ErrFileNotFound when the file does not exist and with
	// ErrUnsupportedExtension when asked to handle a foreign extension.
	Load(path string, opts ...Option) (*dataset.Container, error)
}

// Options carries per-call load settings. Not every loader honors every
// field.
type Options struct {
	// Separator is the field separator for delimited text. Zero means the
	// loader default (',' for .csv, '\t' for .tsv).
	Separator rune

	// Encoding is an IANA character-set name ("utf-8", "latin1", ...).
	// Empty means UTF-8.
	Encoding string

	// NAValues lists literal strings treated as missing on load.
	NAValues []string

	// LazyQuotes relaxes CSV quote handling.
	LazyQuotes bool

	// Sheet selects a worksheet by name for workbook formats. Empty means
	// the first sheet.
	Sheet string
}

// Option mutates load Options.
type Option func(*Options)

func WithSeparator(sep rune) Option {
	return func(o *Options) { o.Separator = sep }
}

func WithEncoding(name string) Option {
	return func(o *Options) { o.Encoding = name }
}

func WithNAValues(values ...string) Option {
	return func(o *Options) { o.NAValues = append(o.NAValues, values...) }
}

func WithLazyQuotes() Option {
	return func(o *Options) { o.LazyQuotes = true }
}

func WithSheet(name string) Option {
	return func(o *Options) { o.Sheet = name }
}

func applyOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
