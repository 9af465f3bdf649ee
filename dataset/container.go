package dataset

// Metadata keys written by loaders and transform steps. History keys hold
// append-only lists of change records.
const (
	MetaRows           = "rows"
	MetaColumns        = "columns"
	MetaDtypes         = "dtypes"
	MetaImplementation = "implementation"
	MetaName           = "name"
	MetaNotes          = "notes"

	MetaTransformationHistory = "transformation_history"
	MetaTypeConversionHistory = "type_conversion_history"
	MetaCleaningHistory       = "cleaning_history"
)

// Container bundles a payload with its metadata, category and optional
// source path. It is the unit of exchange between loaders, transforms,
// quality checks and analyzers.
//
// A container is immutable: the constructor deep-copies the payload and
// metadata, so later mutation of the caller's values cannot alter it.
// Transform steps produce a successor container via Derive instead of
// editing in place.
type Container struct {
	payload    any
	metadata   map[string]any
	category   Category
	sourcePath string
}

// ContainerOption configures optional container fields at construction.
type ContainerOption func(*Container)

// WithSourcePath records the origin of the data. Informational only.
func WithSourcePath(path string) ContainerOption {
	return func(c *Container) { c.sourcePath = path }
}

// NewContainer builds an immutable container around payload and metadata.
// Table payloads are cloned; metadata is deep-copied. A nil metadata map is
// replaced with an empty one.
func NewContainer(payload any, metadata map[string]any, category Category, opts ...ContainerOption) *Container {
	c := &Container{
		payload:  copyPayload(payload),
		metadata: copyMetadata(metadata),
		category: category,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Payload returns the contained data. Treat the returned value as
// read-only; transforms must clone a Table before modifying it.
func (c *Container) Payload() any { return c.payload }

// Table returns the payload as a *Table when the container holds one.
func (c *Container) Table() (*Table, bool) {
	t, ok := c.payload.(*Table)
	return t, ok
}

// Metadata returns a deep copy of the container's metadata.
func (c *Container) Metadata() map[string]any {
	return copyMetadata(c.metadata)
}

// MetadataValue returns a single metadata entry.
func (c *Container) MetadataValue(key string) (any, bool) {
	v, ok := c.metadata[key]
	return v, ok
}

// Category returns the container's data category.
func (c *Container) Category() Category { return c.category }

// SourcePath returns the optional origin path, empty when unknown.
func (c *Container) SourcePath() string { return c.sourcePath }

// Derive builds the successor container for a transform step: it carries
// the category and source path forward, copies the old metadata, overlays
// delta on top and wraps the new payload. The receiver is unchanged.
func (c *Container) Derive(payload any, delta map[string]any) *Container {
	metadata := copyMetadata(c.metadata)
	for k, v := range delta {
		metadata[k] = v
	}
	return &Container{
		payload:    copyPayload(payload),
		metadata:   metadata,
		category:   c.category,
		sourcePath: c.sourcePath,
	}
}

// AppendHistory returns a metadata delta that appends entry to the named
// history list in the container's metadata.
func (c *Container) AppendHistory(key string, entry map[string]any) map[string]any {
	var history []any
	if existing, ok := c.metadata[key].([]any); ok {
		history = append(history, existing...)
	}
	history = append(history, copyValue(entry))
	return map[string]any{key: history}
}

func copyPayload(payload any) any {
	if t, ok := payload.(*Table); ok {
		return t.Clone()
	}
	return copyValue(payload)
}

func copyMetadata(metadata map[string]any) map[string]any {
	out := make(map[string]any, len(metadata))
	for k, v := range metadata {
		out[k] = copyValue(v)
	}
	return out
}

// copyValue deep-copies the container-shaped values that appear in
// metadata: nested maps, slices and tables. Scalars are returned as-is.
func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = copyValue(item)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(val))
		for k, item := range val {
			out[k] = item
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = copyValue(item)
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	case []map[string]any:
		out := make([]map[string]any, len(val))
		for i, item := range val {
			out[i] = copyValue(item).(map[string]any)
		}
		return out
	case *Table:
		return val.Clone()
	default:
		return v
	}
}
