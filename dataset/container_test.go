package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableFixture(t *testing.T) *Table {
	t.Helper()
	table, err := NewTable(
		Column{Name: "value", Type: TypeInt64, Cells: []any{int64(1), int64(2)}},
	)
	require.NoError(t, err)
	return table
}

func TestContainerIsolatesPayloadFromCaller(t *testing.T) {
	table := tableFixture(t)
	c := NewContainer(table, nil, Tabular)

	// Mutating the original after construction must not reach the
	// container.
	col, _ := table.Column("value")
	col.Cells[0] = int64(99)

	held, ok := c.Table()
	require.True(t, ok)
	heldCol, _ := held.Column("value")
	assert.Equal(t, int64(1), heldCol.Cells[0])
}

func TestContainerIsolatesMetadata(t *testing.T) {
	metadata := map[string]any{
		"name":   "test",
		"nested": map[string]any{"key": "value"},
	}
	c := NewContainer("payload", metadata, Text)

	metadata["name"] = "changed"
	metadata["nested"].(map[string]any)["key"] = "changed"

	got := c.Metadata()
	assert.Equal(t, "test", got["name"])
	assert.Equal(t, "value", got["nested"].(map[string]any)["key"])

	// The returned copy must also be detached.
	got["name"] = "mutated"
	v, ok := c.MetadataValue("name")
	require.True(t, ok)
	assert.Equal(t, "test", v)
}

func TestContainerAccessors(t *testing.T) {
	c := NewContainer("hello", map[string]any{"k": 1}, Text, WithSourcePath("/tmp/a.txt"))

	assert.Equal(t, "hello", c.Payload())
	assert.Equal(t, Text, c.Category())
	assert.Equal(t, "/tmp/a.txt", c.SourcePath())

	_, ok := c.Table()
	assert.False(t, ok, "text payload is not a table")

	_, ok = c.MetadataValue("missing")
	assert.False(t, ok)
}

func TestContainerDerive(t *testing.T) {
	c := NewContainer(tableFixture(t), map[string]any{"rows": 2, "keep": "yes"}, Tabular,
		WithSourcePath("/data/in.csv"))

	next := c.Derive("new payload", map[string]any{"rows": 0})

	assert.Equal(t, "new payload", next.Payload())
	assert.Equal(t, Tabular, next.Category())
	assert.Equal(t, "/data/in.csv", next.SourcePath())

	meta := next.Metadata()
	assert.Equal(t, 0, meta["rows"], "delta overlays existing keys")
	assert.Equal(t, "yes", meta["keep"], "untouched keys carry forward")

	// The predecessor is unchanged.
	v, _ := c.MetadataValue("rows")
	assert.Equal(t, 2, v)
}

func TestContainerAppendHistory(t *testing.T) {
	c := NewContainer("x", nil, Text)

	delta := c.AppendHistory(MetaCleaningHistory, map[string]any{"processor": "first"})
	c2 := c.Derive("y", delta)

	delta2 := c2.AppendHistory(MetaCleaningHistory, map[string]any{"processor": "second"})
	c3 := c2.Derive("z", delta2)

	v, ok := c3.MetadataValue(MetaCleaningHistory)
	require.True(t, ok)
	history, ok := v.([]any)
	require.True(t, ok)
	require.Len(t, history, 2)
	assert.Equal(t, "first", history[0].(map[string]any)["processor"])
	assert.Equal(t, "second", history[1].(map[string]any)["processor"])

	// The intermediate container still has a single entry.
	v, _ = c2.MetadataValue(MetaCleaningHistory)
	assert.Len(t, v.([]any), 1)
}

func TestCategoryValid(t *testing.T) {
	assert.True(t, Tabular.Valid())
	assert.True(t, Mixed.Valid())
	assert.False(t, Category("bogus").Valid())
	assert.Equal(t, "tabular", Tabular.String())
}
