package transform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabkit/tabular/dataset"
)

func TestCleanText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello world"},
		{"  spaced   out  ", "spaced out"},
		{"Price: $12.50", "price 12.50"},
		{"1 234.5", "1234.5"},
		{"UPPER", "upper"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, cleanText(tc.in), "input %q", tc.in)
	}
}

func TestTextCleanerOnTextPayload(t *testing.T) {
	c := dataset.NewContainer("Hello, World!", nil, dataset.Text)

	cleaner := NewTextCleaner()
	ok, err := cleaner.CanTransform(c)
	require.NoError(t, err)
	require.True(t, ok)

	out, err := cleaner.Transform(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, "hello world", out.Payload())

	v, found := out.MetadataValue(dataset.MetaCleaningHistory)
	require.True(t, found)
	entry := v.([]any)[0].(map[string]any)
	assert.Equal(t, "text_cleaner", entry["processor"])
	assert.Equal(t, "all", entry["columns_processed"])
}

func TestTextCleanerOnTable(t *testing.T) {
	c := tabularContainer(t,
		dataset.Column{Name: "comment", Type: dataset.TypeString, Cells: []any{"Great Product!", nil}},
		dataset.Column{Name: "count", Type: dataset.TypeInt64, Cells: []any{int64(3), int64(4)}},
	)

	cleaner := NewTextCleaner()
	out, err := cleaner.Transform(context.Background(), c)
	require.NoError(t, err)

	table, _ := out.Table()
	comment, _ := table.Column("comment")
	assert.Equal(t, "great product", comment.Cells[0])
	assert.Nil(t, comment.Cells[1], "missing stays missing")

	count, _ := table.Column("count")
	assert.Equal(t, int64(3), count.Cells[0], "non-text columns are untouched")
}

func TestTextCleanerSelectedColumns(t *testing.T) {
	c := tabularContainer(t,
		dataset.Column{Name: "clean_me", Type: dataset.TypeString, Cells: []any{"A, B"}},
		dataset.Column{Name: "leave_me", Type: dataset.TypeString, Cells: []any{"C, D"}},
	)

	cleaner := NewTextCleaner("clean_me", "not_there")
	out, err := cleaner.Transform(context.Background(), c)
	require.NoError(t, err)

	table, _ := out.Table()
	cleaned, _ := table.Column("clean_me")
	assert.Equal(t, "a b", cleaned.Cells[0])
	untouched, _ := table.Column("leave_me")
	assert.Equal(t, "C, D", untouched.Cells[0])

	v, _ := out.MetadataValue(dataset.MetaCleaningHistory)
	entry := v.([]any)[0].(map[string]any)
	assert.Equal(t, []string{"clean_me"}, entry["columns_processed"],
		"only existing selected columns are recorded")
}

func TestTextCleanerNothingToClean(t *testing.T) {
	c := tabularContainer(t,
		dataset.Column{Name: "n", Type: dataset.TypeInt64, Cells: []any{int64(1)}},
	)

	cleaner := NewTextCleaner()
	ok, err := cleaner.CanTransform(c)
	require.NoError(t, err)
	assert.False(t, ok, "a table with no text columns is skippable")

	ok, err = cleaner.CanTransform(dataset.NewContainer("img", nil, dataset.Image))
	require.NoError(t, err)
	assert.False(t, ok, "unsupported category is skippable")
}
