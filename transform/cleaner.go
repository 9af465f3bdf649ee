package transform

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/tabkit/tabular/dataset"
)

var (
	specialChars = regexp.MustCompile(`[^\w\s.]`)
	extraSpaces  = regexp.MustCompile(`\s+`)
	numericForm  = regexp.MustCompile(`^\d*\.?\d+$`)
)

// TextCleaner lowercases and scrubs punctuation from text content. It
// handles TEXT containers (string payload) and string columns of tabular
// containers, either a selected subset or every string-typed column.
type TextCleaner struct {
	columns []string
}

// NewTextCleaner creates a cleaner. With no columns given, every
// string-typed column of a table is cleaned.
func NewTextCleaner(columns ...string) *TextCleaner {
	return &TextCleaner{columns: columns}
}

func (t *TextCleaner) Name() string { return "text_cleaner" }

func (t *TextCleaner) Categories() []dataset.Category {
	return []dataset.Category{dataset.Tabular, dataset.Text, dataset.Mixed}
}

// CanTransform reports whether there is anything to clean. Unlike the
// column transformer, an absent selected column is not an error here: the
// step simply has no work and is skipped.
func (t *TextCleaner) CanTransform(c *dataset.Container) (bool, error) {
	if !categoryIn(c.Category(), t.Categories()) {
		return false, nil
	}
	if _, ok := c.Payload().(string); ok {
		return true, nil
	}
	table, ok := c.Table()
	if !ok {
		return false, nil
	}
	return len(t.targetColumns(table)) > 0, nil
}

// Transform cleans the selected text and appends a cleaning_history
// entry.
func (t *TextCleaner) Transform(ctx context.Context, c *dataset.Container) (*dataset.Container, error) {
	ok, err := t.CanTransform(c)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &StepError{Step: t.Name(),
			Err: fmt.Errorf("nothing to clean in category %q", c.Category())}
	}

	if text, isText := c.Payload().(string); isText {
		delta := c.AppendHistory(dataset.MetaCleaningHistory, map[string]any{
			"processor":         t.Name(),
			"columns_processed": "all",
		})
		return c.Derive(cleanText(text), delta), nil
	}

	source, _ := c.Table()
	table := source.Clone()
	targets := t.targetColumns(table)
	for _, name := range targets {
		col, _ := table.Column(name)
		for i, cell := range col.Cells {
			if cell == nil {
				continue
			}
			col.Cells[i] = cleanText(cellString(cell))
		}
	}

	delta := c.AppendHistory(dataset.MetaCleaningHistory, map[string]any{
		"processor":         t.Name(),
		"columns_processed": targets,
	})
	return c.Derive(table, delta), nil
}

func (t *TextCleaner) targetColumns(table *dataset.Table) []string {
	if len(t.columns) > 0 {
		var present []string
		for _, name := range t.columns {
			if table.HasColumn(name) {
				present = append(present, name)
			}
		}
		return present
	}
	var targets []string
	for _, name := range table.Columns() {
		col, _ := table.Column(name)
		if col.Type == dataset.TypeString || col.Type == dataset.TypeCategory {
			targets = append(targets, name)
		}
	}
	return targets
}

// cleanText lowercases, strips special characters and collapses
// whitespace. Dots survive so decimal numbers keep their shape; a purely
// numeric result has its interior spaces removed.
func cleanText(text string) string {
	text = strings.ToLower(text)
	text = specialChars.ReplaceAllString(text, " ")
	text = extraSpaces.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	compact := strings.ReplaceAll(text, " ", "")
	if numericForm.MatchString(compact) {
		return compact
	}
	return text
}
