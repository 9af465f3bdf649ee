package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabkit/tabular/dataset"
)

func textContainer(payload string) *dataset.Container {
	return dataset.NewContainer(payload, map[string]any{"origin": "test"}, dataset.Text)
}

func TestStoreAndGet(t *testing.T) {
	s := New()
	s.Store("notes", textContainer("hello"))

	got, ok := s.Get("notes")
	require.True(t, ok)
	assert.Equal(t, "hello", got.Payload())

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestStoreOverwrites(t *testing.T) {
	s := New()
	s.Store("doc", textContainer("v1"))
	s.Store("doc", textContainer("v2"))

	got, ok := s.Get("doc")
	require.True(t, ok)
	assert.Equal(t, "v2", got.Payload())

	assert.Len(t, s.ListCategory(dataset.Text), 1)
}

func TestGetInCategory(t *testing.T) {
	s := New()
	s.Store("data", textContainer("text payload"))

	_, ok := s.GetInCategory("data", dataset.Tabular)
	assert.False(t, ok)

	got, ok := s.GetInCategory("data", dataset.Text)
	require.True(t, ok)
	assert.Equal(t, "text payload", got.Payload())
}

func TestSameNameAcrossCategories(t *testing.T) {
	s := New()
	s.Store("report", textContainer("words"))
	s.Store("report", dataset.NewContainer("pixels", nil, dataset.Image))

	text, ok := s.GetInCategory("report", dataset.Text)
	require.True(t, ok)
	assert.Equal(t, "words", text.Payload())

	image, ok := s.GetInCategory("report", dataset.Image)
	require.True(t, ok)
	assert.Equal(t, "pixels", image.Payload())
}

func TestListAll(t *testing.T) {
	s := New()
	s.Store("a", textContainer("1"))
	s.Store("b", textContainer("2"))
	s.Store("c", dataset.NewContainer("img", nil, dataset.Image))

	all := s.ListAll()
	assert.ElementsMatch(t, []string{"a", "b"}, all[dataset.Text])
	assert.ElementsMatch(t, []string{"c"}, all[dataset.Image])
	assert.Empty(t, all[dataset.Tabular])
}

func TestDelete(t *testing.T) {
	s := New()
	s.Store("doomed", textContainer("x"))

	assert.True(t, s.Delete("doomed"))
	_, ok := s.Get("doomed")
	assert.False(t, ok)

	assert.False(t, s.Delete("doomed"), "second delete finds nothing")
}

func TestMetadata(t *testing.T) {
	s := New()
	s.Store("doc", textContainer("x"))

	meta, ok := s.Metadata("doc")
	require.True(t, ok)
	assert.Equal(t, "test", meta["origin"])

	_, ok = s.Metadata("missing")
	assert.False(t, ok)
}

func TestUpdateMetadata(t *testing.T) {
	s := New()
	s.Store("doc", textContainer("x"))

	require.True(t, s.UpdateMetadata("doc", map[string]any{"origin": "edited", "extra": 1}))

	meta, ok := s.Metadata("doc")
	require.True(t, ok)
	assert.Equal(t, "edited", meta["origin"])
	assert.Equal(t, 1, meta["extra"])

	got, _ := s.Get("doc")
	assert.Equal(t, "x", got.Payload(), "payload survives a metadata update")

	assert.False(t, s.UpdateMetadata("missing", map[string]any{"k": "v"}))
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			name := string(rune('a' + n))
			s.Store(name, textContainer(name))
			s.Get(name)
			s.ListAll()
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.ListCategory(dataset.Text), 8)
}
