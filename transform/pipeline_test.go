package transform

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabkit/tabular/dataset"
)

func textContainer(payload string) *dataset.Container {
	return dataset.NewContainer(payload, nil, dataset.Text)
}

func TestPipelineExecuteFold(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(tagStep("a")))
	require.NoError(t, r.Register(tagStep("b")))

	p, err := r.CreatePipeline("fold", []string{"a", "b"})
	require.NoError(t, err)

	in := textContainer("start")
	out, err := p.Execute(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "start|a|b", out.Payload(), "steps run in order over the running value")
	assert.Equal(t, "start", in.Payload(), "input container is untouched")
}

func TestPipelineSkipsIncompatibleStep(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(tagStep("a")))
	require.NoError(t, r.Register(&stubTransformer{
		name:       "picky",
		categories: []dataset.Category{dataset.Image},
		can:        false,
	}))
	require.NoError(t, r.Register(tagStep("b")))

	p, err := r.CreatePipeline("skippy", []string{"a", "picky", "b"})
	require.NoError(t, err)

	out, err := p.Execute(context.Background(), textContainer("x"))
	require.NoError(t, err)
	assert.Equal(t, "x|a|b", out.Payload(), "incompatible step is skipped, not fatal")
}

func TestPipelineAbortsOnStructuralError(t *testing.T) {
	structural := errors.New("payload is not a table")
	r := NewRegistry()
	require.NoError(t, r.Register(tagStep("a")))
	require.NoError(t, r.Register(&stubTransformer{
		name:       "strict",
		categories: []dataset.Category{dataset.Text},
		canErr:     structural,
	}))

	p, err := r.CreatePipeline("strict-run", []string{"a", "strict"})
	require.NoError(t, err)

	_, err = p.Execute(context.Background(), textContainer("x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, structural)
	assert.Contains(t, err.Error(), "strict", "names the failing step")
}

func TestPipelineAbortsOnTransformError(t *testing.T) {
	boom := errors.New("boom")
	r := NewRegistry()
	require.NoError(t, r.Register(&stubTransformer{
		name:       "failing",
		categories: []dataset.Category{dataset.Text},
		can:        true,
		transform: func(c *dataset.Container) (*dataset.Container, error) {
			return nil, boom
		},
	}))
	require.NoError(t, r.Register(tagStep("after")))

	p, err := r.CreatePipeline("fails", []string{"failing", "after"})
	require.NoError(t, err)

	_, err = p.Execute(context.Background(), textContainer("x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestPipelineHonorsCancellation(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(tagStep("a")))

	p, err := r.CreatePipeline("cancelled", []string{"a"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = p.Execute(ctx, textContainer("x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPipelineEmptyIsIdentity(t *testing.T) {
	r := NewRegistry()
	p, err := r.CreatePipeline("noop", nil)
	require.NoError(t, err)

	in := textContainer("unchanged")
	out, err := p.Execute(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "unchanged", out.Payload())
}
