package transform

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tabkit/tabular/dataset"
)

const tracerName = "tabular.transform"

// Pipeline is a named, ordered list of transform steps executed as a fold
// over a container. Step references are frozen at creation time.
//
// Skip policy: a step whose CanTransform returns (false, nil) is skipped
// with a warning, uniformly across all steps. A step reporting a
// structural error (false, err) aborts the run.
type Pipeline struct {
	name   string
	steps  []Transformer
	logger *slog.Logger
	tracer trace.Tracer
}

func newPipeline(name string, steps []Transformer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		name:   name,
		steps:  steps,
		logger: logger,
		tracer: otel.Tracer(tracerName),
	}
}

// Name returns the pipeline name.
func (p *Pipeline) Name() string { return p.name }

// Steps returns the step names in execution order.
func (p *Pipeline) Steps() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name()
	}
	return names
}

// Execute folds the container through every step in order and returns the
// final container. The input container is never mutated.
func (p *Pipeline) Execute(ctx context.Context, c *dataset.Container) (*dataset.Container, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.execute",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("pipeline.name", p.name),
			attribute.Int("pipeline.steps", len(p.steps)),
			attribute.String("data.category", c.Category().String()),
		),
	)
	defer span.End()

	current := c
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, "cancelled")
			return nil, fmt.Errorf("pipeline %q cancelled before step %q: %w", p.name, step.Name(), err)
		}

		ok, err := step.CanTransform(current)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("pipeline %q: step %q: %w", p.name, step.Name(), err)
		}
		if !ok {
			p.logger.Warn("skipping incompatible step",
				slog.String("pipeline", p.name),
				slog.String("step", step.Name()),
				slog.String("category", current.Category().String()),
			)
			continue
		}

		next, err := p.executeStep(ctx, step, current)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("pipeline %q: step %q: %w", p.name, step.Name(), err)
		}
		current = next
	}

	span.SetStatus(codes.Ok, "")
	return current, nil
}

func (p *Pipeline) executeStep(ctx context.Context, step Transformer, c *dataset.Container) (*dataset.Container, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.step",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("pipeline.name", p.name),
			attribute.String("step.name", step.Name()),
		),
	)
	defer span.End()

	start := time.Now()
	next, err := step.Transform(ctx, c)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	p.logger.Debug("step completed",
		slog.String("pipeline", p.name),
		slog.String("step", step.Name()),
		slog.Duration("duration", time.Since(start)),
	)
	return next, nil
}
