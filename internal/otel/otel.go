package otel

import (
	"context"
	"sync"

	eventbus "github.com/wiregraph/wiregraph/internal/eventbus"
	events "github.com/wiregraph/wiregraph/internal/events"
	runid "github.com/wiregraph/wiregraph/internal/runid"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
)

// Setup configures OpenTelemetry and attaches eventbus subscribers.
// If endpoint is empty, no telemetry is configured.
func Setup(endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithInsecure()))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	sub := &subscriber{tracer: otel.Tracer("wiregraph")}
	sub.register()

	return tp.Shutdown, nil
}

type subscriber struct {
	tracer         trace.Tracer
	validationSpan sync.Map // rid -> trace.Span
	searchSpan     sync.Map // rid -> trace.Span
}

func (s *subscriber) register() {
	eventbus.Subscribe(func(ctx context.Context, e events.ValidationStart) {
		rid, _ := runid.FromContext(ctx)
		_, span := s.tracer.Start(ctx, "composition.validate")
		span.SetAttributes(
			attribute.Int("composition.subgraph_count", len(e.Subgraphs)),
			attribute.StringSlice("composition.subgraphs", e.Subgraphs),
		)
		s.validationSpan.Store(rid, span)
	})

	eventbus.Subscribe(func(ctx context.Context, e events.ValidationFinish) {
		rid, _ := runid.FromContext(ctx)
		v, ok := s.validationSpan.LoadAndDelete(rid)
		if !ok {
			return
		}
		span := v.(trace.Span)
		span.SetAttributes(
			attribute.Int("composition.error_count", e.Errors),
			attribute.Int("composition.hint_count", e.Hints),
		)
		span.End()
	})

	eventbus.Subscribe(func(ctx context.Context, e events.SatisfiabilityStart) {
		rid, _ := runid.FromContext(ctx)
		parent := ctx
		if v, ok := s.validationSpan.Load(rid); ok {
			parent = trace.ContextWithSpan(ctx, v.(trace.Span))
		}
		_, span := s.tracer.Start(parent, "satisfiability.search")
		span.SetAttributes(attribute.String("graphql.operation.type", e.RootKind))
		s.searchSpan.Store(rid, span)
	})

	eventbus.Subscribe(func(ctx context.Context, e events.SatisfiabilityFinish) {
		rid, _ := runid.FromContext(ctx)
		v, ok := s.searchSpan.LoadAndDelete(rid)
		if !ok {
			return
		}
		span := v.(trace.Span)
		span.SetAttributes(attribute.Int("satisfiability.finding_count", e.Findings))
		span.End()
	})
}
