package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Config controls span emission.
type Config struct {
	Enabled    bool   `yaml:"enabled"`
	TracerName string `yaml:"tracer_name"`
}

// DefaultConfig returns tracing defaults. Spans are only recorded when a
// tracer provider is supplied.
func DefaultConfig() Config {
	return Config{Enabled: true, TracerName: "github.com/xraph/ioc"}
}

// Attribute keys.
const (
	AttrContract  = attribute.Key("ioc.contract")
	AttrKey       = attribute.Key("ioc.key")
	AttrAdapterID = attribute.Key("ioc.adapter_id")
	AttrCount     = attribute.Key("ioc.count")
)

// Tracer wraps an otel tracer with the adapter's span conventions.
type Tracer struct {
	tracer    oteltrace.Tracer
	adapterID string
}

// New builds a Tracer. A nil provider or disabled config yields a noop tracer.
func New(config Config, provider oteltrace.TracerProvider, adapterID string) *Tracer {
	if !config.Enabled || provider == nil {
		provider = noop.NewTracerProvider()
	}
	name := config.TracerName
	if name == "" {
		name = DefaultConfig().TracerName
	}
	return &Tracer{
		tracer:    provider.Tracer(name),
		adapterID: adapterID,
	}
}

// Span is a started span.
type Span struct {
	span oteltrace.Span
}

// Start opens a span for one adapter operation on a contract.
func (t *Tracer) Start(ctx context.Context, operation, contract string, attrs ...attribute.KeyValue) (context.Context, *Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	attrs = append(attrs, AttrContract.String(contract), AttrAdapterID.String(t.adapterID))
	ctx, span := t.tracer.Start(ctx, "ioc."+operation, oteltrace.WithAttributes(attrs...))
	return ctx, &Span{span: span}
}

// SetCount records how many instances an operation produced.
func (s *Span) SetCount(n int) {
	s.span.SetAttributes(AttrCount.Int(n))
}

// End closes the span, marking it failed when err is non-nil.
func (s *Span) End(err error) {
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	} else {
		s.span.SetStatus(codes.Ok, "")
	}
	s.span.End()
}
