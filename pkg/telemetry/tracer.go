package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope for application spans
const TracerName = "github.com/evalplatform/evalreport"

// Span attribute keys
var (
	AttrReportID    = attribute.Key("report.id")
	AttrReportKind  = attribute.Key("report.kind")
	AttrSourceFile  = attribute.Key("report.source_file")
	AttrExportFmt   = attribute.Key("export.format")
	AttrExportBytes = attribute.Key("export.bytes")
	AttrQuestions   = attribute.Key("report.questions")
	AttrGroups      = attribute.Key("report.groups")
)

// Tracer returns the application tracer
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// StartSpan starts a span; the caller must End it
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, opts...)
}

// SetSpanError records err on the span and marks it failed
func SetSpanError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanOK marks the span successful
func SetSpanOK(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// WithExportAttributes returns span options describing an export
func WithExportAttributes(format, kind, sourceFile string) trace.SpanStartOption {
	return trace.WithAttributes(
		AttrExportFmt.String(format),
		AttrReportKind.String(kind),
		AttrSourceFile.String(sourceFile),
	)
}
