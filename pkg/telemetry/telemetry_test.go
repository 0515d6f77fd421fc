package telemetry

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNew_Disabled(t *testing.T) {
	telem, err := New(Config{Enabled: false})
	require.NoError(t, err)
	assert.False(t, telem.IsEnabled())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, telem.Shutdown(ctx))
}

func TestNew_EnabledWithoutExporters(t *testing.T) {
	telem, err := New(Config{Enabled: true, ServiceName: "evalreport-test"})
	if err != nil && strings.Contains(err.Error(), "conflicting Schema URL") {
		t.Skipf("semconv schema mismatch: %v", err)
	}
	require.NoError(t, err)
	assert.True(t, telem.IsEnabled())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, telem.Shutdown(ctx))
}

func TestGetMetrics_RecordsWithoutPanic(t *testing.T) {
	m := GetMetrics()
	require.NotNil(t, m)
	assert.Same(t, m, GetMetrics())

	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.RecordExport(ctx, "html", "legacy", StatusSuccess, 0.01, 2048)
		m.RecordExport(ctx, "pdf", "multi", StatusFailure, 1.2, 0)
		m.RecordReportSaved(ctx, "multi")
		m.RecordReportsPurged(ctx, 3)
		m.RecordReportsPurged(ctx, 0)
	})
}

func TestMetrics_EmptyInstruments(t *testing.T) {
	m := &Metrics{}
	assert.NotPanics(t, func() {
		m.RecordExport(context.Background(), "html", "legacy", StatusSuccess, 0, 0)
		m.RecordReportSaved(context.Background(), "legacy")
		m.RecordReportsPurged(context.Background(), 1)
	})
}

func TestSpanHelpers(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := tp.Tracer(TracerName).Start(context.Background(), "export",
		WithExportAttributes("html", "legacy", "datos.xlsx"))
	SetSpanError(span, errors.New("render failed"))
	span.End()

	_, okSpan := tp.Tracer(TracerName).Start(context.Background(), "export-ok")
	SetSpanError(okSpan, nil)
	SetSpanOK(okSpan)
	okSpan.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), AttrExportFmt.String("html"))
	assert.Equal(t, codes.Ok, spans[1].Status().Code)
}
