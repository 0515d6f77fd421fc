package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/evalplatform/evalreport/pkg/logger"
)

// MeterName is the instrumentation scope for application metrics
const MeterName = "github.com/evalplatform/evalreport"

// Export outcome labels
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Metrics holds the application instruments
type Metrics struct {
	ExportsTotal   metric.Int64Counter
	ExportDuration metric.Float64Histogram
	ExportBytes    metric.Int64Histogram

	ReportsSaved  metric.Int64Counter
	ReportsPurged metric.Int64Counter
}

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// GetMetrics returns the process-wide instruments, creating them on first use.
// Instruments are bound to whatever meter provider is global at that moment.
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		var err error
		globalMetrics, err = initMetrics()
		if err != nil {
			logger.Error("Failed to initialize metrics", zap.Error(err))
			globalMetrics = &Metrics{}
		}
	})
	return globalMetrics
}

func initMetrics() (*Metrics, error) {
	meter := otel.Meter(MeterName)
	m := &Metrics{}

	var err error

	m.ExportsTotal, err = meter.Int64Counter(
		"evalreport_exports_total",
		metric.WithDescription("Total number of report exports"),
		metric.WithUnit("{export}"),
	)
	if err != nil {
		return nil, err
	}

	m.ExportDuration, err = meter.Float64Histogram(
		"evalreport_export_duration_seconds",
		metric.WithDescription("Time spent producing an export"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60),
	)
	if err != nil {
		return nil, err
	}

	m.ExportBytes, err = meter.Int64Histogram(
		"evalreport_export_size_bytes",
		metric.WithDescription("Size of produced export artifacts"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(16<<10, 64<<10, 256<<10, 1<<20, 4<<20, 16<<20),
	)
	if err != nil {
		return nil, err
	}

	m.ReportsSaved, err = meter.Int64Counter(
		"evalreport_reports_saved_total",
		metric.WithDescription("Total number of saved reports"),
		metric.WithUnit("{report}"),
	)
	if err != nil {
		return nil, err
	}

	m.ReportsPurged, err = meter.Int64Counter(
		"evalreport_reports_purged_total",
		metric.WithDescription("Total number of soft-deleted reports purged"),
		metric.WithUnit("{report}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordExport records one export attempt
func (m *Metrics) RecordExport(ctx context.Context, format, kind, status string, durationSeconds float64, size int) {
	attrs := metric.WithAttributes(
		attribute.String("format", format),
		attribute.String("kind", kind),
		attribute.String("status", status),
	)
	if m.ExportsTotal != nil {
		m.ExportsTotal.Add(ctx, 1, attrs)
	}
	if m.ExportDuration != nil {
		m.ExportDuration.Record(ctx, durationSeconds, attrs)
	}
	if m.ExportBytes != nil && status == StatusSuccess {
		m.ExportBytes.Record(ctx, int64(size), metric.WithAttributes(attribute.String("format", format)))
	}
}

// RecordReportSaved records a saved report by schema kind
func (m *Metrics) RecordReportSaved(ctx context.Context, kind string) {
	if m.ReportsSaved == nil {
		return
	}
	m.ReportsSaved.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordReportsPurged records a purge run
func (m *Metrics) RecordReportsPurged(ctx context.Context, count int64) {
	if m.ReportsPurged == nil || count <= 0 {
		return
	}
	m.ReportsPurged.Add(ctx, count)
}
