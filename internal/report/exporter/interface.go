// Package exporter renders analysis documents into downloadable artifacts
// with pluggable exporters.
package exporter

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/evalplatform/evalreport/internal/model"
	"github.com/evalplatform/evalreport/pkg/errors"
	"github.com/evalplatform/evalreport/pkg/logger"
	"github.com/evalplatform/evalreport/pkg/telemetry"
)

// ExportFormat represents the export format type
type ExportFormat string

const (
	// ExportFormatHTML represents the standalone HTML document
	ExportFormatHTML ExportFormat = "html"
	// ExportFormatPDF represents the HTML document printed by headless Chrome
	ExportFormatPDF ExportFormat = "pdf"
)

// ParseFormat normalizes a user-supplied format name
func ParseFormat(value string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(value))); f {
	case "":
		return ExportFormatHTML, nil
	case ExportFormatHTML, ExportFormatPDF:
		return f, nil
	default:
		return "", errors.ErrUnsupportedFormat(value)
	}
}

// ReportExporter defines the interface for report exporters
type ReportExporter interface {
	// Export renders the document
	Export(ctx context.Context, doc *model.Document) ([]byte, error)
	// Name returns the human-readable name of the exporter (e.g., "HTML", "PDF")
	Name() string
	// FileExtension returns the file extension for this format (e.g., ".html")
	FileExtension() string
	// ContentType returns the MIME type of the rendered artifact
	ContentType() string
}

// ExportManager manages all registered exporters
type ExportManager struct {
	exporters map[ExportFormat]ReportExporter
	mu        sync.RWMutex
}

// NewExportManager creates a new export manager
func NewExportManager() *ExportManager {
	return &ExportManager{
		exporters: make(map[ExportFormat]ReportExporter),
	}
}

// Register registers an exporter for a specific format
func (m *ExportManager) Register(format ExportFormat, exporter ReportExporter) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.exporters[format] = exporter
	logger.Debug("Registered report exporter",
		zap.String(logger.FieldFormat, string(format)),
		zap.String("name", exporter.Name()),
	)
}

// Export renders a document using the specified format
func (m *ExportManager) Export(ctx context.Context, doc *model.Document, format ExportFormat) ([]byte, error) {
	exporter, err := m.GetExporter(format)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.ErrValidation("document is required")
	}

	ctx, span := telemetry.StartSpan(ctx, "exporter.Export",
		telemetry.WithExportAttributes(string(format), string(doc.Kind), doc.SourceFile()))
	defer span.End()

	logger.Debug("Exporting report",
		zap.String(logger.FieldFormat, string(format)),
		zap.String(logger.FieldKind, string(doc.Kind)),
		zap.String("exporter", exporter.Name()),
	)

	start := time.Now()
	content, err := exporter.Export(ctx, doc)
	elapsed := time.Since(start)

	metrics := telemetry.GetMetrics()
	if err != nil {
		metrics.RecordExport(ctx, string(format), string(doc.Kind), telemetry.StatusFailure, elapsed.Seconds(), 0)
		telemetry.SetSpanError(span, err)
		logger.Error("Report export failed",
			zap.String(logger.FieldFormat, string(format)),
			zap.String(logger.FieldKind, string(doc.Kind)),
			zap.Error(err),
		)
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, "failed to export report with "+exporter.Name()+" exporter", err)
	}

	metrics.RecordExport(ctx, string(format), string(doc.Kind), telemetry.StatusSuccess, elapsed.Seconds(), len(content))
	telemetry.SetSpanOK(span)
	logger.Debug("Report exported",
		zap.String(logger.FieldFormat, string(format)),
		zap.Int("bytes", len(content)),
		zap.Duration("duration", elapsed),
	)
	return content, nil
}

// ExportToFile renders a document into dir under its derived filename and
// returns the written path.
func (m *ExportManager) ExportToFile(ctx context.Context, doc *model.Document, dir string, format ExportFormat) (string, error) {
	content, err := m.Export(ctx, doc, format)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "failed to create output directory", err)
	}

	outputPath := filepath.Join(dir, m.GenerateFilename(doc, format))
	if err := os.WriteFile(outputPath, content, 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "failed to write file", err)
	}

	logger.Info("Report exported to file",
		zap.String(logger.FieldFormat, string(format)),
		zap.String(logger.FieldKind, string(doc.Kind)),
		zap.String("path", outputPath),
	)
	return outputPath, nil
}

// GenerateFilename derives the artifact name from the analyzed file. PDF
// output keeps the HTML naming with its own extension.
func (m *ExportManager) GenerateFilename(doc *model.Document, format ExportFormat) string {
	var kind model.Kind
	file := ""
	if doc != nil {
		kind = doc.Kind
		file = doc.SourceFile()
	}

	name := ReportFilename(file, kind)
	if format == ExportFormatHTML {
		return name
	}

	ext := "." + string(format)
	if exporter, err := m.GetExporter(format); err == nil {
		ext = exporter.FileExtension()
	}
	return strings.TrimSuffix(name, ".html") + ext
}

// ContentType returns the MIME type produced by a format
func (m *ExportManager) ContentType(format ExportFormat) string {
	exporter, err := m.GetExporter(format)
	if err != nil {
		return "application/octet-stream"
	}
	return exporter.ContentType()
}

// SupportedFormats returns the registered formats in name order
func (m *ExportManager) SupportedFormats() []ExportFormat {
	m.mu.RLock()
	defer m.mu.RUnlock()

	formats := make([]ExportFormat, 0, len(m.exporters))
	for format := range m.exporters {
		formats = append(formats, format)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

// GetExporter returns the exporter for a specific format
func (m *ExportManager) GetExporter(format ExportFormat) (ReportExporter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	exporter, ok := m.exporters[format]
	if !ok {
		return nil, errors.ErrUnsupportedFormat(string(format))
	}
	return exporter, nil
}
