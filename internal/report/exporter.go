// Package report turns analysis documents into downloadable artifacts.
package report

import (
	"context"
	"time"

	"github.com/evalplatform/evalreport/internal/config"
	"github.com/evalplatform/evalreport/internal/model"
	"github.com/evalplatform/evalreport/internal/report/exporter"
)

// ExportFormat represents the export format
type ExportFormat = exporter.ExportFormat

const (
	// ExportFormatHTML represents the standalone HTML document
	ExportFormatHTML = exporter.ExportFormatHTML
	// ExportFormatPDF represents the printed document
	ExportFormatPDF = exporter.ExportFormatPDF
)

// Download is one artifact ready to be handed to a client
type Download struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Exporter renders documents with the registered exporters
type Exporter struct {
	manager *exporter.ExportManager
}

// NewExporter creates a report exporter with the HTML and PDF exporters registered
func NewExporter(htmlOpts exporter.Options, pdfOpts exporter.PDFOptions) *Exporter {
	manager := exporter.NewExportManager()
	manager.Register(ExportFormatHTML, exporter.NewHTMLExporter(htmlOpts))
	manager.Register(ExportFormatPDF, exporter.NewPDFExporter(htmlOpts, pdfOpts))

	return &Exporter{
		manager: manager,
	}
}

// NewExporterFromConfig builds the exporter from the export config section.
// Zero PDF settings keep the A4 defaults.
func NewExporterFromConfig(cfg config.ExportConfig) *Exporter {
	return NewExporter(HTMLOptions(cfg), PDFOptions(cfg.PDF))
}

// HTMLOptions maps the export config onto generator options
func HTMLOptions(cfg config.ExportConfig) exporter.Options {
	return exporter.Options{
		Locale:          cfg.LocaleTag(),
		ChartJSURL:      cfg.ChartJSURL,
		EscapeAISummary: cfg.EscapeAISummary,
	}
}

// PDFOptions maps the PDF config onto printer options
func PDFOptions(cfg config.PDFConfig) exporter.PDFOptions {
	opts := exporter.DefaultPDFOptions()
	opts.ChromePath = cfg.ChromePath
	if cfg.PaperWidth > 0 && cfg.PaperHeight > 0 {
		opts.PaperWidth = cfg.PaperWidth
		opts.PaperHeight = cfg.PaperHeight
	}
	if cfg.MarginTop >= 0 && cfg.MarginBottom >= 0 && cfg.MarginLeft >= 0 && cfg.MarginRight >= 0 &&
		cfg.MarginTop+cfg.MarginBottom+cfg.MarginLeft+cfg.MarginRight > 0 {
		opts.MarginTop = cfg.MarginTop
		opts.MarginBottom = cfg.MarginBottom
		opts.MarginLeft = cfg.MarginLeft
		opts.MarginRight = cfg.MarginRight
	}
	if cfg.RenderWaitMS > 0 {
		opts.RenderWait = time.Duration(cfg.RenderWaitMS) * time.Millisecond
	}
	if cfg.TimeoutSeconds > 0 {
		opts.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return opts
}

// Download renders the HTML report under its derived filename
func (e *Exporter) Download(ctx context.Context, doc *model.Document) (*Download, error) {
	return e.DownloadAs(ctx, doc, ExportFormatHTML)
}

// DownloadAs renders the document in the given format
func (e *Exporter) DownloadAs(ctx context.Context, doc *model.Document, format ExportFormat) (*Download, error) {
	body, err := e.manager.Export(ctx, doc, format)
	if err != nil {
		return nil, err
	}
	return &Download{
		Filename:    e.manager.GenerateFilename(doc, format),
		ContentType: e.manager.ContentType(format),
		Body:        body,
	}, nil
}

// ExportPDF prints the document and returns the PDF bytes
func (e *Exporter) ExportPDF(ctx context.Context, doc *model.Document) ([]byte, error) {
	return e.manager.Export(ctx, doc, ExportFormatPDF)
}

// ExportToFile writes the document into dir and returns the file path
func (e *Exporter) ExportToFile(ctx context.Context, doc *model.Document, dir string, format ExportFormat) (string, error) {
	return e.manager.ExportToFile(ctx, doc, dir, format)
}

// SupportedFormats lists the registered formats
func (e *Exporter) SupportedFormats() []ExportFormat {
	return e.manager.SupportedFormats()
}
