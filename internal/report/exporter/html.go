package exporter

import (
	"context"
	"time"

	"golang.org/x/text/language"

	"github.com/evalplatform/evalreport/consts"
	"github.com/evalplatform/evalreport/internal/model"
	"github.com/evalplatform/evalreport/pkg/errors"
)

// Options tunes document generation. The zero value renders es-MX dates
// and numbers, loads Chart.js from jsdelivr and embeds the AI summary
// without escaping it.
type Options struct {
	// Locale drives the header date and integer grouping
	Locale language.Tag

	// ChartJSURL is the script the document loads when opened
	ChartJSURL string

	// EscapeAISummary escapes the summary before Markdown rendering, for
	// deployments that do not trust the summary backend
	EscapeAISummary bool

	// Now returns the generation time; tests pin it
	Now func() time.Time
}

var defaultLocale = language.MustParse(consts.DefaultLocale)

func (o Options) withDefaults() Options {
	if o.Locale == language.Und {
		o.Locale = defaultLocale
	}
	if o.ChartJSURL == "" {
		o.ChartJSURL = consts.ChartJSURL
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// GenerateDocument renders either report layout according to the
// document's kind.
func GenerateDocument(doc *model.Document, opts Options) (string, error) {
	if doc == nil {
		return "", errors.ErrValidation("document is required")
	}

	switch doc.Kind {
	case model.KindLegacy:
		if doc.Legacy == nil {
			return "", errors.ErrValidation("legacy document has no data")
		}
		return GenerateHTMLReport(doc.Legacy, opts), nil
	case model.KindMulti:
		if doc.Multi == nil {
			return "", errors.ErrValidation("multi-question document has no data")
		}
		return GenerateMultiHTMLReport(doc.Multi, opts), nil
	default:
		return "", errors.New(errors.ErrCodeUnknownSchema, "unknown report kind: "+string(doc.Kind))
	}
}

// ReportFilename derives the download name from the analyzed file:
// the last extension is dropped and "_reporte.html" (or
// "_reporte_multi.html") appended.
func ReportFilename(file string, kind model.Kind) string {
	base := stripExtension(file)
	if base == "" {
		base = "evaluaciones"
	}
	base = sanitizeFilename(base)

	if kind == model.KindMulti {
		return base + "_reporte_multi.html"
	}
	return base + "_reporte.html"
}

// HTMLExporter renders documents as standalone HTML
type HTMLExporter struct {
	options Options
}

// NewHTMLExporter creates an HTML exporter
func NewHTMLExporter(opts Options) *HTMLExporter {
	return &HTMLExporter{options: opts}
}

// Export renders the document
func (e *HTMLExporter) Export(_ context.Context, doc *model.Document) ([]byte, error) {
	html, err := GenerateDocument(doc, e.options)
	if err != nil {
		return nil, err
	}
	return []byte(html), nil
}

// Name returns the human-readable name of this exporter
func (e *HTMLExporter) Name() string {
	return "HTML"
}

// FileExtension returns the file extension for HTML files
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// ContentType returns the MIME type of the rendered document
func (e *HTMLExporter) ContentType() string {
	return consts.HTMLContentType
}
