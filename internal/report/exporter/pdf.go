package exporter

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/evalplatform/evalreport/consts"
	"github.com/evalplatform/evalreport/internal/model"
	"github.com/evalplatform/evalreport/pkg/errors"
	"github.com/evalplatform/evalreport/pkg/logger"
)

// PDFOptions contains configuration for PDF generation
type PDFOptions struct {
	// ChromePath overrides the browser binary; CHROME_PATH is used when empty
	ChromePath string

	// Paper dimensions in inches (A4: 8.27 x 11.69)
	PaperWidth  float64
	PaperHeight float64

	// Margins in inches
	MarginTop    float64
	MarginBottom float64
	MarginLeft   float64
	MarginRight  float64

	// RenderWait is how long charts get to draw after the page loads
	RenderWait time.Duration

	// Timeout for the whole browser session
	Timeout time.Duration
}

// DefaultPDFOptions returns default PDF options for A4 paper
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		PaperWidth:   8.27,
		PaperHeight:  11.69,
		MarginTop:    0.4,
		MarginBottom: 0.4,
		MarginLeft:   0.4,
		MarginRight:  0.4,
		RenderWait:   1500 * time.Millisecond,
		Timeout:      120 * time.Second,
	}
}

// PDFExporter prints the HTML report with headless Chrome. Charts are
// drawn by the page itself, so the browser needs to reach the Chart.js CDN.
type PDFExporter struct {
	html    *HTMLExporter
	options PDFOptions
}

// NewPDFExporter creates a PDF exporter that prints documents rendered with
// the given HTML options.
func NewPDFExporter(htmlOpts Options, opts PDFOptions) *PDFExporter {
	return &PDFExporter{
		html:    NewHTMLExporter(htmlOpts),
		options: opts,
	}
}

// Export renders the document to HTML and prints it to PDF
func (e *PDFExporter) Export(ctx context.Context, doc *model.Document) ([]byte, error) {
	startTime := time.Now()

	html, err := e.html.Export(ctx, doc)
	if err != nil {
		return nil, err
	}

	logger.Info("[PDF Export] Starting PDF export",
		zap.String(logger.FieldKind, string(doc.Kind)),
		zap.Int("html_size", len(html)),
		zap.Duration("timeout", e.options.Timeout),
	)

	// A file URL avoids data URL size limits
	tmpFile, err := os.CreateTemp("", consts.ServiceName+"-pdf-*.html")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePDFFailed, "failed to create temp file", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(html); err != nil {
		tmpFile.Close()
		return nil, errors.Wrap(errors.ErrCodePDFFailed, "failed to write temp file", err)
	}
	tmpFile.Close()

	pdfData, err := e.print(ctx, "file://"+tmpPath)
	if err != nil {
		logger.Error("[PDF Export] Failed to generate PDF",
			zap.String(logger.FieldKind, string(doc.Kind)),
			zap.Error(err),
			zap.Duration("total_duration", time.Since(startTime)),
		)
		return nil, errors.Wrap(errors.ErrCodePDFFailed, "failed to generate PDF", err)
	}

	logger.Info("[PDF Export] PDF export completed successfully",
		zap.String(logger.FieldKind, string(doc.Kind)),
		zap.String("pdf_size", formatBytes(len(pdfData))),
		zap.Duration("total_duration", time.Since(startTime)),
	)
	return pdfData, nil
}

// print loads url in a fresh headless browser and prints it
func (e *PDFExporter) print(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, e.options.Timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("headless", true),
		chromedp.WSURLReadTimeout(60*time.Second),
	)
	chromePath := e.options.ChromePath
	if chromePath == "" {
		chromePath = os.Getenv("CHROME_PATH")
	}
	if chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			logger.Debug(fmt.Sprintf("[PDF Export] chromedp: "+format, args...))
		}),
	)
	defer browserCancel()

	var (
		pdfData []byte
		loaded  bool
	)
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Poll(`document.readyState === "complete"`, &loaded,
			chromedp.WithPollingTimeout(e.options.Timeout)),
		// Chart.js animates the first draw
		chromedp.Sleep(e.options.RenderWait),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfData, _, err = page.PrintToPDF().
				WithPaperWidth(e.options.PaperWidth).
				WithPaperHeight(e.options.PaperHeight).
				WithMarginTop(e.options.MarginTop).
				WithMarginBottom(e.options.MarginBottom).
				WithMarginLeft(e.options.MarginLeft).
				WithMarginRight(e.options.MarginRight).
				WithPrintBackground(true).
				WithPreferCSSPageSize(false).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfData, nil
}

// formatBytes converts bytes to human-readable format
func formatBytes(bytes int) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := int64(bytes) / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// Name returns the human-readable name of this exporter
func (e *PDFExporter) Name() string {
	return "PDF"
}

// FileExtension returns the file extension for PDF files
func (e *PDFExporter) FileExtension() string {
	return ".pdf"
}

// ContentType returns the MIME type of PDF files
func (e *PDFExporter) ContentType() string {
	return consts.PDFContentType
}
