package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evalplatform/evalreport/internal/config"
	"github.com/evalplatform/evalreport/internal/model"
	"github.com/evalplatform/evalreport/internal/report/exporter"
	"github.com/evalplatform/evalreport/pkg/errors"
)

func newTestExporter() *Exporter {
	opts := exporter.Options{Now: func() time.Time { return time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC) }}
	return NewExporter(opts, exporter.DefaultPDFOptions())
}

func legacyDoc(file string) *model.Document {
	return model.NewLegacyDocument(&model.ExportData{
		Config: model.ReportConfig{File: file},
	})
}

func TestExporter_Download(t *testing.T) {
	e := newTestExporter()

	dl, err := e.Download(context.Background(), legacyDoc("Evaluaciones_2024.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, "Evaluaciones_2024_reporte.html", dl.Filename)
	assert.Equal(t, "text/html; charset=utf-8", dl.ContentType)
	assert.True(t, strings.HasPrefix(string(dl.Body), "<!DOCTYPE html>"))
	assert.Contains(t, string(dl.Body), "16 de octubre de 2026")
}

func TestExporter_DownloadMulti(t *testing.T) {
	e := newTestExporter()
	doc := model.NewMultiDocument(&model.MultiExportData{
		Config: model.ReportConfig{File: "Evaluaciones_2024.xlsx"},
	})

	dl, err := e.Download(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "Evaluaciones_2024_reporte_multi.html", dl.Filename)
}

func TestExporter_DownloadErrors(t *testing.T) {
	e := newTestExporter()

	_, err := e.Download(context.Background(), nil)
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))

	_, err = e.DownloadAs(context.Background(), legacyDoc("a.csv"), "xlsx")
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnsupportedFormat))
}

func TestExporter_ExportToFile(t *testing.T) {
	e := newTestExporter()
	dir := t.TempDir()

	path, err := e.ExportToFile(context.Background(), legacyDoc("datos.csv"), dir, ExportFormatHTML)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "datos_reporte.html"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestExporter_SupportedFormats(t *testing.T) {
	assert.Equal(t, []ExportFormat{ExportFormatHTML, ExportFormatPDF}, newTestExporter().SupportedFormats())
}

func TestPDFOptions(t *testing.T) {
	opts := PDFOptions(config.PDFConfig{})
	assert.Equal(t, exporter.DefaultPDFOptions(), opts)

	opts = PDFOptions(config.PDFConfig{
		ChromePath:     "/usr/bin/chromium",
		PaperWidth:     8.5,
		PaperHeight:    11,
		MarginTop:      1,
		RenderWaitMS:   250,
		TimeoutSeconds: 30,
	})
	assert.Equal(t, "/usr/bin/chromium", opts.ChromePath)
	assert.Equal(t, 8.5, opts.PaperWidth)
	assert.Equal(t, 11.0, opts.PaperHeight)
	assert.Equal(t, 1.0, opts.MarginTop)
	assert.Equal(t, 0.0, opts.MarginLeft)
	assert.Equal(t, 250*time.Millisecond, opts.RenderWait)
	assert.Equal(t, 30*time.Second, opts.Timeout)
}

func TestHTMLOptions(t *testing.T) {
	opts := HTMLOptions(config.ExportConfig{Locale: "pt_BR.UTF-8", EscapeAISummary: true})
	assert.Equal(t, "pt-BR", opts.Locale.String())
	assert.True(t, opts.EscapeAISummary)
	assert.Empty(t, opts.ChartJSURL)
}
