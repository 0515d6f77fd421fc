package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/evalplatform/evalreport/internal/report"
	"github.com/evalplatform/evalreport/pkg/logger"
)

// ExportHandler turns posted analysis JSON into downloadable documents
type ExportHandler struct {
	exporter *report.Exporter
}

// NewExportHandler creates a new export handler
func NewExportHandler(exporter *report.Exporter) *ExportHandler {
	return &ExportHandler{exporter: exporter}
}

// ExportHTML handles POST /api/v1/exports/html
func (h *ExportHandler) ExportHTML(c *gin.Context) {
	h.export(c, report.ExportFormatHTML)
}

// ExportPDF handles POST /api/v1/exports/pdf
func (h *ExportHandler) ExportPDF(c *gin.Context) {
	h.export(c, report.ExportFormatPDF)
}

func (h *ExportHandler) export(c *gin.Context, format report.ExportFormat) {
	doc := readDocument(c)
	if doc == nil {
		return
	}

	dl, err := h.exporter.DownloadAs(c.Request.Context(), doc, format)
	if err != nil {
		abortWithError(c, err)
		return
	}

	logger.Debug("Serving export",
		zap.String("format", string(format)),
		zap.String("kind", string(doc.Kind)),
		zap.String("filename", dl.Filename),
	)
	sendDownload(c, dl)
}
