package handler

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/evalplatform/evalreport/internal/model"
	"github.com/evalplatform/evalreport/internal/report"
	"github.com/evalplatform/evalreport/internal/report/exporter"
	"github.com/evalplatform/evalreport/internal/store"
	"github.com/evalplatform/evalreport/pkg/errors"
	"github.com/evalplatform/evalreport/pkg/logger"
	"github.com/evalplatform/evalreport/pkg/telemetry"
)

const maxTitleLength = 512

// SavedReportHandler handles saved-report CRUD and re-export
type SavedReportHandler struct {
	store    store.Store
	exporter *report.Exporter
}

// NewSavedReportHandler creates a new saved-report handler
func NewSavedReportHandler(s store.Store, exporter *report.Exporter) *SavedReportHandler {
	return &SavedReportHandler{
		store:    s,
		exporter: exporter,
	}
}

// CreateSavedReportRequest is the body of POST /api/v1/reports
type CreateSavedReportRequest struct {
	Title    string          `json:"title"`
	UserID   string          `json:"user_id"`
	Document json.RawMessage `json:"document"`
}

// UpdateSavedReportRequest is the body of PATCH /api/v1/reports/:id
type UpdateSavedReportRequest struct {
	Title string `json:"title" binding:"required"`
}

// ListReports handles GET /api/v1/reports
func (h *SavedReportHandler) ListReports(c *gin.Context) {
	limit := queryInt(c, "limit", store.DefaultListLimit)
	if limit < 1 || limit > store.MaxListLimit {
		limit = store.DefaultListLimit
	}
	offset := max(queryInt(c, "offset", 0), 0)

	kind := model.Kind(c.Query("kind"))
	if kind != "" && !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    errors.ErrCodeValidation,
			"message": "Invalid kind filter",
		})
		return
	}

	reports, total, err := h.store.SavedReport().List(store.ListFilter{
		UserID: c.Query("user_id"),
		Kind:   kind,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		respondStoreError(c, err, "Report")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":   reports,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// CreateReport handles POST /api/v1/reports
func (h *SavedReportHandler) CreateReport(c *gin.Context) {
	var req CreateSavedReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			respondReadError(c, err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    errors.ErrCodeValidation,
			"message": "Invalid request body",
		})
		return
	}
	if len(req.Document) == 0 || string(req.Document) == "null" {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    errors.ErrCodeValidation,
			"message": "document is required",
		})
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if len(req.Title) > maxTitleLength {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    errors.ErrCodeValidation,
			"message": "title is too long",
		})
		return
	}

	doc, err := model.ParseDocument(req.Document)
	if err != nil {
		abortWithError(c, err)
		return
	}
	saved, err := model.NewSavedReport(req.Title, req.UserID, doc)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if err := h.store.SavedReport().Create(saved); err != nil {
		respondStoreError(c, err, "Report")
		return
	}

	telemetry.GetMetrics().RecordReportSaved(c.Request.Context(), string(saved.Kind))
	logger.Info("Report saved",
		zap.String("report_id", saved.ID),
		zap.String("kind", string(saved.Kind)),
		zap.String("user_id", saved.UserID),
	)

	c.JSON(http.StatusCreated, saved)
}

// GetReport handles GET /api/v1/reports/:id
func (h *SavedReportHandler) GetReport(c *gin.Context) {
	saved, err := h.store.SavedReport().GetByID(c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "Report")
		return
	}
	c.JSON(http.StatusOK, saved)
}

// UpdateReport handles PATCH /api/v1/reports/:id
func (h *SavedReportHandler) UpdateReport(c *gin.Context) {
	var req UpdateSavedReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    errors.ErrCodeValidation,
			"message": "title is required",
		})
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" || len(title) > maxTitleLength {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    errors.ErrCodeValidation,
			"message": "Invalid title",
		})
		return
	}

	id := c.Param("id")
	if err := h.store.SavedReport().UpdateTitle(id, title); err != nil {
		respondStoreError(c, err, "Report")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "title": title})
}

// DeleteReport handles DELETE /api/v1/reports/:id
func (h *SavedReportHandler) DeleteReport(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.SavedReport().Delete(id); err != nil {
		respondStoreError(c, err, "Report")
		return
	}
	logger.Info("Report deleted", zap.String("report_id", id))
	c.Status(http.StatusNoContent)
}

// ExportReport handles GET /api/v1/reports/:id/export?format=html|pdf
func (h *SavedReportHandler) ExportReport(c *gin.Context) {
	format, err := exporter.ParseFormat(c.Query("format"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	saved, err := h.store.SavedReport().GetByID(c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "Report")
		return
	}
	doc, err := saved.Document()
	if err != nil {
		abortWithError(c, err)
		return
	}

	dl, err := h.exporter.DownloadAs(c.Request.Context(), doc, format)
	if err != nil {
		abortWithError(c, err)
		return
	}
	sendDownload(c, dl)
}
