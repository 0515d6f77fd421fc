// Package handler provides HTTP handlers for the API.
package handler

import (
	stderrors "errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/evalplatform/evalreport/internal/model"
	"github.com/evalplatform/evalreport/internal/report"
	"github.com/evalplatform/evalreport/pkg/errors"
	"github.com/evalplatform/evalreport/pkg/logger"
)

// readDocument decodes the request body as an analysis document.
// It writes the error response itself and returns nil on failure.
func readDocument(c *gin.Context) *model.Document {
	var raw []byte
	if c.Request.Body != nil {
		var err error
		raw, err = io.ReadAll(c.Request.Body)
		if err != nil {
			respondReadError(c, err)
			return nil
		}
	}
	if len(raw) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    errors.ErrCodeValidation,
			"message": "Request body is empty",
		})
		return nil
	}

	doc, err := model.ParseDocument(raw)
	if err != nil {
		abortWithError(c, err)
		return nil
	}
	return doc
}

// respondReadError reports a failed body read, 413 when the body limit hit
func respondReadError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"code":    errors.ErrCodeValidation,
			"message": "Request body too large",
		})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"code":    errors.ErrCodeValidation,
		"message": "Failed to read request body",
	})
}

// abortWithError hands err to the ErrorHandler middleware
func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// respondStoreError maps a store error to a JSON response
func respondStoreError(c *gin.Context, err error, resource string) {
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    errors.ErrCodeNotFound,
			"message": resource + " not found",
		})
		return
	}
	logger.Error("Database error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"code":    errors.ErrCodeDBQuery,
		"message": "Database error",
	})
}

// sendDownload writes an export as an attachment
func sendDownload(c *gin.Context, dl *report.Download) {
	c.Header("Content-Disposition", contentDisposition(dl.Filename))
	c.Data(http.StatusOK, dl.ContentType, dl.Body)
}

// contentDisposition builds an attachment header. Non-ASCII names are
// carried in the RFC 2231 filename* parameter.
func contentDisposition(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}

// queryInt parses an integer query parameter, falling back to def
func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}
