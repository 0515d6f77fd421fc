package handler

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evalplatform/evalreport/internal/model"
	"github.com/evalplatform/evalreport/pkg/errors"
)

func setupSavedReportRouter(s *MockStore) *gin.Engine {
	router := SetupTestRouter()
	h := NewSavedReportHandler(s, newTestExporter())
	router.GET("/api/v1/reports", h.ListReports)
	router.POST("/api/v1/reports", h.CreateReport)
	router.GET("/api/v1/reports/:id", h.GetReport)
	router.PATCH("/api/v1/reports/:id", h.UpdateReport)
	router.DELETE("/api/v1/reports/:id", h.DeleteReport)
	router.GET("/api/v1/reports/:id/export", h.ExportReport)
	return router
}

func saveReport(t *testing.T, router *gin.Engine, title, userID, document string) model.SavedReport {
	t.Helper()
	body := map[string]any{
		"title":    title,
		"user_id":  userID,
		"document": json.RawMessage(document),
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, CreateTestRequest("POST", "/api/v1/reports", body))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var saved model.SavedReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	return saved
}

func TestSavedReportHandler_CreateAndGet(t *testing.T) {
	s := NewMockStore()
	router := setupSavedReportRouter(s)

	saved := saveReport(t, router, "  Primavera 2024  ", "u1", legacyJSON)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "Primavera 2024", saved.Title)
	assert.Equal(t, model.KindLegacy, saved.Kind)
	assert.Equal(t, model.SchemaVersionCurrent, saved.SchemaVersion)
	assert.Equal(t, "Evaluaciones_2024.xlsx", saved.SourceFile)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, CreateTestRequest("GET", "/api/v1/reports/"+saved.ID, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var got model.SavedReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, saved.ID, got.ID)
}

func TestSavedReportHandler_CreateDefaultsTitleToSourceFile(t *testing.T) {
	router := setupSavedReportRouter(NewMockStore())

	saved := saveReport(t, router, "", "u1", multiJSON)
	assert.Equal(t, "encuesta.csv", saved.Title)
	assert.Equal(t, model.KindMulti, saved.Kind)
}

func TestSavedReportHandler_CreateInvalid(t *testing.T) {
	tests := []struct {
		name     string
		body     any
		status   int
		wantCode errors.ErrorCode
	}{
		{"malformed body", []byte("nope"), http.StatusBadRequest, errors.ErrCodeValidation},
		{"missing document", map[string]any{"title": "x"}, http.StatusBadRequest, errors.ErrCodeValidation},
		{"null document", []byte(`{"title": "x", "document": null}`), http.StatusBadRequest, errors.ErrCodeValidation},
		{"unknown schema", map[string]any{"document": map[string]any{"rows": 1}}, http.StatusBadRequest, errors.ErrCodeUnknownSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupSavedReportRouter(NewMockStore())
			w := httptest.NewRecorder()
			router.ServeHTTP(w, CreateTestRequest("POST", "/api/v1/reports", tt.body))

			code := AssertErrorResponse(t, w, tt.status)
			assert.Equal(t, string(tt.wantCode), code)
		})
	}
}

func TestSavedReportHandler_GetNotFound(t *testing.T) {
	router := setupSavedReportRouter(NewMockStore())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, CreateTestRequest("GET", "/api/v1/reports/missing", nil))

	code := AssertErrorResponse(t, w, http.StatusNotFound)
	assert.Equal(t, string(errors.ErrCodeNotFound), code)
}

func TestSavedReportHandler_List(t *testing.T) {
	s := NewMockStore()
	base := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		userID := "u1"
		if i%2 == 1 {
			userID = "u2"
		}
		require.NoError(t, s.SavedReport().Create(&model.SavedReport{
			ID:        fmt.Sprintf("r%d", i),
			Title:     fmt.Sprintf("Reporte %d", i),
			UserID:    userID,
			Kind:      model.KindLegacy,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}
	router := setupSavedReportRouter(s)

	t.Run("newest first with paging", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, CreateTestRequest("GET", "/api/v1/reports?limit=2&offset=1", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data   []model.SavedReport `json:"data"`
			Total  int64               `json:"total"`
			Limit  int                 `json:"limit"`
			Offset int                 `json:"offset"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(5), resp.Total)
		assert.Equal(t, 2, resp.Limit)
		assert.Equal(t, 1, resp.Offset)
		require.Len(t, resp.Data, 2)
		assert.Equal(t, "r3", resp.Data[0].ID)
		assert.Equal(t, "r2", resp.Data[1].ID)
	})

	t.Run("user filter", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, CreateTestRequest("GET", "/api/v1/reports?user_id=u2", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Total int64 `json:"total"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(2), resp.Total)
	})

	t.Run("out of range limit falls back", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, CreateTestRequest("GET", "/api/v1/reports?limit=5000", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Limit int `json:"limit"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 20, resp.Limit)
	})

	t.Run("invalid kind", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, CreateTestRequest("GET", "/api/v1/reports?kind=weekly", nil))
		AssertErrorResponse(t, w, http.StatusBadRequest)
	})
}

func TestSavedReportHandler_ListDatabaseError(t *testing.T) {
	s := NewMockStore()
	s.Reports().Err = stderrors.New("disk I/O error")
	router := setupSavedReportRouter(s)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, CreateTestRequest("GET", "/api/v1/reports", nil))

	code := AssertErrorResponse(t, w, http.StatusInternalServerError)
	assert.Equal(t, string(errors.ErrCodeDBQuery), code)
}

func TestSavedReportHandler_Update(t *testing.T) {
	s := NewMockStore()
	router := setupSavedReportRouter(s)
	saved := saveReport(t, router, "Viejo", "u1", legacyJSON)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, CreateTestRequest("PATCH", "/api/v1/reports/"+saved.ID, map[string]string{"title": "Nuevo"}))
	require.Equal(t, http.StatusOK, w.Code)

	got, err := s.SavedReport().GetByID(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nuevo", got.Title)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, CreateTestRequest("PATCH", "/api/v1/reports/"+saved.ID, map[string]string{"title": "   "}))
	AssertErrorResponse(t, w, http.StatusBadRequest)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, CreateTestRequest("PATCH", "/api/v1/reports/missing", map[string]string{"title": "x"}))
	AssertErrorResponse(t, w, http.StatusNotFound)
}

func TestSavedReportHandler_Delete(t *testing.T) {
	s := NewMockStore()
	router := setupSavedReportRouter(s)
	saved := saveReport(t, router, "", "u1", legacyJSON)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, CreateTestRequest("DELETE", "/api/v1/reports/"+saved.ID, nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, CreateTestRequest("GET", "/api/v1/reports/"+saved.ID, nil))
	AssertErrorResponse(t, w, http.StatusNotFound)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, CreateTestRequest("DELETE", "/api/v1/reports/"+saved.ID, nil))
	AssertErrorResponse(t, w, http.StatusNotFound)
}

func TestSavedReportHandler_Export(t *testing.T) {
	s := NewMockStore()
	router := setupSavedReportRouter(s)
	legacy := saveReport(t, router, "", "u1", legacyJSON)
	multi := saveReport(t, router, "", "u1", multiJSON)

	t.Run("legacy defaults to html", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, CreateTestRequest("GET", "/api/v1/reports/"+legacy.ID+"/export", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "attachment; filename=Evaluaciones_2024_reporte.html", w.Header().Get("Content-Disposition"))
		assert.Contains(t, w.Body.String(), "Evaluaciones_2024.xlsx")
	})

	t.Run("multi", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, CreateTestRequest("GET", "/api/v1/reports/"+multi.ID+"/export?format=html", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "attachment; filename=encuesta_reporte_multi.html", w.Header().Get("Content-Disposition"))
	})

	t.Run("unsupported format", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, CreateTestRequest("GET", "/api/v1/reports/"+legacy.ID+"/export?format=docx", nil))
		code := AssertErrorResponse(t, w, http.StatusUnprocessableEntity)
		assert.Equal(t, string(errors.ErrCodeUnsupportedFormat), code)
	})

	t.Run("missing report", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, CreateTestRequest("GET", "/api/v1/reports/missing/export", nil))
		AssertErrorResponse(t, w, http.StatusNotFound)
	})
}
