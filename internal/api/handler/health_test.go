package handler

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name     string
		checker  HealthChecker
		status   int
		overall  string
		database string
	}{
		{"no checker", nil, http.StatusOK, "ok", "ok"},
		{"database up", func() error { return nil }, http.StatusOK, "ok", "ok"},
		{"database down", func() error { return stderrors.New("closed") }, http.StatusServiceUnavailable, "degraded", "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := SetupTestRouter()
			router.GET("/health", NewHealthHandler(tt.checker).Health)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, CreateTestRequest("GET", "/health", nil))
			require.Equal(t, tt.status, w.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.overall, resp["status"])
			assert.Equal(t, tt.database, resp["database"])
			assert.Contains(t, resp, "version")
		})
	}
}
