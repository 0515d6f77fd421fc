// Package handler provides test utilities for HTTP handler testing.
package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/evalplatform/evalreport/internal/api/middleware"
	"github.com/evalplatform/evalreport/internal/store"
)

// SetupTestRouter creates a Gin router for testing with the error
// handler installed so AppErrors render as JSON.
func SetupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.ErrorHandler(false))
	return r
}

// CreateTestRequest creates an HTTP request for testing. A []byte body is
// sent as-is; anything else is JSON encoded.
func CreateTestRequest(method, url string, body any) *http.Request {
	var req *http.Request
	switch b := body.(type) {
	case nil:
		req, _ = http.NewRequest(method, url, nil)
	case []byte:
		req, _ = http.NewRequest(method, url, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	default:
		jsonBody, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, url, bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// AssertErrorResponse asserts that the response is a coded error response
// and returns its code.
func AssertErrorResponse(t *testing.T, recorder *httptest.ResponseRecorder, expectedStatus int) string {
	t.Helper()
	if recorder.Code != expectedStatus {
		t.Errorf("Status code mismatch: got %d, want %d", recorder.Code, expectedStatus)
	}

	var response map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Response should be valid JSON: %v", err)
	}

	code, hasCode := response["code"].(string)
	_, hasMessage := response["message"]
	if !hasCode || !hasMessage {
		t.Error("Error response should contain 'code' and 'message' fields")
	}
	return code
}

// MockStore is an in-memory Store for handler tests.
type MockStore struct {
	savedReportStore *MockSavedReportStore
}

// NewMockStore creates a new mock store with in-memory storage.
func NewMockStore() *MockStore {
	return &MockStore{
		savedReportStore: NewMockSavedReportStore(),
	}
}

// SavedReport returns the mock saved-report store.
func (m *MockStore) SavedReport() store.SavedReportStore {
	return m.savedReportStore
}

// Reports exposes the concrete mock for error injection.
func (m *MockStore) Reports() *MockSavedReportStore {
	return m.savedReportStore
}

// DB returns nil for mock store (not used in tests).
func (m *MockStore) DB() *gorm.DB {
	return nil
}

// Transaction executes operations within a transaction (no-op for mock).
func (m *MockStore) Transaction(fn func(store.Store) error) error {
	return fn(m)
}
