package middleware

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evalplatform/evalreport/pkg/errors"
)

func newTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestLogger(t *testing.T) {
	for _, cfg := range []*LoggerConfig{nil, {AccessLog: true}, {AccessLog: false}} {
		r := newTestRouter(RequestID(), Logger(cfg))
		r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
		r.GET("/bad", func(c *gin.Context) { c.String(http.StatusBadRequest, "bad") })
		r.GET("/fail", func(c *gin.Context) { c.String(http.StatusInternalServerError, "fail") })

		for path, status := range map[string]int{"/ok": 200, "/bad": 400, "/fail": 500} {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", path, nil)
			r.ServeHTTP(w, req)
			assert.Equal(t, status, w.Code)
		}
	}
}

func TestRecovery(t *testing.T) {
	r := newTestRouter(Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/panic", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, string(errors.ErrCodeInternal), decode(t, w)["code"])
}

func TestRequestID(t *testing.T) {
	r := newTestRouter(RequestID())
	r.GET("/id", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/id", nil)
		r.ServeHTTP(w, req)

		id := w.Header().Get(RequestIDHeader)
		assert.NotEmpty(t, id)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("propagated", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/id", nil)
		req.Header.Set(RequestIDHeader, "abc")
		r.ServeHTTP(w, req)

		assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "abc", w.Body.String())
	})
}

func TestCORS(t *testing.T) {
	r := newTestRouter(CORS([]string{"http://app.local"}))
	r.GET("/data", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantAllow  string
	}{
		{"allowed get", "GET", "http://app.local", http.StatusOK, "http://app.local"},
		{"foreign get", "GET", "http://other.local", http.StatusOK, ""},
		{"no origin", "GET", "", http.StatusOK, ""},
		{"allowed preflight", "OPTIONS", "http://app.local", http.StatusNoContent, "http://app.local"},
		{"foreign preflight", "OPTIONS", "http://other.local", http.StatusForbidden, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(tt.method, "/data", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantAllow, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestBodyLimit(t *testing.T) {
	r := newTestRouter(BodyLimit(4))
	r.POST("/echo", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if stderrors.As(err, &tooLarge) {
				c.Status(http.StatusRequestEntityTooLarge)
				return
			}
			c.Status(http.StatusBadRequest)
			return
		}
		c.String(http.StatusOK, string(body))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/echo", strings.NewReader("abc"))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc", w.Body.String())

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/echo", strings.NewReader("abcdef"))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name        string
		debug       bool
		err         error
		wantStatus  int
		wantCode    errors.ErrorCode
		wantMessage string
		wantDetails bool
	}{
		{
			name:        "validation error keeps message",
			err:         errors.ErrValidation("title is required"),
			wantStatus:  http.StatusBadRequest,
			wantCode:    errors.ErrCodeValidation,
			wantMessage: "title is required",
		},
		{
			name:        "render failure hidden outside debug",
			err:         errors.Wrap(errors.ErrCodeRenderFailed, "template exploded", stderrors.New("x")),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    errors.ErrCodeRenderFailed,
			wantMessage: "Internal server error",
		},
		{
			name:        "render failure shown in debug",
			debug:       true,
			err:         errors.New(errors.ErrCodeRenderFailed, "template exploded").WithDetails(map[string]string{"section": "charts"}),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    errors.ErrCodeRenderFailed,
			wantMessage: "template exploded",
			wantDetails: true,
		},
		{
			name:        "details hidden outside debug",
			err:         errors.ErrNotFound("Report").WithDetails("id=42"),
			wantStatus:  http.StatusNotFound,
			wantCode:    errors.ErrCodeNotFound,
			wantMessage: "Report not found",
		},
		{
			name:        "plain error",
			err:         stderrors.New("disk full"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    errors.ErrCodeInternal,
			wantMessage: "Internal server error",
		},
		{
			name:        "plain error in debug",
			debug:       true,
			err:         stderrors.New("disk full"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    errors.ErrCodeInternal,
			wantMessage: "disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(ErrorHandler(tt.debug))
			r.GET("/err", func(c *gin.Context) {
				_ = c.Error(tt.err)
			})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/err", nil)
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decode(t, w)
			assert.Equal(t, string(tt.wantCode), resp["code"])
			assert.Equal(t, tt.wantMessage, resp["message"])
			_, hasDetails := resp["details"]
			assert.Equal(t, tt.wantDetails, hasDetails)
		})
	}
}

func TestErrorHandler_ResponseAlreadyWritten(t *testing.T) {
	r := newTestRouter(ErrorHandler(false))
	r.GET("/written", func(c *gin.Context) {
		c.String(http.StatusTeapot, "short and stout")
		_ = c.Error(stderrors.New("late"))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/written", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "short and stout", w.Body.String())
}
