package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "creativerenamer/server/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(GinRequestIDMiddleware())
	r.Use(handlers...)
	return r
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGinRequestIDMiddleware(t *testing.T) {
	r := newRouter()
	r.GET("/id", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c.Request.Context()))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/id", nil))
	generated := w.Header().Get("X-Request-ID")
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestGinCORSMiddleware(t *testing.T) {
	r := newRouter(GinCORSMiddleware())
	r.POST("/api/preview", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/preview", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "X-Renamed-Entries")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/preview", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestHandleGinError_AppError(t *testing.T) {
	GetErrorMetrics().Reset()
	r := newRouter()
	r.POST("/api/preview", func(c *gin.Context) {
		HandleGinError(c, apperrors.NewFormatError("Invalid ZIP", errors.New("zip: not a valid zip file")))
	})

	req := httptest.NewRequest(http.MethodPost, "/api/preview", nil)
	req.Header.Set("X-Request-ID", "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeError(t, w)
	assert.True(t, resp.Error)
	assert.Equal(t, "Invalid ZIP", resp.Message)
	assert.Equal(t, "FormatError", resp.Kind)
	assert.Equal(t, "req-1", resp.RequestID)
	assert.NotEmpty(t, resp.Timestamp)

	m := GetErrorMetrics().Snapshot()
	assert.EqualValues(t, 1, m.ErrorsByKind[apperrors.KindFormat])
	assert.EqualValues(t, 1, m.ErrorsByEndpoint["/api/preview"])
}

func TestHandleGinError_PlainErrorIsInternal(t *testing.T) {
	r := newRouter()
	r.GET("/boom", func(c *gin.Context) {
		HandleGinError(c, errors.New("secret detail"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "InternalError", resp.Kind)
	assert.NotContains(t, w.Body.String(), "secret detail")
}

func TestGinRecoveryMiddleware(t *testing.T) {
	r := newRouter(GinRecoveryMiddleware())
	r.GET("/panic", func(c *gin.Context) { panic("unexpected") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "InternalError", decodeError(t, w).Kind)
}

func TestGinRateLimitMiddleware(t *testing.T) {
	r := newRouter(GinRateLimitMiddleware(0.001, 2))
	r.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests {
			assert.Equal(t, "TooManyRequestsError", decodeError(t, w).Kind)
			assert.Equal(t, "1", w.Header().Get("Retry-After"))
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestGinRateLimitMiddleware_Disabled(t *testing.T) {
	r := newRouter(GinRateLimitMiddleware(0, 0))
	r.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 50; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func TestGinNoRouteHandler(t *testing.T) {
	r := newRouter()
	r.NoRoute(GinNoRouteHandler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NotFoundError", decodeError(t, w).Kind)
}
