package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creativerenamer/internal/config"
	"creativerenamer/internal/testsupport"
	"creativerenamer/server/middleware"
	"creativerenamer/server/services"
)

type formFile struct {
	field, name string
	data        []byte
}

// setupGinTestRouter создает тестовый Gin роутер с маршрутами API
func setupGinTestRouter(maxUpload int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.GinRequestIDMiddleware())
	router.NoRoute(middleware.GinNoRouteHandler())

	service := services.NewRenamerService(config.GetDefaults())
	NewRenamerHandler(service, maxUpload).RegisterRoutes(router)
	return router
}

func multipartRequest(t *testing.T, path string, files []formFile, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range files {
		w, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = w.Write(f.data)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func creativesZip(t *testing.T) []byte {
	return testsupport.BuildZip(t,
		testsupport.ZipFile{Name: "banner_300x250.jpg", Body: "jpeg-bytes"},
		testsupport.ZipFile{Name: "banner_728x90.png", Body: "png-bytes"},
	)
}

func matchFiles(t *testing.T) []formFile {
	return []formFile{
		{"zip_file", "creatives.zip", creativesZip(t)},
		{"sheet", "plan.csv", []byte("Creative Name\nBanner_300x250_v2\nLeaderboard_728x90\n")},
	}
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleHealth(t *testing.T) {
	router := setupGinTestRouter(0)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHandlePreview(t *testing.T) {
	router := setupGinTestRouter(0)

	req := multipartRequest(t, "/api/preview", matchFiles(t), map[string]string{"threshold": "0.8"})
	w := serve(router, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp services.PreviewResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.SheetNamesCount)
	assert.Equal(t, 80, resp.Threshold)
	require.Len(t, resp.Preview, 2)
	assert.Equal(t, "Banner_300x250_v2", resp.Preview[0].MatchedName)
	assert.False(t, resp.Preview[0].BelowThreshold)
	assert.True(t, resp.Preview[1].BelowThreshold)
}

func TestHandleRename(t *testing.T) {
	router := setupGinTestRouter(0)

	w := serve(router, multipartRequest(t, "/api/rename", matchFiles(t), nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, "application/zip", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "renamed-creatives.zip")
	assert.Equal(t, "2", w.Header().Get("X-Renamed-Entries"))
	assert.Equal(t, []string{"Banner_300x250_v2.jpg", "Leaderboard_728x90.png"}, testsupport.ZipNames(t, w.Body.Bytes()))
}

func TestHandleLog(t *testing.T) {
	router := setupGinTestRouter(0)

	w := serve(router, multipartRequest(t, "/api/log", matchFiles(t), nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["csv"], "banner_728x90.png,Leaderboard_728x90.png,")

	w = serve(router, multipartRequest(t, "/api/log", matchFiles(t), map[string]string{"format": "xlsx"}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "rename-log.xlsx")
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestHandleCompare(t *testing.T) {
	router := setupGinTestRouter(0)

	a := testsupport.BuildZip(t, testsupport.ZipFile{Name: "a.jpg", Body: "X"})
	b := testsupport.BuildZip(t, testsupport.ZipFile{Name: "a.jpg", Body: "X2"})
	req := multipartRequest(t, "/api/compare", []formFile{{"zip1", "a.zip", a}, {"zip2", "b.zip", b}}, nil)
	w := serve(router, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		DifferentContent []string       `json:"different_content"`
		Summary          map[string]int `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"a.jpg"}, resp.DifferentContent)
	assert.Equal(t, 1, resp.Summary["different_content"])
	assert.Equal(t, 0, resp.Summary["only_in_1"])
}

func TestHandleValidateHTML5(t *testing.T) {
	router := setupGinTestRouter(0)

	data := testsupport.BuildZip(t, testsupport.ZipFile{Name: "banner.jpg", Body: "jpg"})
	w := serve(router, multipartRequest(t, "/api/html5/validate", []formFile{{"zip_file", "c.zip", data}}, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["valid"])
}

func TestHandlers_ErrorStatusCodes(t *testing.T) {
	router := setupGinTestRouter(0)
	sheet := formFile{"sheet", "plan.csv", []byte("Creative Name\nBanner_300x250_v2\nLeaderboard_728x90\n")}

	tests := []struct {
		name   string
		req    *http.Request
		status int
		kind   string
	}{
		{
			name:   "missing zip",
			req:    multipartRequest(t, "/api/preview", []formFile{sheet}, nil),
			status: http.StatusBadRequest,
			kind:   "InputValidationError",
		},
		{
			name:   "threshold not a number",
			req:    multipartRequest(t, "/api/preview", matchFiles(t), map[string]string{"threshold": "high"}),
			status: http.StatusBadRequest,
			kind:   "InputValidationError",
		},
		{
			name:   "column index negative",
			req:    multipartRequest(t, "/api/preview", matchFiles(t), map[string]string{"column_index": "-1"}),
			status: http.StatusBadRequest,
			kind:   "InputValidationError",
		},
		{
			name:   "corrupt zip",
			req:    multipartRequest(t, "/api/rename", []formFile{{"zip_file", "x.zip", []byte("garbage")}, sheet}, nil),
			status: http.StatusUnprocessableEntity,
			kind:   "FormatError",
		},
		{
			name:   "not multipart",
			req:    httptest.NewRequest(http.MethodPost, "/api/compare", bytes.NewBufferString("{}")),
			status: http.StatusBadRequest,
			kind:   "InputValidationError",
		},
		{
			name:   "unknown route",
			req:    httptest.NewRequest(http.MethodGet, "/api/unknown", nil),
			status: http.StatusNotFound,
			kind:   "NotFoundError",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, tt.req)
			assert.Equal(t, tt.status, w.Code, w.Body.String())

			var resp middleware.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.True(t, resp.Error)
			assert.Equal(t, tt.kind, resp.Kind)
			assert.NotEmpty(t, resp.RequestID)
		})
	}
}

func TestHandlers_UploadLimit(t *testing.T) {
	router := setupGinTestRouter(512)

	w := serve(router, multipartRequest(t, "/api/preview", []formFile{
		{"zip_file", "big.zip", bytes.Repeat([]byte("x"), 4096)},
	}, nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
