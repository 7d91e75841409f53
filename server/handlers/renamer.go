package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"creativerenamer/server/services"
)

// RenamerHandler HTTP-обработчики сервиса переименования
type RenamerHandler struct {
	service       *services.RenamerService
	maxUploadSize int64
}

// NewRenamerHandler создает обработчик; maxUploadSize ограничивает тело запроса
func NewRenamerHandler(service *services.RenamerService, maxUploadSize int64) *RenamerHandler {
	return &RenamerHandler{service: service, maxUploadSize: maxUploadSize}
}

// RegisterRoutes регистрирует маршруты API
func (h *RenamerHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	api.GET("/health", h.HandleHealth)

	uploads := api.Group("", h.limitBody())
	uploads.POST("/preview", h.HandlePreview)
	uploads.POST("/rename", h.HandleRename)
	uploads.POST("/log", h.HandleLog)
	uploads.POST("/compare", h.HandleCompare)
	uploads.POST("/html5/validate", h.HandleValidateHTML5)
}

// limitBody ограничивает размер тела запроса с файлами
func (h *RenamerHandler) limitBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.maxUploadSize > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)
		}
		c.Next()
	}
}

// parseMatchRequest собирает общие параметры preview/rename/log
func parseMatchRequest(c *gin.Context) (services.MatchRequest, error) {
	var req services.MatchRequest

	zipFile, err := readUpload(c, "zip_file")
	if err != nil {
		return req, err
	}
	sheet, err := readUpload(c, "sheet")
	if err != nil {
		return req, err
	}
	threshold, err := optionalFloat(c, "threshold")
	if err != nil {
		return req, err
	}
	columnIndex, err := optionalInt(c, "column_index")
	if err != nil {
		return req, err
	}

	return services.MatchRequest{
		Archive:      zipFile,
		Sheet:        sheet,
		Threshold:    threshold,
		SheetName:    c.PostForm("sheet_name"),
		ColumnHeader: c.PostForm("column_header"),
		ColumnIndex:  columnIndex,
		Strategy:     c.PostForm("strategy"),
	}, nil
}

// HandleHealth проверка доступности
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/health [get]
func (h *RenamerHandler) HandleHealth(c *gin.Context) {
	SendJSONResponse(c, http.StatusOK, gin.H{"status": "ok"})
}

// HandlePreview сопоставление без изменения архива
// @Summary Preview matches
// @Description Matches every archive entry against the names of the T-sheet
// @Tags renamer
// @Accept multipart/form-data
// @Produce json
// @Param zip_file formData file true "ZIP archive with creatives"
// @Param sheet formData file true "T-sheet (.xlsx, .xlsm or .csv)"
// @Param threshold formData number false "Advisory threshold, 0..1 or 0..100 (default 0.7)"
// @Param sheet_name formData string false "Workbook sheet"
// @Param column_header formData string false "Header of the names column"
// @Param column_index formData integer false "Zero-based names column"
// @Param strategy formData string false "greedy or exclusive"
// @Success 200 {object} services.PreviewResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Router /api/preview [post]
func (h *RenamerHandler) HandlePreview(c *gin.Context) {
	req, err := parseMatchRequest(c)
	if err != nil {
		SendError(c, err)
		return
	}

	resp, err := h.service.Preview(c.Request.Context(), req)
	if err != nil {
		SendError(c, err)
		return
	}
	SendJSONResponse(c, http.StatusOK, resp)
}

// HandleRename переименованная копия архива
// @Summary Rename archive entries
// @Tags renamer
// @Accept multipart/form-data
// @Produce application/zip
// @Param zip_file formData file true "ZIP archive with creatives"
// @Param sheet formData file true "T-sheet (.xlsx, .xlsm or .csv)"
// @Param threshold formData number false "Advisory threshold"
// @Param sheet_name formData string false "Workbook sheet"
// @Param column_header formData string false "Header of the names column"
// @Param column_index formData integer false "Zero-based names column"
// @Param strategy formData string false "greedy or exclusive"
// @Success 200 {file} file
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Router /api/rename [post]
func (h *RenamerHandler) HandleRename(c *gin.Context) {
	req, err := parseMatchRequest(c)
	if err != nil {
		SendError(c, err)
		return
	}

	res, err := h.service.Rename(c.Request.Context(), req)
	if err != nil {
		SendError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+res.Filename+`"`)
	c.Header("X-Renamed-Entries", strconv.Itoa(res.Renamed))
	c.Data(http.StatusOK, "application/zip", res.Archive)
}

// HandleLog журнал переименования
// @Summary Rename log
// @Tags renamer
// @Accept multipart/form-data
// @Produce json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param zip_file formData file true "ZIP archive with creatives"
// @Param sheet formData file true "T-sheet (.xlsx, .xlsm or .csv)"
// @Param format formData string false "csv (default) or xlsx"
// @Param sheet_name formData string false "Workbook sheet"
// @Param column_header formData string false "Header of the names column"
// @Param strategy formData string false "greedy or exclusive"
// @Success 200 {object} map[string]string
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Router /api/log [post]
func (h *RenamerHandler) HandleLog(c *gin.Context) {
	req, err := parseMatchRequest(c)
	if err != nil {
		SendError(c, err)
		return
	}

	res, err := h.service.Log(c.Request.Context(), req, c.PostForm("format"))
	if err != nil {
		SendError(c, err)
		return
	}

	if res.Format == services.LogFormatXLSX {
		c.Header("Content-Disposition", `attachment; filename="rename-log.xlsx"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", res.Payload)
		return
	}
	SendJSONResponse(c, http.StatusOK, gin.H{"csv": string(res.Payload)})
}

// HandleCompare сравнение двух архивов
// @Summary Compare two archives
// @Tags compare
// @Accept multipart/form-data
// @Produce json
// @Param zip1 formData file true "First archive"
// @Param zip2 formData file true "Second archive"
// @Param path_mode formData string false "full (default) or basename"
// @Success 200 {object} diff.Result
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Router /api/compare [post]
func (h *RenamerHandler) HandleCompare(c *gin.Context) {
	zip1, err := readUpload(c, "zip1")
	if err != nil {
		SendError(c, err)
		return
	}
	zip2, err := readUpload(c, "zip2")
	if err != nil {
		SendError(c, err)
		return
	}

	res, err := h.service.Compare(c.Request.Context(), services.CompareRequest{
		Archive1: zip1,
		Archive2: zip2,
		PathMode: c.PostForm("path_mode"),
	})
	if err != nil {
		SendError(c, err)
		return
	}
	SendJSONResponse(c, http.StatusOK, res)
}

// HandleValidateHTML5 проверка HTML5-креатива
// @Summary Validate an HTML5 creative
// @Tags html5
// @Accept multipart/form-data
// @Produce json
// @Param zip_file formData file true "HTML5 creative archive"
// @Success 200 {object} html5.Report
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Router /api/html5/validate [post]
func (h *RenamerHandler) HandleValidateHTML5(c *gin.Context) {
	upload, err := readUpload(c, "zip_file")
	if err != nil {
		SendError(c, err)
		return
	}

	report, err := h.service.ValidateHTML5(c.Request.Context(), upload)
	if err != nil {
		SendError(c, err)
		return
	}
	SendJSONResponse(c, http.StatusOK, report)
}
