package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"creativerenamer/server/middleware"
	"creativerenamer/server/monitoring"
)

// defaultLastErrors сколько последних ошибок отдается по умолчанию
const defaultLastErrors = 50

// MetricsHandler обработчик метрик запросов и ошибок
type MetricsHandler struct {
	collector *monitoring.MetricsCollector
}

// NewMetricsHandler создает обработчик метрик
func NewMetricsHandler(collector *monitoring.MetricsCollector) *MetricsHandler {
	return &MetricsHandler{collector: collector}
}

// RegisterRoutes регистрирует маршруты метрик
func (h *MetricsHandler) RegisterRoutes(router *gin.Engine) {
	metrics := router.Group("/api/metrics")
	metrics.GET("", h.HandleMetrics)
	metrics.GET("/errors", h.HandleErrorMetrics)
	metrics.POST("/errors/reset", h.HandleResetErrorMetrics)
}

// HandleMetrics метрики HTTP-запросов
// @Summary Request metrics
// @Tags system
// @Produce json
// @Success 200 {object} monitoring.Metrics
// @Router /api/metrics [get]
func (h *MetricsHandler) HandleMetrics(c *gin.Context) {
	SendJSONResponse(c, http.StatusOK, h.collector.Snapshot())
}

// HandleErrorMetrics метрики ошибок API; limit ограничивает список последних ошибок
// @Summary Error metrics
// @Tags system
// @Produce json
// @Param limit query int false "Number of last errors (default 50)"
// @Success 200 {object} errors.ErrorMetrics
// @Router /api/metrics/errors [get]
func (h *MetricsHandler) HandleErrorMetrics(c *gin.Context) {
	limit := defaultLastErrors
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	snapshot := middleware.GetErrorMetrics().Snapshot()
	if len(snapshot.LastErrors) > limit {
		snapshot.LastErrors = snapshot.LastErrors[:limit]
	}
	SendJSONResponse(c, http.StatusOK, snapshot)
}

// HandleResetErrorMetrics сбрасывает метрики ошибок
// @Summary Reset error metrics
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/metrics/errors/reset [post]
func (h *MetricsHandler) HandleResetErrorMetrics(c *gin.Context) {
	middleware.GetErrorMetrics().Reset()
	SendJSONResponse(c, http.StatusOK, gin.H{
		"success": true,
		"message": "Метрики ошибок сброшены",
	})
}
