package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "creativerenamer/server/errors"
)

// Глобальный сборщик метрик ошибок
var globalErrorMetrics = apperrors.NewErrorMetricsCollector()

// GetErrorMetrics возвращает глобальный сборщик метрик ошибок
func GetErrorMetrics() *apperrors.ErrorMetricsCollector {
	return globalErrorMetrics
}

// HTTPError интерфейс для ошибок с HTTP статусом и сообщением
// Используется для избежания циклических зависимостей
type HTTPError interface {
	error
	StatusCode() int
	UserMessage() string
	GetContext() string
	GetKind() string
	Unwrap() error
}

// ErrorResponse структура ответа об ошибке
type ErrorResponse struct {
	Error     bool   `json:"error"`
	Message   string `json:"message"`
	Kind      string `json:"kind"`
	RequestID string `json:"request_id,omitempty"`
	Timestamp string `json:"timestamp"`
}

// HandleGinError обрабатывает ошибку и возвращает JSON ответ
// Поддерживает HTTPError интерфейс для правильной обработки статус кодов и сообщений
func HandleGinError(c *gin.Context, err error) {
	reqID := GetRequestIDFromGin(c)
	endpoint := c.Request.URL.Path

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		// Обычная ошибка - используем дефолтные значения
		appErr = apperrors.NewInternalError("unhandled error", err)
	}

	var httpErr HTTPError = appErr
	GetErrorMetrics().RecordError(appErr, endpoint, reqID)

	logArgs := []any{
		"error", httpErr.Unwrap(),
		"user_message", httpErr.UserMessage(),
		"kind", httpErr.GetKind(),
		"context", httpErr.GetContext(),
		"status_code", httpErr.StatusCode(),
		"request_id", reqID,
		"method", c.Request.Method,
		"path", endpoint,
	}
	if httpErr.StatusCode() >= http.StatusInternalServerError {
		slog.Error("HTTP error", logArgs...)
	} else {
		slog.Warn("HTTP error", logArgs...)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(httpErr.StatusCode(), ErrorResponse{
		Error:     true,
		Message:   httpErr.UserMessage(),
		Kind:      httpErr.GetKind(),
		RequestID: reqID,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// GinNoRouteHandler отвечает на неизвестные маршруты в формате ошибок API
func GinNoRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleGinError(c, apperrors.NewNotFoundError("Route not found: "+c.Request.URL.Path, nil))
	}
}
