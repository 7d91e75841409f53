package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "creativerenamer/server/errors"
	"creativerenamer/server/middleware"
	"creativerenamer/server/services"
)

// SendJSONResponse отправляет JSON ответ через Gin context
func SendJSONResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// SendError отправляет ошибку в едином формате API
func SendError(c *gin.Context, err error) {
	middleware.HandleGinError(c, err)
}

// readUpload читает файл формы целиком; отсутствующий файл дает пустой Upload
func readUpload(c *gin.Context, field string) (services.Upload, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return services.Upload{}, nil
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return services.Upload{}, apperrors.NewValidationError(
				fmt.Sprintf("Upload exceeds the %d byte limit", maxErr.Limit), err)
		}
		return services.Upload{}, apperrors.NewValidationError("Request must be multipart/form-data", err)
	}

	file, err := header.Open()
	if err != nil {
		return services.Upload{}, apperrors.NewInternalError("open upload "+field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return services.Upload{}, apperrors.NewInternalError("read upload "+field, err)
	}
	return services.Upload{Filename: header.Filename, Data: data}, nil
}

// optionalFloat разбирает необязательный числовой параметр формы
func optionalFloat(c *gin.Context, field string) (*float64, error) {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("%s must be a number", field), err)
	}
	return &v, nil
}

// optionalInt разбирает необязательный целочисленный параметр формы
func optionalInt(c *gin.Context, field string) (*int, error) {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return nil, apperrors.NewValidationError(fmt.Sprintf("%s must be a non-negative integer", field), err)
	}
	return &v, nil
}
