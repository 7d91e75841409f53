// Package errors описывает ошибки HTTP-слоя сервиса переименования.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind категория ошибки, возвращаемая клиенту
type Kind string

const (
	// KindValidation некорректные входные данные (нет файла, неверный параметр)
	KindValidation Kind = "InputValidationError"
	// KindFormat файл получен, но не разбирается (битый ZIP, нечитаемый лист)
	KindFormat Kind = "FormatError"
	// KindTooManyRequests превышен лимит запросов
	KindTooManyRequests Kind = "TooManyRequestsError"
	// KindNotFound неизвестный маршрут
	KindNotFound Kind = "NotFoundError"
	// KindInternal непредвиденная ошибка
	KindInternal Kind = "InternalError"
)

// AppError представляет ошибку приложения с HTTP статусом и контекстом
type AppError struct {
	Code    int    `json:"status_code"` // HTTP статус код
	Kind    Kind   `json:"kind"`        // Категория ошибки
	Message string `json:"message"`     // Сообщение для пользователя
	Err     error  `json:"-"`           // Внутренняя ошибка для логов, не сериализуется
	Context string `json:"-"`           // Дополнительный контекст (операция, файл)
}

// Error реализует интерфейс error
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap возвращает вложенную ошибку для errors.Is и errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode возвращает HTTP статус код ошибки
// Реализует интерфейс middleware.HTTPError
func (e *AppError) StatusCode() int {
	return e.Code
}

// UserMessage возвращает сообщение для пользователя
// Реализует интерфейс middleware.HTTPError
func (e *AppError) UserMessage() string {
	return e.Message
}

// GetContext возвращает контекст ошибки
// Реализует интерфейс middleware.HTTPError
func (e *AppError) GetContext() string {
	return e.Context
}

// GetKind возвращает категорию ошибки
// Реализует интерфейс middleware.HTTPError
func (e *AppError) GetKind() string {
	return string(e.Kind)
}

// WithContext добавляет контекст к ошибке
func (e *AppError) WithContext(context string) *AppError {
	e.Context = context
	return e
}

// NewValidationError создает ошибку 400 Bad Request
func NewValidationError(message string, err error) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindValidation,
		Message: message,
		Err:     err,
	}
}

// NewFormatError создает ошибку 422 Unprocessable Entity
func NewFormatError(message string, err error) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindFormat,
		Message: message,
		Err:     err,
	}
}

// NewTooManyRequestsError создает ошибку 429 Too Many Requests
func NewTooManyRequestsError(message string) *AppError {
	return &AppError{
		Code:    http.StatusTooManyRequests,
		Kind:    KindTooManyRequests,
		Message: message,
	}
}

// NewNotFoundError создает ошибку 404 Not Found
func NewNotFoundError(message string, err error) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: message,
		Err:     err,
	}
}

// NewInternalError создает ошибку 500 Internal Server Error
// Для пользователя возвращается общее сообщение, детали только в логах
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindInternal,
		Message: "Internal server error",               // Общее сообщение для пользователя
		Err:     errors.Join(errors.New(message), err), // Детали для лога
	}
}
