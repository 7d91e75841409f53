package errors

import (
	"sync"
	"time"
)

// ErrorMetricsCollector собирает метрики ошибок для мониторинга
type ErrorMetricsCollector struct {
	mu sync.RWMutex

	totalErrors      int64
	errorsByKind     map[Kind]int64
	errorsByCode     map[int]int64
	errorsByEndpoint map[string]int64

	lastErrors    []ErrorRecord // Последние N ошибок, новые в начале
	maxLastErrors int

	startTime time.Time
}

// ErrorRecord запись об ошибке
type ErrorRecord struct {
	Timestamp   time.Time `json:"timestamp"`
	Kind        Kind      `json:"kind"`
	Code        int       `json:"code"`
	Endpoint    string    `json:"endpoint"`
	RequestID   string    `json:"request_id"`
	UserMessage string    `json:"user_message"`
}

// ErrorMetrics снимок метрик
type ErrorMetrics struct {
	TotalErrors      int64            `json:"total_errors"`
	ErrorsByKind     map[Kind]int64   `json:"errors_by_kind"`
	ErrorsByCode     map[int]int64    `json:"errors_by_code"`
	ErrorsByEndpoint map[string]int64 `json:"errors_by_endpoint"`
	LastErrors       []ErrorRecord    `json:"last_errors"`
	UptimeSeconds    float64          `json:"uptime_seconds"`
}

// NewErrorMetricsCollector создает новый сборщик метрик ошибок
func NewErrorMetricsCollector() *ErrorMetricsCollector {
	return &ErrorMetricsCollector{
		errorsByKind:     make(map[Kind]int64),
		errorsByCode:     make(map[int]int64),
		errorsByEndpoint: make(map[string]int64),
		lastErrors:       make([]ErrorRecord, 0),
		maxLastErrors:    100,
		startTime:        time.Now(),
	}
}

// RecordError записывает ошибку в метрики
func (emc *ErrorMetricsCollector) RecordError(err *AppError, endpoint, requestID string) {
	emc.mu.Lock()
	defer emc.mu.Unlock()

	emc.totalErrors++
	emc.errorsByKind[err.Kind]++
	emc.errorsByCode[err.Code]++
	if endpoint != "" {
		emc.errorsByEndpoint[endpoint]++
	}

	record := ErrorRecord{
		Timestamp:   time.Now(),
		Kind:        err.Kind,
		Code:        err.Code,
		Endpoint:    endpoint,
		RequestID:   requestID,
		UserMessage: err.UserMessage(),
	}
	emc.lastErrors = append([]ErrorRecord{record}, emc.lastErrors...)
	if len(emc.lastErrors) > emc.maxLastErrors {
		emc.lastErrors = emc.lastErrors[:emc.maxLastErrors]
	}
}

// Snapshot возвращает копию текущих метрик
func (emc *ErrorMetricsCollector) Snapshot() ErrorMetrics {
	emc.mu.RLock()
	defer emc.mu.RUnlock()

	byKind := make(map[Kind]int64, len(emc.errorsByKind))
	for k, v := range emc.errorsByKind {
		byKind[k] = v
	}
	byCode := make(map[int]int64, len(emc.errorsByCode))
	for k, v := range emc.errorsByCode {
		byCode[k] = v
	}
	byEndpoint := make(map[string]int64, len(emc.errorsByEndpoint))
	for k, v := range emc.errorsByEndpoint {
		byEndpoint[k] = v
	}
	last := make([]ErrorRecord, len(emc.lastErrors))
	copy(last, emc.lastErrors)

	return ErrorMetrics{
		TotalErrors:      emc.totalErrors,
		ErrorsByKind:     byKind,
		ErrorsByCode:     byCode,
		ErrorsByEndpoint: byEndpoint,
		LastErrors:       last,
		UptimeSeconds:    time.Since(emc.startTime).Seconds(),
	}
}

// Reset сбрасывает все метрики
func (emc *ErrorMetricsCollector) Reset() {
	emc.mu.Lock()
	defer emc.mu.Unlock()

	emc.totalErrors = 0
	emc.errorsByKind = make(map[Kind]int64)
	emc.errorsByCode = make(map[int]int64)
	emc.errorsByEndpoint = make(map[string]int64)
	emc.lastErrors = make([]ErrorRecord, 0)
	emc.startTime = time.Now()
}
