package monitoring

import (
	"sync"
	"time"
)

// maxDurations сколько последних длительностей хранится для среднего
const maxDurations = 1000

// MetricsCollector собирает метрики HTTP-запросов
type MetricsCollector struct {
	mu sync.RWMutex

	requestsTotal   int64
	requestsSuccess int64
	requestsError   int64
	requestsByRoute map[string]int64
	durations       []time.Duration

	startTime     time.Time
	lastResetTime time.Time
}

// Metrics снимок метрик
type Metrics struct {
	RequestsTotal     int64            `json:"requests_total"`
	RequestsSuccess   int64            `json:"requests_success"`
	RequestsError     int64            `json:"requests_error"`
	SuccessRate       float64          `json:"success_rate"`
	AvgDurationMs     int64            `json:"avg_duration_ms"`
	RequestsPerSecond float64          `json:"requests_per_second"`
	RequestsByRoute   map[string]int64 `json:"requests_by_route"`
	UptimeSeconds     float64          `json:"uptime_seconds"`
	StartTime         string           `json:"start_time"`
	LastReset         string           `json:"last_reset"`
}

// NewMetricsCollector создает новый сборщик метрик
func NewMetricsCollector() *MetricsCollector {
	now := time.Now()
	return &MetricsCollector{
		requestsByRoute: make(map[string]int64),
		startTime:       now,
		lastResetTime:   now,
	}
}

// RecordHTTPRequest записывает HTTP запрос; статус >= 400 считается ошибкой
func (mc *MetricsCollector) RecordHTTPRequest(route string, status int, duration time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.requestsTotal++
	if status < 400 {
		mc.requestsSuccess++
	} else {
		mc.requestsError++
	}
	if route != "" {
		mc.requestsByRoute[route]++
	}

	mc.durations = append(mc.durations, duration)
	if len(mc.durations) > maxDurations {
		mc.durations = mc.durations[len(mc.durations)-maxDurations:]
	}
}

// Snapshot возвращает текущие метрики
func (mc *MetricsCollector) Snapshot() Metrics {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	avg := time.Duration(0)
	if len(mc.durations) > 0 {
		var total time.Duration
		for _, d := range mc.durations {
			total += d
		}
		avg = total / time.Duration(len(mc.durations))
	}

	successRate := 0.0
	if mc.requestsTotal > 0 {
		successRate = float64(mc.requestsSuccess) / float64(mc.requestsTotal) * 100
	}

	uptime := time.Since(mc.startTime).Seconds()
	rps := 0.0
	if uptime > 0 {
		rps = float64(mc.requestsTotal) / uptime
	}

	byRoute := make(map[string]int64, len(mc.requestsByRoute))
	for k, v := range mc.requestsByRoute {
		byRoute[k] = v
	}

	return Metrics{
		RequestsTotal:     mc.requestsTotal,
		RequestsSuccess:   mc.requestsSuccess,
		RequestsError:     mc.requestsError,
		SuccessRate:       successRate,
		AvgDurationMs:     avg.Milliseconds(),
		RequestsPerSecond: rps,
		RequestsByRoute:   byRoute,
		UptimeSeconds:     uptime,
		StartTime:         mc.startTime.Format(time.RFC3339),
		LastReset:         mc.lastResetTime.Format(time.RFC3339),
	}
}

// Reset сбрасывает метрики
func (mc *MetricsCollector) Reset() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.requestsTotal = 0
	mc.requestsSuccess = 0
	mc.requestsError = 0
	mc.requestsByRoute = make(map[string]int64)
	mc.durations = nil
	mc.lastResetTime = time.Now()
}
