package monitoring

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsCollector_RecordAndSnapshot(t *testing.T) {
	mc := NewMetricsCollector()

	mc.RecordHTTPRequest("/api/preview", http.StatusOK, 10*time.Millisecond)
	mc.RecordHTTPRequest("/api/preview", http.StatusUnprocessableEntity, 30*time.Millisecond)
	mc.RecordHTTPRequest("/api/compare", http.StatusOK, 20*time.Millisecond)

	m := mc.Snapshot()
	assert.Equal(t, int64(3), m.RequestsTotal)
	assert.Equal(t, int64(2), m.RequestsSuccess)
	assert.Equal(t, int64(1), m.RequestsError)
	assert.Equal(t, int64(20), m.AvgDurationMs)
	assert.InDelta(t, 66.67, m.SuccessRate, 0.01)
	assert.Equal(t, map[string]int64{"/api/preview": 2, "/api/compare": 1}, m.RequestsByRoute)

	// Снимок не связан с внутренним состоянием
	m.RequestsByRoute["/api/preview"] = 100
	assert.Equal(t, int64(2), mc.Snapshot().RequestsByRoute["/api/preview"])
}

func TestMetricsCollector_Reset(t *testing.T) {
	mc := NewMetricsCollector()
	mc.RecordHTTPRequest("/api/rename", http.StatusInternalServerError, time.Millisecond)

	mc.Reset()

	m := mc.Snapshot()
	assert.Zero(t, m.RequestsTotal)
	assert.Zero(t, m.AvgDurationMs)
	assert.Empty(t, m.RequestsByRoute)
}

func TestMetricsCollector_Concurrent(t *testing.T) {
	mc := NewMetricsCollector()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 250; j++ {
				mc.RecordHTTPRequest("/api/log", http.StatusOK, time.Microsecond)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(2000), mc.Snapshot().RequestsTotal)
}
