package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/stylometer/internal/model"
)

// counterValue returns the value of the counter series with exactly these labels
func counterValue(t *testing.T, m *Metrics, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
	series:
		for _, metric := range family.GetMetric() {
			if len(metric.GetLabel()) != len(labels) {
				continue
			}
			for _, pair := range metric.GetLabel() {
				if labels[pair.GetName()] != pair.GetValue() {
					continue series
				}
			}
			return metric.GetCounter().GetValue()
		}
	}
	return 0
}

func TestObserveOperation(t *testing.T) {
	m := New()

	m.ObserveOperation(model.OperationScore, "local", true, 3*time.Millisecond)
	m.ObserveOperation(model.OperationScore, "local", true, time.Millisecond)
	m.ObserveOperation(model.OperationHumanize, "openai", false, time.Second)

	assert.Equal(t, 2.0, counterValue(t, m, "stylometer_operations_total",
		map[string]string{"operation": "score", "source": "local", "fallback": "true"}))
	assert.Equal(t, 1.0, counterValue(t, m, "stylometer_operations_total",
		map[string]string{"operation": "humanize", "source": "openai", "fallback": "false"}))
}

func TestObserveProviderFailure(t *testing.T) {
	m := New()

	m.ObserveProviderFailure("gemini", model.OperationRemove, "timeout")
	m.ObserveProviderFailure("gemini", model.OperationRemove, "timeout")

	assert.Equal(t, 2.0, counterValue(t, m, "stylometer_provider_failures_total",
		map[string]string{"provider": "gemini", "operation": "remove_phrasing", "kind": "timeout"}))
}

func TestObserveHTTP(t *testing.T) {
	m := New()

	m.ObserveHTTP("POST", "/api/detect-text", 200, 10*time.Millisecond)
	m.ObserveHTTP("GET", "", 404, time.Millisecond)

	assert.Equal(t, 1.0, counterValue(t, m, "stylometer_http_requests_total",
		map[string]string{"method": "POST", "route": "/api/detect-text", "status": "200"}))
	assert.Equal(t, 1.0, counterValue(t, m, "stylometer_http_requests_total",
		map[string]string{"method": "GET", "route": "unmatched", "status": "404"}))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveOperation(model.OperationScore, "local", true, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `stylometer_operations_total{fallback="true",operation="score",source="local"} 1`)
	assert.Contains(t, body, "stylometer_operation_duration_seconds_bucket")
	assert.Contains(t, body, "go_goroutines")
}
