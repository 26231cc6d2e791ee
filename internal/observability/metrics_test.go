package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsRecordRequest(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/dashboard", "GET", 200, 15*time.Millisecond)
	m.RecordRequest("/dashboard", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/dashboard", "GET", 500, time.Millisecond)

	assert.Equal(t, int64(2), m.RequestCount("/dashboard", "GET", 200))
	assert.Equal(t, int64(1), m.RequestCount("/dashboard", "GET", 500))
	assert.Zero(t, m.RequestCount("/criar", "GET", 200))
}

func TestMetricsNilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, 0)
	m.RecordError("/", "GET", "INTERNAL_ERROR")
	assert.Zero(t, m.RequestCount("/", "GET", 200))
}
