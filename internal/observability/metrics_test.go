package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hotel-it/helpdesk/internal/priority"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/tickets", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/tickets", "GET", 200, 30*time.Millisecond)
	m.RecordError("/tickets", "POST", "VALIDATION_FAILED")
	m.RecordPriority(priority.LevelHigh)
	m.RecordPriority(priority.LevelHigh)
	m.RecordPriority(priority.LevelLow)

	snap := m.Snapshot()

	assert.Equal(t, int64(2), snap.Requests["/tickets|GET|200"])
	assert.InDelta(t, 20.0, snap.AvgLatencyMs["/tickets|GET|200"], 0.001)
	assert.Equal(t, int64(1), snap.Errors["/tickets|POST|VALIDATION_FAILED"])
	assert.Equal(t, int64(2), snap.PriorityLevels[priority.LevelHigh])
	assert.Equal(t, int64(1), snap.PriorityLevels[priority.LevelLow])
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	m.RecordPriority(priority.LevelMedium)

	assert.Empty(t, m.Snapshot().Requests)
}
