package priority

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type queued struct {
	id      string
	score   int
	created time.Time
}

func TestSortQueue(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	items := []queued{
		{id: "newer-medium", score: 55, created: base.Add(2 * time.Hour)},
		{id: "low", score: 20, created: base},
		{id: "high", score: 80, created: base.Add(3 * time.Hour)},
		{id: "older-medium", score: 55, created: base.Add(time.Hour)},
		{id: "twin-a", score: 0, created: base},
		{id: "twin-b", score: 0, created: base},
	}

	SortQueue(items,
		func(q queued) int { return q.score },
		func(q queued) time.Time { return q.created },
	)

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.id)
	}
	assert.Equal(t, []string{"high", "older-medium", "newer-medium", "low", "twin-a", "twin-b"}, ids)
}
