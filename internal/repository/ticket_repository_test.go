package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hotel-it/helpdesk/internal/domain"
)

func TestBuildListQueryDefaults(t *testing.T) {
	query, args := buildListQuery(TicketFilter{})

	assert.Empty(t, args)
	assert.Contains(t, query, "WHERE 1=1 ORDER BY created_at DESC, id DESC LIMIT 20 OFFSET 0")
}

func TestBuildListQueryFilters(t *testing.T) {
	owner := "user-1"
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	query, args := buildListQuery(TicketFilter{
		CreatedBy:   &owner,
		Statuses:    []domain.TicketStatus{domain.TicketStatusOpen, domain.TicketStatusInProgress},
		CreatedFrom: &from,
		OldestFirst: true,
		Limit:       10_000,
		Offset:      -4,
	})

	assert.Equal(t, []any{owner, domain.TicketStatusOpen, domain.TicketStatusInProgress, from}, args)
	assert.True(t, strings.Contains(query, "created_by=$1"))
	assert.True(t, strings.Contains(query, "status IN ($2,$3)"))
	assert.True(t, strings.Contains(query, "created_at >= $4"))
	assert.True(t, strings.HasSuffix(query, "ORDER BY created_at ASC, id ASC LIMIT 500 OFFSET 0"))
}
