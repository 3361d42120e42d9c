package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to TicketStatus
		want     bool
	}{
		{TicketStatusOpen, TicketStatusInProgress, true},
		{TicketStatusOpen, TicketStatusResolved, false},
		{TicketStatusInProgress, TicketStatusResolved, true},
		{TicketStatusResolved, TicketStatusClosed, true},
		{TicketStatusResolved, TicketStatusInProgress, true},
		{TicketStatusClosed, TicketStatusOpen, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransition(tt.to), "%s -> %s", tt.from, tt.to)
	}
	assert.False(t, TicketStatus("ARCHIVED").Valid())
}

func TestIsKnownTag(t *testing.T) {
	assert.Len(t, TicketTags, 11)
	assert.True(t, IsKnownTag("Sin WiFi"))
	assert.True(t, IsKnownTag("recepción"))
	assert.False(t, IsKnownTag("recepcion"))
	assert.False(t, IsKnownTag("Impresora color"))
}

func TestRoles(t *testing.T) {
	assert.True(t, RoleSupport.IsStaff())
	assert.True(t, RoleSupervisor.IsStaff())
	assert.False(t, RoleUser.IsStaff())
	assert.False(t, Role("admin").Valid())
}
