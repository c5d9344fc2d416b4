package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApprovalStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from ApprovalStatus
		to   ApprovalStatus
		want bool
	}{
		{name: "pending to approved", from: StatusPending, to: StatusApproved, want: true},
		{name: "pending to rejected", from: StatusPending, to: StatusRejected, want: true},
		{name: "pending to pending", from: StatusPending, to: StatusPending, want: false},
		{name: "approved is terminal", from: StatusApproved, to: StatusRejected, want: false},
		{name: "approved cannot reenter pending", from: StatusApproved, to: StatusPending, want: false},
		{name: "rejected is terminal", from: StatusRejected, to: StatusApproved, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestApprovalStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusApproved.Terminal())
	assert.True(t, StatusRejected.Terminal())
}

func TestApprovalStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusApproved.Valid())
	assert.True(t, StatusRejected.Valid())
	assert.False(t, ApprovalStatus("cancelled").Valid())
	assert.False(t, ApprovalStatus("").Valid())
}

func TestEventKindValid(t *testing.T) {
	assert.True(t, KindClass.Valid())
	assert.True(t, KindEvent.Valid())
	assert.False(t, EventKind("meeting").Valid())
}
