package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobStatusTransitions(t *testing.T) {
	tests := []struct {
		from JobStatus
		to   JobStatus
		want bool
	}{
		{JobStatusOpen, JobStatusAssigned, true},
		{JobStatusOpen, JobStatusInProgress, true},
		{JobStatusOpen, JobStatusCancelled, true},
		{JobStatusOpen, JobStatusCompleted, false},
		{JobStatusInProgress, JobStatusAssigned, true},
		{JobStatusInProgress, JobStatusCancelled, true},
		{JobStatusInProgress, JobStatusCompleted, false},
		{JobStatusAssigned, JobStatusCompleted, true},
		{JobStatusAssigned, JobStatusCancelled, true},
		{JobStatusAssigned, JobStatusAssigned, false},
		{JobStatusCompleted, JobStatusCancelled, false},
		{JobStatusCompleted, JobStatusAssigned, false},
		{JobStatusCancelled, JobStatusAssigned, false},
		{JobStatusCancelled, JobStatusCancelled, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestJobStatusTerminal(t *testing.T) {
	assert.False(t, JobStatusOpen.IsTerminal())
	assert.False(t, JobStatusInProgress.IsTerminal())
	assert.False(t, JobStatusAssigned.IsTerminal())
	assert.True(t, JobStatusCompleted.IsTerminal())
	assert.True(t, JobStatusCancelled.IsTerminal())
}

func TestJobStatusAcceptsBids(t *testing.T) {
	assert.True(t, JobStatusOpen.AcceptsBids())
	assert.False(t, JobStatusAssigned.AcceptsBids())
	assert.False(t, JobStatusInProgress.AcceptsBids())
	assert.False(t, JobStatusCompleted.AcceptsBids())
	assert.False(t, JobStatusCancelled.AcceptsBids())
}

func TestBidStatusTerminal(t *testing.T) {
	assert.False(t, BidStatusPending.IsTerminal())
	assert.True(t, BidStatusAccepted.IsTerminal())
	assert.True(t, BidStatusRejected.IsTerminal())
	assert.True(t, BidStatusWithdrawn.IsTerminal())
}
