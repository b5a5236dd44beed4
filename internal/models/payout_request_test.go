package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionPayout(t *testing.T) {
	allowed := []struct{ from, to PayoutStatus }{
		{PayoutStatusPending, PayoutStatusApproved},
		{PayoutStatusPending, PayoutStatusRejected},
		{PayoutStatusApproved, PayoutStatusProcessing},
		{PayoutStatusApproved, PayoutStatusRejected},
		{PayoutStatusProcessing, PayoutStatusCompleted},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransitionPayout(tc.from, tc.to), "%s -> %s должен быть разрешен", tc.from, tc.to)
	}

	forbidden := []struct{ from, to PayoutStatus }{
		{PayoutStatusPending, PayoutStatusCompleted},
		{PayoutStatusPending, PayoutStatusProcessing},
		{PayoutStatusProcessing, PayoutStatusRejected},
		{PayoutStatusCompleted, PayoutStatusRejected},
		{PayoutStatusRejected, PayoutStatusPending},
		{PayoutStatusCompleted, PayoutStatusPending},
		{PayoutStatusApproved, PayoutStatusCompleted},
	}
	for _, tc := range forbidden {
		assert.False(t, CanTransitionPayout(tc.from, tc.to), "%s -> %s должен быть запрещен", tc.from, tc.to)
	}
}
