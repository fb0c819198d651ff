package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidTransition(t *testing.T) {
	tests := []struct {
		name  string
		from  OrderStatus
		to    OrderStatus
		valid bool
	}{
		{"pending to processing", OrderStatusPending, OrderStatusProcessing, true},
		{"pending to cancelled", OrderStatusPending, OrderStatusCancelled, true},
		{"pending to completed", OrderStatusPending, OrderStatusCompleted, false},
		{"processing to completed", OrderStatusProcessing, OrderStatusCompleted, true},
		{"processing to cancelled", OrderStatusProcessing, OrderStatusCancelled, false},
		{"processing to pending", OrderStatusProcessing, OrderStatusPending, false},
		{"completed is terminal", OrderStatusCompleted, OrderStatusCancelled, false},
		{"cancelled is terminal", OrderStatusCancelled, OrderStatusPending, false},
		{"same status is not a transition", OrderStatusPending, OrderStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidTransition(tt.from, tt.to))
		})
	}
}
