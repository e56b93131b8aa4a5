package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"created to paid", OrderStatusCreated, OrderStatusPaid, true},
		{"created to failed", OrderStatusCreated, OrderStatusFailed, true},
		{"paid is terminal", OrderStatusPaid, OrderStatusCreated, false},
		{"paid cannot fail", OrderStatusPaid, OrderStatusFailed, false},
		{"failed is terminal", OrderStatusFailed, OrderStatusPaid, false},
		{"unknown status", "shipped", OrderStatusPaid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, CanTransitionTo(tt.from, tt.to))
		})
	}
}
