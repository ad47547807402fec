package services

import (
	"strings"
	"testing"

	"marlex/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from    string
		to      string
		allowed bool
	}{
		{models.OrderStatusPending, models.OrderStatusPreparing, true},
		{models.OrderStatusPending, models.OrderStatusCancelled, true},
		{models.OrderStatusPending, models.OrderStatusDelivered, false},
		{models.OrderStatusPreparing, models.OrderStatusDelivered, true},
		{models.OrderStatusPreparing, models.OrderStatusCancelled, true},
		{models.OrderStatusPreparing, models.OrderStatusPending, false},
		{models.OrderStatusDelivered, models.OrderStatusPending, false},
		{models.OrderStatusDelivered, models.OrderStatusCancelled, false},
		{models.OrderStatusCancelled, models.OrderStatusPending, false},
	}

	for _, tt := range tests {
		name := tt.from + "_to_" + tt.to
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, canTransition(tt.from, tt.to))
		})
	}
}

func TestGenerateOrderNumberFormat(t *testing.T) {
	number := generateOrderNumber()

	assert.True(t, strings.HasPrefix(number, "ORD"))
	// ORD + 14位时间戳 + 4位随机后缀
	assert.Len(t, number, 21)
}
