package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderItem_Creation(t *testing.T) {
	item := OrderItem{
		ID:        1,
		OrderID:   "order-1",
		ProductID: "product-5",
		Quantity:  3,
		Price:     decimal.RequireFromString("29.99"),
	}

	assert.Equal(t, uint(1), item.ID)
	assert.Equal(t, "order-1", item.OrderID)
	assert.Equal(t, "product-5", item.ProductID)
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, "order_items", item.TableName())
}

func TestOrderItem_Subtotal(t *testing.T) {
	item := OrderItem{Quantity: 3, Price: decimal.RequireFromString("29.99")}

	assert.Equal(t, "89.97", item.Subtotal().String())
}
