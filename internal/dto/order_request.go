package dto

import (
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type CreateOrderRequest struct {
	UserID          string                   `json:"userId" validate:"required"`
	Items           []CreateOrderItemRequest `json:"items" validate:"required,min=1,max=100,dive"`
	ShippingName    string                   `json:"shippingName" validate:"required"`
	ShippingEmail   string                   `json:"shippingEmail" validate:"required,email"`
	ShippingAddress string                   `json:"shippingAddress" validate:"required"`
	ShippingCity    string                   `json:"shippingCity" validate:"required"`
	ShippingZip     string                   `json:"shippingZip" validate:"required"`
}

type CreateOrderItemRequest struct {
	ProductID string          `json:"productId" validate:"required"`
	Quantity  int             `json:"quantity" validate:"gt=0,lte=10000"`
	Price     decimal.Decimal `json:"price" validate:"gt=0,money"`
}

type UpdateOrderRequest struct {
	Status string `json:"status" validate:"required,orderstatus"`
}

// OrderItemInput is one validated checkout line.
type OrderItemInput struct {
	ProductID string
	Quantity  int
	Price     decimal.Decimal
}

type CreateOrderInput struct {
	UserID   string
	Items    []OrderItemInput
	Shipping domain.ShippingInfo
}

type OrderFilter struct {
	UserID string
	Status domain.OrderStatus
}
