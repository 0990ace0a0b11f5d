package dto

import "github.com/shopspring/decimal"

type CartLineStatus string

const (
	CartLineOK           CartLineStatus = "OK"
	CartLineAdjusted     CartLineStatus = "ADJUSTED"
	CartLinePriceChanged CartLineStatus = "PRICE_CHANGED"
	CartLineOutOfStock   CartLineStatus = "OUT_OF_STOCK"
	CartLineUnavailable  CartLineStatus = "UNAVAILABLE"
)

type ReconcileCartRequest struct {
	Items []CartLineRequest `json:"items" validate:"required,min=1,max=100,dive"`
}

type CartLineRequest struct {
	ProductID string          `json:"productId" validate:"required"`
	Quantity  int             `json:"quantity" validate:"gt=0,lte=10000"`
	Price     decimal.Decimal `json:"price" validate:"gte=0,money"`
}

type CartLineResult struct {
	ProductID         string           `json:"productId"`
	Name              string           `json:"name,omitempty"`
	Slug              string           `json:"slug,omitempty"`
	Image             string           `json:"image,omitempty"`
	RequestedQuantity int              `json:"requestedQuantity"`
	Quantity          int              `json:"quantity"`
	CartPrice         decimal.Decimal  `json:"cartPrice"`
	CurrentPrice      *decimal.Decimal `json:"currentPrice,omitempty"`
	Stock             int              `json:"stock"`
	Status            CartLineStatus   `json:"status"`
}

// ReconcileCartResponse lists every merged cart line with its live state.
// CheckoutItems carries the purchasable lines at live prices, ready for
// POST /api/orders.
type ReconcileCartResponse struct {
	Lines         []CartLineResult         `json:"lines"`
	CheckoutItems []CreateOrderItemRequest `json:"checkoutItems"`
	Total         decimal.Decimal          `json:"total"`
	CanCheckout   bool                     `json:"canCheckout"`
}
