package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderResponse struct {
	ID              string              `json:"id"`
	OrderNumber     string              `json:"orderNumber"`
	UserID          string              `json:"userId"`
	Status          string              `json:"status"`
	Total           decimal.Decimal     `json:"total"`
	ShippingName    string              `json:"shippingName"`
	ShippingEmail   string              `json:"shippingEmail"`
	ShippingAddress string              `json:"shippingAddress"`
	ShippingCity    string              `json:"shippingCity"`
	ShippingZip     string              `json:"shippingZip"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
	Items           []OrderItemResponse `json:"orderItems"`
	User            *UserSummary        `json:"user,omitempty"`
}

type OrderItemResponse struct {
	ID        uint            `json:"id"`
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Product   *ProductSummary `json:"product,omitempty"`
}

type ProductSummary struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Slug  string          `json:"slug"`
	Image string          `json:"image"`
	Price decimal.Decimal `json:"price"`
}

type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewPagination derives totalPages as ceil(total/limit).
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

type ListOrdersResponse struct {
	Orders     []OrderResponse `json:"orders"`
	Pagination Pagination      `json:"pagination"`
}

type CancelOrderResponse struct {
	Message     string `json:"message"`
	OrderNumber string `json:"orderNumber"`
	Status      string `json:"status,omitempty"`
}
