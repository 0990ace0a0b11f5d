package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	SortByName      = "name"
	SortByPrice     = "price"
	SortByCreatedAt = "createdAt"
	SortByStock     = "stock"
)

// ProductFilter narrows a catalog listing. Only active products are ever
// listed; zero values mean "no constraint".
type ProductFilter struct {
	CategoryID   string
	CategorySlug string
	Featured     bool
	Search       string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	SortBy       string
	SortOrder    string
	Page         int
	Limit        int
}

type CategorySummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type ProductResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Slug        string           `json:"slug"`
	Description string           `json:"description"`
	Price       decimal.Decimal  `json:"price"`
	Image       string           `json:"image"`
	Stock       int              `json:"stock"`
	Featured    bool             `json:"featured"`
	Active      bool             `json:"active"`
	CategoryID  string           `json:"categoryId"`
	Category    *CategorySummary `json:"category,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

type ProductPagination struct {
	Pagination
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

func NewProductPagination(page, limit int, total int64) ProductPagination {
	p := NewPagination(page, limit, total)
	return ProductPagination{
		Pagination:  p,
		HasNextPage: page < p.TotalPages,
		HasPrevPage: page > 1,
	}
}

type ListProductsResponse struct {
	Category   *CategoryResponse `json:"category,omitempty"`
	Products   []ProductResponse `json:"products"`
	Pagination ProductPagination `json:"pagination"`
}

type ProductSearchResult struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Slug     string           `json:"slug"`
	Image    string           `json:"image"`
	Category *CategorySummary `json:"category,omitempty"`
}

type SearchProductsResponse struct {
	Products []ProductSearchResult `json:"products"`
	Query    string                `json:"query"`
	Total    int                   `json:"total"`
}

type FeaturedProductsResponse struct {
	Products []ProductResponse `json:"products"`
}

type CategoryResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	Image        string `json:"image"`
	ProductCount int64  `json:"productCount"`
}

type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}
