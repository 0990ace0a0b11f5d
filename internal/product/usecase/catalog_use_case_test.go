package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
)

type mockService struct {
	ListProductsFunc     func(ctx context.Context, filter dto.ProductFilter) ([]domain.Product, int64, error)
	CategoryProductsFunc func(ctx context.Context, slug string, filter dto.ProductFilter) (*domain.Category, []domain.Product, int64, error)
	GetProductFunc       func(ctx context.Context, id string) (*domain.Product, error)
	GetProductBySlugFunc func(ctx context.Context, slug string) (*domain.Product, error)
	SearchProductsFunc   func(ctx context.Context, q string, limit int) ([]domain.Product, error)
	FeaturedProductsFunc func(ctx context.Context, limit int) ([]domain.Product, error)
	CategoryFunc         func(ctx context.Context, slug string) (*domain.Category, int64, error)
	CategoriesFunc       func(ctx context.Context) ([]domain.Category, map[string]int64, error)
}

func (m *mockService) ListProducts(ctx context.Context, filter dto.ProductFilter) ([]domain.Product, int64, error) {
	return m.ListProductsFunc(ctx, filter)
}

func (m *mockService) CategoryProducts(ctx context.Context, slug string, filter dto.ProductFilter) (*domain.Category, []domain.Product, int64, error) {
	return m.CategoryProductsFunc(ctx, slug, filter)
}

func (m *mockService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return m.GetProductFunc(ctx, id)
}

func (m *mockService) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return m.GetProductBySlugFunc(ctx, slug)
}

func (m *mockService) SearchProducts(ctx context.Context, q string, limit int) ([]domain.Product, error) {
	return m.SearchProductsFunc(ctx, q, limit)
}

func (m *mockService) FeaturedProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	return m.FeaturedProductsFunc(ctx, limit)
}

func (m *mockService) Category(ctx context.Context, slug string) (*domain.Category, int64, error) {
	return m.CategoryFunc(ctx, slug)
}

func (m *mockService) Categories(ctx context.Context) ([]domain.Category, map[string]int64, error) {
	return m.CategoriesFunc(ctx)
}

func TestNormalizeFilter(t *testing.T) {
	tests := []struct {
		name     string
		in       dto.ProductFilter
		expected dto.ProductFilter
	}{
		{
			name:     "defaults",
			in:       dto.ProductFilter{},
			expected: dto.ProductFilter{Page: 1, Limit: 12, SortBy: dto.SortByCreatedAt, SortOrder: "desc"},
		},
		{
			name:     "limit clamped",
			in:       dto.ProductFilter{Page: 3, Limit: 500, SortBy: dto.SortByPrice, SortOrder: "asc"},
			expected: dto.ProductFilter{Page: 3, Limit: 100, SortBy: dto.SortByPrice, SortOrder: "asc"},
		},
		{
			name:     "unknown sort falls back",
			in:       dto.ProductFilter{Page: -1, Limit: 5, SortBy: "rating", SortOrder: "up"},
			expected: dto.ProductFilter{Page: 1, Limit: 5, SortBy: dto.SortByCreatedAt, SortOrder: "desc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeFilter(tt.in))
		})
	}
}

func TestListProducts_MapsPagination(t *testing.T) {
	svc := &mockService{
		ListProductsFunc: func(ctx context.Context, filter dto.ProductFilter) ([]domain.Product, int64, error) {
			assert.Equal(t, 2, filter.Page)
			return []domain.Product{{
				ID:       "p1",
				Name:     "Lamp",
				Price:    decimal.RequireFromString("12.50"),
				Category: &domain.Category{ID: "c1", Name: "Home", Slug: "home"},
			}}, 25, nil
		},
	}

	resp, err := NewCatalogUseCase(svc, zap.NewNop()).ListProducts(context.Background(), dto.ProductFilter{Page: 2})

	require.NoError(t, err)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "home", resp.Products[0].Category.Slug)
	assert.True(t, resp.Products[0].Price.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.True(t, resp.Pagination.HasNextPage)
	assert.True(t, resp.Pagination.HasPrevPage)
}

func TestCategoryProducts_IncludesCategory(t *testing.T) {
	svc := &mockService{
		CategoryProductsFunc: func(ctx context.Context, slug string, filter dto.ProductFilter) (*domain.Category, []domain.Product, int64, error) {
			return &domain.Category{ID: "c1", Name: "Audio", Slug: slug}, nil, 0, nil
		},
	}

	resp, err := NewCatalogUseCase(svc, zap.NewNop()).CategoryProducts(context.Background(), "audio", dto.ProductFilter{})

	require.NoError(t, err)
	require.NotNil(t, resp.Category)
	assert.Equal(t, "audio", resp.Category.Slug)
	assert.NotNil(t, resp.Products)
	assert.Empty(t, resp.Products)
}

func TestGetProduct_NotFound(t *testing.T) {
	svc := &mockService{
		GetProductFunc: func(ctx context.Context, id string) (*domain.Product, error) {
			return nil, apperrors.NewNotFoundError("product not found")
		},
	}

	_, err := NewCatalogUseCase(svc, zap.NewNop()).GetProduct(context.Background(), "x")

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestSearchProducts_DefaultLimit(t *testing.T) {
	svc := &mockService{
		SearchProductsFunc: func(ctx context.Context, q string, limit int) ([]domain.Product, error) {
			assert.Equal(t, 20, limit)
			return nil, nil
		},
	}

	resp, err := NewCatalogUseCase(svc, zap.NewNop()).SearchProducts(context.Background(), "", 0)

	require.NoError(t, err)
	assert.Equal(t, 0, resp.Total)
	assert.NotNil(t, resp.Products)
}

func TestFeaturedProducts_DefaultLimit(t *testing.T) {
	svc := &mockService{
		FeaturedProductsFunc: func(ctx context.Context, limit int) ([]domain.Product, error) {
			assert.Equal(t, 8, limit)
			return []domain.Product{{ID: "p1", Featured: true}}, nil
		},
	}

	resp, err := NewCatalogUseCase(svc, zap.NewNop()).FeaturedProducts(context.Background(), 0)

	require.NoError(t, err)
	assert.Len(t, resp.Products, 1)
}

func TestListCategories_AttachesCounts(t *testing.T) {
	svc := &mockService{
		CategoriesFunc: func(ctx context.Context) ([]domain.Category, map[string]int64, error) {
			return []domain.Category{{ID: "c1", Slug: "a"}, {ID: "c2", Slug: "b"}}, map[string]int64{"c1": 4}, nil
		},
	}

	resp, err := NewCatalogUseCase(svc, zap.NewNop()).ListCategories(context.Background())

	require.NoError(t, err)
	require.Len(t, resp.Categories, 2)
	assert.Equal(t, int64(4), resp.Categories[0].ProductCount)
	assert.Equal(t, int64(0), resp.Categories[1].ProductCount)
}

func TestGetCategory_IncludesProductCount(t *testing.T) {
	svc := &mockService{
		CategoryFunc: func(ctx context.Context, slug string) (*domain.Category, int64, error) {
			assert.Equal(t, "laptops", slug)
			return &domain.Category{ID: "c1", Name: "Laptops", Slug: "laptops", Description: "Laptops and computers"}, 2, nil
		},
	}

	resp, err := NewCatalogUseCase(svc, zap.NewNop()).GetCategory(context.Background(), "laptops")

	require.NoError(t, err)
	assert.Equal(t, "Laptops", resp.Name)
	assert.Equal(t, "Laptops and computers", resp.Description)
	assert.Equal(t, int64(2), resp.ProductCount)
}
