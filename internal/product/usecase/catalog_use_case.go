package usecase

import (
	"context"

	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
)

const (
	defaultPage          = 1
	defaultProductLimit  = 12
	maxProductLimit      = 100
	defaultSearchLimit   = 20
	defaultFeaturedLimit = 8
)

type Service interface {
	ListProducts(ctx context.Context, filter dto.ProductFilter) ([]domain.Product, int64, error)
	CategoryProducts(ctx context.Context, slug string, filter dto.ProductFilter) (*domain.Category, []domain.Product, int64, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
	SearchProducts(ctx context.Context, q string, limit int) ([]domain.Product, error)
	FeaturedProducts(ctx context.Context, limit int) ([]domain.Product, error)
	Category(ctx context.Context, slug string) (*domain.Category, int64, error)
	Categories(ctx context.Context) ([]domain.Category, map[string]int64, error)
}

type CatalogUseCase struct {
	service Service
	logger  *zap.Logger
}

func NewCatalogUseCase(service Service, logger *zap.Logger) *CatalogUseCase {
	return &CatalogUseCase{service: service, logger: logger}
}

func (uc *CatalogUseCase) ListProducts(ctx context.Context, filter dto.ProductFilter) (*dto.ListProductsResponse, error) {
	filter = normalizeFilter(filter)

	products, total, err := uc.service.ListProducts(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListProductsResponse{
		Products:   toProductResponses(products),
		Pagination: dto.NewProductPagination(filter.Page, filter.Limit, total),
	}, nil
}

func (uc *CatalogUseCase) CategoryProducts(ctx context.Context, slug string, filter dto.ProductFilter) (*dto.ListProductsResponse, error) {
	filter = normalizeFilter(filter)

	category, products, total, err := uc.service.CategoryProducts(ctx, slug, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListProductsResponse{
		Category: &dto.CategoryResponse{
			ID:          category.ID,
			Name:        category.Name,
			Slug:        category.Slug,
			Description: category.Description,
			Image:       category.Image,
		},
		Products:   toProductResponses(products),
		Pagination: dto.NewProductPagination(filter.Page, filter.Limit, total),
	}, nil
}

func (uc *CatalogUseCase) GetProduct(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.service.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toProductResponse(*product)
	return &resp, nil
}

func (uc *CatalogUseCase) GetProductBySlug(ctx context.Context, slug string) (*dto.ProductResponse, error) {
	product, err := uc.service.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	resp := toProductResponse(*product)
	return &resp, nil
}

func (uc *CatalogUseCase) SearchProducts(ctx context.Context, q string, limit int) (*dto.SearchProductsResponse, error) {
	if limit <= 0 || limit > maxProductLimit {
		limit = defaultSearchLimit
	}

	products, err := uc.service.SearchProducts(ctx, q, limit)
	if err != nil {
		return nil, err
	}

	results := make([]dto.ProductSearchResult, 0, len(products))
	for _, p := range products {
		results = append(results, dto.ProductSearchResult{
			ID:       p.ID,
			Name:     p.Name,
			Slug:     p.Slug,
			Image:    p.Image,
			Category: toCategorySummary(p.Category),
		})
	}

	uc.logger.Debug("product search", zap.String("query", q), zap.Int("results", len(results)))

	return &dto.SearchProductsResponse{
		Products: results,
		Query:    q,
		Total:    len(results),
	}, nil
}

func (uc *CatalogUseCase) FeaturedProducts(ctx context.Context, limit int) (*dto.FeaturedProductsResponse, error) {
	if limit <= 0 || limit > maxProductLimit {
		limit = defaultFeaturedLimit
	}

	products, err := uc.service.FeaturedProducts(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &dto.FeaturedProductsResponse{Products: toProductResponses(products)}, nil
}

func (uc *CatalogUseCase) GetCategory(ctx context.Context, slug string) (*dto.CategoryResponse, error) {
	category, count, err := uc.service.Category(ctx, slug)
	if err != nil {
		return nil, err
	}
	return &dto.CategoryResponse{
		ID:           category.ID,
		Name:         category.Name,
		Slug:         category.Slug,
		Description:  category.Description,
		Image:        category.Image,
		ProductCount: count,
	}, nil
}

func (uc *CatalogUseCase) ListCategories(ctx context.Context) (*dto.ListCategoriesResponse, error) {
	categories, counts, err := uc.service.Categories(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, dto.CategoryResponse{
			ID:           c.ID,
			Name:         c.Name,
			Slug:         c.Slug,
			Description:  c.Description,
			Image:        c.Image,
			ProductCount: counts[c.ID],
		})
	}
	return &dto.ListCategoriesResponse{Categories: out}, nil
}

// normalizeFilter applies listing defaults and clamps paging.
func normalizeFilter(f dto.ProductFilter) dto.ProductFilter {
	if f.Page < 1 {
		f.Page = defaultPage
	}
	if f.Limit < 1 {
		f.Limit = defaultProductLimit
	}
	if f.Limit > maxProductLimit {
		f.Limit = maxProductLimit
	}
	switch f.SortBy {
	case dto.SortByName, dto.SortByPrice, dto.SortByCreatedAt, dto.SortByStock:
	default:
		f.SortBy = dto.SortByCreatedAt
	}
	if f.SortOrder != "asc" {
		f.SortOrder = "desc"
	}
	return f
}

func toProductResponses(products []domain.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}

func toProductResponse(p domain.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Stock:       p.Stock,
		Featured:    p.Featured,
		Active:      p.Active,
		CategoryID:  p.CategoryID,
		Category:    toCategorySummary(p.Category),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toCategorySummary(c *domain.Category) *dto.CategorySummary {
	if c == nil {
		return nil
	}
	return &dto.CategorySummary{ID: c.ID, Name: c.Name, Slug: c.Slug}
}
