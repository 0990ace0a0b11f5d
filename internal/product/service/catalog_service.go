package service

import (
	"context"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/dto"
)

type Repository interface {
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]domain.Product, int64, error)
	Search(ctx context.Context, q string, limit int) ([]domain.Product, error)
	Featured(ctx context.Context, limit int) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CountActiveByCategory(ctx context.Context) (map[string]int64, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error)
}

type CatalogService struct {
	repo Repository
}

func NewCatalogService(repo Repository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) ListProducts(ctx context.Context, filter dto.ProductFilter) ([]domain.Product, int64, error) {
	return s.repo.List(ctx, filter)
}

// CategoryProducts resolves slug first so an unknown category is a NotFound
// rather than an empty page.
func (s *CatalogService) CategoryProducts(ctx context.Context, slug string, filter dto.ProductFilter) (*domain.Category, []domain.Product, int64, error) {
	category, err := s.repo.FindCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, nil, 0, err
	}

	filter.CategoryID = category.ID
	filter.CategorySlug = ""
	filter.Search = ""

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, 0, err
	}
	return category, products, total, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CatalogService) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return s.repo.FindBySlug(ctx, slug)
}

// SearchProducts returns nothing for a blank query.
func (s *CatalogService) SearchProducts(ctx context.Context, q string, limit int) ([]domain.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil
	}
	return s.repo.Search(ctx, q, limit)
}

func (s *CatalogService) FeaturedProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	return s.repo.Featured(ctx, limit)
}

// Category returns the category with its number of active products.
func (s *CatalogService) Category(ctx context.Context, slug string) (*domain.Category, int64, error) {
	category, err := s.repo.FindCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, 0, err
	}
	counts, err := s.repo.CountActiveByCategory(ctx)
	if err != nil {
		return nil, 0, err
	}
	return category, counts[category.ID], nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]domain.Category, map[string]int64, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, nil, err
	}
	counts, err := s.repo.CountActiveByCategory(ctx)
	if err != nil {
		return nil, nil, err
	}
	return categories, counts, nil
}
