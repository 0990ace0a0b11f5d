package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"storefront/internal/commons"
	"storefront/internal/dto"
)

type CatalogUseCase interface {
	ListProducts(ctx context.Context, filter dto.ProductFilter) (*dto.ListProductsResponse, error)
	CategoryProducts(ctx context.Context, slug string, filter dto.ProductFilter) (*dto.ListProductsResponse, error)
	GetProduct(ctx context.Context, id string) (*dto.ProductResponse, error)
	GetProductBySlug(ctx context.Context, slug string) (*dto.ProductResponse, error)
	SearchProducts(ctx context.Context, q string, limit int) (*dto.SearchProductsResponse, error)
	FeaturedProducts(ctx context.Context, limit int) (*dto.FeaturedProductsResponse, error)
	GetCategory(ctx context.Context, slug string) (*dto.CategoryResponse, error)
	ListCategories(ctx context.Context) (*dto.ListCategoriesResponse, error)
}

type CatalogController struct {
	useCase CatalogUseCase
	logger  *zap.Logger
}

func NewCatalogController(useCase CatalogUseCase, logger *zap.Logger) *CatalogController {
	return &CatalogController{useCase: useCase, logger: logger}
}

// Routes mounts the product and category endpoints.
func (c *CatalogController) Routes(r chi.Router) {
	r.Get("/products", c.ListProducts)
	r.Get("/products/featured", c.FeaturedProducts)
	r.Get("/products/search", c.SearchProducts)
	r.Get("/products/slug/{slug}", c.GetProductBySlug)
	r.Get("/products/{id}", c.GetProduct)
	r.Get("/categories", c.ListCategories)
	r.Get("/categories/{slug}", c.GetCategory)
	r.Get("/categories/{slug}/products", c.CategoryProducts)
}

func (c *CatalogController) ListProducts(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	filter, err := parseProductFilter(r)
	if err != nil {
		commons.HandleError(w, c.logger, traceID, err)
		return
	}
	filter.CategorySlug = r.URL.Query().Get("category")
	filter.Search = r.URL.Query().Get("search")

	resp, err := c.useCase.ListProducts(r.Context(), filter)
	if err != nil {
		commons.HandleError(w, c.logger, traceID, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, resp)
}

func (c *CatalogController) CategoryProducts(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	filter, err := parseProductFilter(r)
	if err != nil {
		commons.HandleError(w, c.logger, traceID, err)
		return
	}

	resp, err := c.useCase.CategoryProducts(r.Context(), chi.URLParam(r, "slug"), filter)
	if err != nil {
		commons.HandleError(w, c.logger, traceID, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, resp)
}

func (c *CatalogController) GetProduct(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	resp, err := c.useCase.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		commons.HandleError(w, c.logger, traceID, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, resp)
}

func (c *CatalogController) GetProductBySlug(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	resp, err := c.useCase.GetProductBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		commons.HandleError(w, c.logger, traceID, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, resp)
}

func (c *CatalogController) SearchProducts(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	limit, err := commons.QueryInt(r, "limit", 0)
	if err != nil {
		commons.HandleError(w, c.logger, traceID, err)
		return
	}

	resp, err := c.useCase.SearchProducts(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		commons.HandleError(w, c.logger, traceID, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, resp)
}

func (c *CatalogController) FeaturedProducts(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	limit, err := commons.QueryInt(r, "limit", 0)
	if err != nil {
		commons.HandleError(w, c.logger, traceID, err)
		return
	}

	resp, err := c.useCase.FeaturedProducts(r.Context(), limit)
	if err != nil {
		commons.HandleError(w, c.logger, traceID, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, resp)
}

func (c *CatalogController) GetCategory(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	resp, err := c.useCase.GetCategory(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		commons.HandleError(w, c.logger, traceID, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, resp)
}

func (c *CatalogController) ListCategories(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	resp, err := c.useCase.ListCategories(r.Context())
	if err != nil {
		commons.HandleError(w, c.logger, traceID, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, resp)
}

// parseProductFilter reads the paging, sorting, price and featured parameters
// shared by the product listings.
func parseProductFilter(r *http.Request) (dto.ProductFilter, error) {
	q := r.URL.Query()

	page, err := commons.QueryInt(r, "page", 1)
	if err != nil {
		return dto.ProductFilter{}, err
	}
	limit, err := commons.QueryInt(r, "limit", 12)
	if err != nil {
		return dto.ProductFilter{}, err
	}
	minPrice, err := commons.QueryDecimal(r, "minPrice")
	if err != nil {
		return dto.ProductFilter{}, err
	}
	maxPrice, err := commons.QueryDecimal(r, "maxPrice")
	if err != nil {
		return dto.ProductFilter{}, err
	}

	return dto.ProductFilter{
		Featured:  q.Get("featured") == "true",
		MinPrice:  minPrice,
		MaxPrice:  maxPrice,
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
		Page:      page,
		Limit:     limit,
	}, nil
}
