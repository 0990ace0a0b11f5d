package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
)

var sortColumns = map[string]string{
	dto.SortByName:      "products.name",
	dto.SortByPrice:     "products.price",
	dto.SortByCreatedAt: "products.created_at",
	dto.SortByStock:     "products.stock",
}

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// conn prefers the caller's transaction over the pool.
func (r *GormRepository) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

// FindByIDsForUpdate locks the rows of every listed product in ascending id
// order. Missing ids are simply absent from the result.
func (r *GormRepository) FindByIDsForUpdate(ctx context.Context, tx *gorm.DB, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var products []domain.Product
	err := r.conn(ctx, tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("locking products: %w", err)
	}
	return products, nil
}

// DecrementStock subtracts quantity only while enough stock remains.
func (r *GormRepository) DecrementStock(ctx context.Context, tx *gorm.DB, id string, quantity int) error {
	result := r.conn(ctx, tx).
		Model(&domain.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return fmt.Errorf("decrementing stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewConflictError(fmt.Sprintf("stock of product %s changed concurrently", id))
	}
	return nil
}

func (r *GormRepository) IncrementStock(ctx context.Context, tx *gorm.DB, id string, quantity int) error {
	result := r.conn(ctx, tx).
		Model(&domain.Product{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity))
	if result.Error != nil {
		return fmt.Errorf("incrementing stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("product %s not found", id))
	}
	return nil
}

// FindByIDs returns the listed products whether active or not, without locking.
func (r *GormRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var products []domain.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	return products, nil
}

func (r *GormRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.findActive(ctx, "products.id = ?", id)
}

func (r *GormRepository) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return r.findActive(ctx, "products.slug = ?", slug)
}

func (r *GormRepository) findActive(ctx context.Context, query string, arg string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where(query, arg).
		Where("products.active = ?", true).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("product %s not found", arg))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product: %w", err)
	}
	return &product, nil
}

// List returns one page of active products matching filter together with the
// total number of matches.
func (r *GormRepository) List(ctx context.Context, filter dto.ProductFilter) ([]domain.Product, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Product{}).Scopes(productFilter(filter)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting products: %w", err)
	}

	var products []domain.Product
	err := r.db.WithContext(ctx).
		Select("products.*").
		Scopes(productFilter(filter)).
		Preload("Category").
		Order(sortClause(filter.SortBy, filter.SortOrder)).
		Order("products.id ASC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("listing products: %w", err)
	}

	return products, total, nil
}

// Search matches q against product name, description and category name.
func (r *GormRepository) Search(ctx context.Context, q string, limit int) ([]domain.Product, error) {
	pattern := "%" + q + "%"

	var products []domain.Product
	err := r.db.WithContext(ctx).
		Select("products.*").
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Where("products.active = ?", true).
		Where("(products.name LIKE ? OR products.description LIKE ? OR categories.name LIKE ?)", pattern, pattern, pattern).
		Preload("Category").
		Order("products.name ASC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("searching products: %w", err)
	}
	return products, nil
}

func (r *GormRepository) Featured(ctx context.Context, limit int) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("featured = ? AND active = ?", true, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("querying featured products: %w", err)
	}
	return products, nil
}

func (r *GormRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return categories, nil
}

// CountActiveByCategory maps category id to its number of active products.
func (r *GormRepository) CountActiveByCategory(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		CategoryID string
		Count      int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Select("category_id, COUNT(*) AS count").
		Where("active = ?", true).
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("counting products per category: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.CategoryID] = row.Count
	}
	return counts, nil
}

func (r *GormRepository) FindCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	var category domain.Category
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("category %s not found", slug))
	}
	if err != nil {
		return nil, fmt.Errorf("querying category: %w", err)
	}
	return &category, nil
}

func productFilter(f dto.ProductFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("products.active = ?", true)
		if f.CategoryID != "" {
			db = db.Where("products.category_id = ?", f.CategoryID)
		}
		if f.CategorySlug != "" {
			db = db.Joins("JOIN categories ON categories.id = products.category_id AND categories.slug = ?", f.CategorySlug)
		}
		if f.Featured {
			db = db.Where("products.featured = ?", true)
		}
		if f.Search != "" {
			pattern := "%" + f.Search + "%"
			db = db.Where("(products.name LIKE ? OR products.description LIKE ?)", pattern, pattern)
		}
		if f.MinPrice != nil {
			db = db.Where("products.price >= ?", *f.MinPrice)
		}
		if f.MaxPrice != nil {
			db = db.Where("products.price <= ?", *f.MaxPrice)
		}
		return db
	}
}

func sortClause(sortBy, sortOrder string) string {
	column, ok := sortColumns[sortBy]
	if !ok {
		column = sortColumns[dto.SortByCreatedAt]
	}
	direction := "DESC"
	if sortOrder == "asc" {
		direction = "ASC"
	}
	return column + " " + direction
}
