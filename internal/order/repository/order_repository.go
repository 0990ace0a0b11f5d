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
	"storefront/internal/infrastructure/mysql"
)

type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

// Create inserts the order and its items.
func (r *GormOrderRepository) Create(ctx context.Context, tx *gorm.DB, order *domain.Order) error {
	err := r.conn(ctx, tx).Omit("User", "Items.Product").Create(order).Error
	if mysql.IsDuplicateKey(err) {
		return apperrors.NewConflictError(fmt.Sprintf("order number %s already exists", order.OrderNumber))
	}
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}
	return nil
}

// FindByIDForUpdate locks the order row and loads its items.
func (r *GormOrderRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id string) (*domain.Order, error) {
	var order domain.Order
	err := r.conn(ctx, tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("locking order: %w", err)
	}

	if err := r.conn(ctx, tx).Where("order_id = ?", id).Order("id ASC").Find(&order.Items).Error; err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	return &order, nil
}

// Delete removes the order and its items.
func (r *GormOrderRepository) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	db := r.conn(ctx, tx)

	if err := db.Where("order_id = ?", id).Delete(&domain.OrderItem{}).Error; err != nil {
		return fmt.Errorf("deleting order items: %w", err)
	}

	result := db.Where("id = ?", id).Delete(&domain.Order{})
	if result.Error != nil {
		return fmt.Errorf("deleting order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
	}
	return nil
}

func (r *GormOrderRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id string, status domain.OrderStatus) error {
	err := r.conn(ctx, tx).
		Model(&domain.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}
	return nil
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	return r.findOne(ctx, "orders.id = ?", id)
}

func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	return r.findOne(ctx, "orders.order_number = ?", orderNumber)
}

func (r *GormOrderRepository) findOne(ctx context.Context, query, arg string) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).
		Scopes(withDetails).
		Where(query, arg).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("order %s not found", arg))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order: %w", err)
	}
	return &order, nil
}

// List returns one page of orders, newest first, and the total match count.
func (r *GormOrderRepository) List(ctx context.Context, filter dto.OrderFilter, page, limit int) ([]domain.Order, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Order{}).Scopes(orderFilter(filter)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting orders: %w", err)
	}

	var orders []domain.Order
	err := r.db.WithContext(ctx).
		Scopes(orderFilter(filter), withDetails).
		Order("orders.created_at DESC").
		Order("orders.id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("listing orders: %w", err)
	}
	return orders, total, nil
}

// withDetails preloads items with a product summary and the owning user.
func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_items.id ASC")
		}).
		Preload("Items.Product", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "slug", "image", "price")
		}).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "email")
		})
}

func orderFilter(f dto.OrderFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.UserID != "" {
			db = db.Where("orders.user_id = ?", f.UserID)
		}
		if f.Status != "" {
			db = db.Where("orders.status = ?", f.Status)
		}
		return db
	}
}
