package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront/internal/domain"
)

type Result struct {
	Categories int
	Products   int
	Users      int
	Orders     int
}

type Seeder struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewSeeder(db *gorm.DB, logger *zap.Logger) *Seeder {
	return &Seeder{db: db, logger: logger}
}

// Reset removes every row the catalog can own, children first.
func (s *Seeder) Reset(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&domain.OutboxEvent{},
			&domain.OrderItem{},
			&domain.Order{},
			&domain.Product{},
			&domain.Category{},
			&domain.User{},
		} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("clearing %T: %w", model, err)
			}
		}
		return nil
	})
}

// Apply upserts the catalog in one transaction. Categories and products are
// matched by slug, users by email; existing orders are left untouched.
func (s *Seeder) Apply(ctx context.Context, c *Catalog) (Result, error) {
	var res Result
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categoryIDs := make(map[string]string, len(c.Categories))
		for _, cs := range c.Categories {
			var cat domain.Category
			err := tx.Where(domain.Category{Slug: cs.Slug}).
				Attrs(domain.Category{ID: uuid.NewString()}).
				Assign(map[string]interface{}{
					"name":        cs.Name,
					"description": cs.Description,
					"image":       cs.Image,
				}).
				FirstOrCreate(&cat).Error
			if err != nil {
				return fmt.Errorf("upserting category %s: %w", cs.Slug, err)
			}
			categoryIDs[cs.Slug] = cat.ID
			res.Categories++
		}

		products := make(map[string]domain.Product, len(c.Products))
		for _, ps := range c.Products {
			var p domain.Product
			err := tx.Where(domain.Product{Slug: ps.Slug}).
				Attrs(domain.Product{ID: uuid.NewString()}).
				Assign(map[string]interface{}{
					"name":        ps.Name,
					"description": ps.Description,
					"price":       ps.Price,
					"image":       ps.Image,
					"stock":       ps.Stock,
					"featured":    ps.Featured,
					"active":      true,
					"category_id": categoryIDs[ps.Category],
				}).
				FirstOrCreate(&p).Error
			if err != nil {
				return fmt.Errorf("upserting product %s: %w", ps.Slug, err)
			}
			products[ps.Slug] = p
			res.Products++
		}

		userIDs := make(map[string]string, len(c.Users))
		for _, us := range c.Users {
			role := us.Role
			if role == "" {
				role = domain.UserRoleCustomer
			}
			var u domain.User
			err := tx.Where(domain.User{Email: us.Email}).
				Attrs(domain.User{ID: uuid.NewString()}).
				Assign(map[string]interface{}{"name": us.Name, "role": role}).
				FirstOrCreate(&u).Error
			if err != nil {
				return fmt.Errorf("upserting user %s: %w", us.Email, err)
			}
			userIDs[us.Email] = u.ID
			res.Users++
		}

		for _, so := range c.Orders {
			created, err := s.createOrder(tx, so, userIDs, products)
			if err != nil {
				return err
			}
			if created {
				res.Orders++
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	s.logger.Info("seed applied",
		zap.Int("categories", res.Categories),
		zap.Int("products", res.Products),
		zap.Int("users", res.Users),
		zap.Int("orders", res.Orders),
	)
	return res, nil
}

func (s *Seeder) createOrder(tx *gorm.DB, so OrderSeed, userIDs map[string]string, products map[string]domain.Product) (bool, error) {
	var existing int64
	if err := tx.Model(&domain.Order{}).Where("order_number = ?", so.OrderNumber).Count(&existing).Error; err != nil {
		return false, fmt.Errorf("looking up order %s: %w", so.OrderNumber, err)
	}
	if existing > 0 {
		return false, nil
	}

	status := domain.OrderStatusPending
	if so.Status != "" {
		parsed, err := domain.ParseOrderStatus(so.Status)
		if err != nil {
			return false, fmt.Errorf("order %s: %w", so.OrderNumber, err)
		}
		status = parsed
	}

	items := make([]domain.OrderItem, 0, len(so.Items))
	for _, is := range so.Items {
		p := products[is.Product]
		price := is.Price
		if price.IsZero() {
			price = p.Price
		}
		items = append(items, domain.OrderItem{ProductID: p.ID, Quantity: is.Quantity, Price: price})
	}

	order := domain.Order{
		ID:              uuid.NewString(),
		OrderNumber:     so.OrderNumber,
		UserID:          userIDs[so.User],
		Status:          status,
		Total:           domain.OrderTotal(items),
		ShippingName:    so.ShippingName,
		ShippingEmail:   so.ShippingEmail,
		ShippingAddress: so.ShippingAddress,
		ShippingCity:    so.ShippingCity,
		ShippingZip:     so.ShippingZip,
		Items:           items,
	}
	if err := tx.Omit("User", "Items.Product").Create(&order).Error; err != nil {
		return false, fmt.Errorf("creating order %s: %w", so.OrderNumber, err)
	}
	return true, nil
}
