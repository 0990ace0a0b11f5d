package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
	"storefront/internal/infrastructure/tracing"
)

type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type ProductRepository interface {
	FindByIDsForUpdate(ctx context.Context, tx *gorm.DB, ids []string) ([]domain.Product, error)
	DecrementStock(ctx context.Context, tx *gorm.DB, id string, quantity int) error
	IncrementStock(ctx context.Context, tx *gorm.DB, id string, quantity int) error
}

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *domain.Order) error
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id string) (*domain.Order, error)
	Delete(ctx context.Context, tx *gorm.DB, id string) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, id string, status domain.OrderStatus) error
}

type EventRecorder interface {
	Record(ctx context.Context, tx *gorm.DB, eventType, aggregateID string, payload interface{}) error
}

type OrderService struct {
	txManager      TransactionManager
	productRepo    ProductRepository
	orderRepo      OrderRepository
	events         EventRecorder
	policy         domain.StatusPolicy
	logger         *zap.Logger
	newID          func() string
	newOrderNumber func() string
}

func NewOrderService(
	txManager TransactionManager,
	productRepo ProductRepository,
	orderRepo OrderRepository,
	events EventRecorder,
	policy domain.StatusPolicy,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		txManager:      txManager,
		productRepo:    productRepo,
		orderRepo:      orderRepo,
		events:         events,
		policy:         policy,
		logger:         logger,
		newID:          uuid.NewString,
		newOrderNumber: NewOrderNumber,
	}
}

// NewOrderNumber returns "ORD-" followed by a time ordered UUIDv7.
func NewOrderNumber() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return "ORD-" + id.String()
}

type orderEventItem struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type orderEvent struct {
	OrderID        string           `json:"orderId"`
	OrderNumber    string           `json:"orderNumber"`
	UserID         string           `json:"userId"`
	Status         string           `json:"status"`
	PreviousStatus string           `json:"previousStatus,omitempty"`
	Total          decimal.Decimal  `json:"total"`
	Items          []orderEventItem `json:"items,omitempty"`
}

func newOrderEvent(order *domain.Order) orderEvent {
	items := make([]orderEventItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderEventItem{ProductID: item.ProductID, Quantity: item.Quantity, Price: item.Price})
	}
	return orderEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Status:      string(order.Status),
		Total:       order.Total,
		Items:       items,
	}
}

// demand is the summed quantity per product, with product ids kept in the
// order they first appear in the request.
type demand struct {
	order    []string
	quantity map[string]int
}

func aggregateDemand(items []dto.OrderItemInput) demand {
	d := demand{quantity: make(map[string]int, len(items))}
	for _, item := range items {
		if _, seen := d.quantity[item.ProductID]; !seen {
			d.order = append(d.order, item.ProductID)
		}
		d.quantity[item.ProductID] += item.Quantity
	}
	return d
}

// CreateOrder locks every referenced product, checks stock for the summed
// quantities, writes the order and decrements stock in a single transaction.
// The total uses the unit prices supplied by the caller.
func (s *OrderService) CreateOrder(ctx context.Context, input dto.CreateOrderInput) (order *domain.Order, err error) {
	ctx, span := tracing.Tracer().Start(ctx, "OrderService.CreateOrder")
	defer func() {
		tracing.RecordError(span, err)
		span.End()
	}()

	d := aggregateDemand(input.Items)
	lockOrder := append([]string(nil), d.order...)
	sort.Strings(lockOrder)

	var locked map[string]domain.Product

	err = s.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		products, err := s.productRepo.FindByIDsForUpdate(ctx, tx, lockOrder)
		if err != nil {
			return err
		}

		locked = make(map[string]domain.Product, len(products))
		for _, p := range products {
			locked[p.ID] = p
		}

		for _, id := range d.order {
			p, ok := locked[id]
			if !ok || !p.Active {
				return apperrors.NewNotFoundError(fmt.Sprintf("product %s not found", id))
			}
		}

		for _, id := range d.order {
			p := locked[id]
			if !p.HasStock(d.quantity[id]) {
				return apperrors.NewInsufficientStockError(p.ID, p.Name, p.Stock, d.quantity[id])
			}
		}

		items := make([]domain.OrderItem, 0, len(input.Items))
		for _, item := range input.Items {
			items = append(items, domain.OrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price,
			})
		}

		order = &domain.Order{
			ID:              s.newID(),
			OrderNumber:     s.newOrderNumber(),
			UserID:          input.UserID,
			Status:          domain.OrderStatusPending,
			Total:           domain.OrderTotal(items),
			ShippingName:    input.Shipping.Name,
			ShippingEmail:   input.Shipping.Email,
			ShippingAddress: input.Shipping.Address,
			ShippingCity:    input.Shipping.City,
			ShippingZip:     input.Shipping.Zip,
			Items:           items,
		}

		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return err
		}

		for _, id := range lockOrder {
			if err := s.productRepo.DecrementStock(ctx, tx, id, d.quantity[id]); err != nil {
				return err
			}
		}

		return s.events.Record(ctx, tx, domain.EventOrderCreated, order.ID, newOrderEvent(order))
	})
	if err != nil {
		return nil, err
	}

	for i := range order.Items {
		p := locked[order.Items[i].ProductID]
		order.Items[i].Product = &domain.Product{ID: p.ID, Name: p.Name, Slug: p.Slug, Image: p.Image, Price: p.Price}
	}

	span.SetAttributes(attribute.String("order.id", order.ID), attribute.String("order.number", order.OrderNumber))
	s.logger.Info("order created",
		zap.String("orderId", order.ID),
		zap.String("orderNumber", order.OrderNumber),
		zap.String("userId", order.UserID),
		zap.Int("itemCount", len(order.Items)),
		zap.String("total", order.Total.StringFixed(2)),
	)

	return order, nil
}

// CancelOrder restores stock for every item of a PENDING order and then
// deletes it, or marks it CANCELLED when the policy retains cancelled orders.
func (s *OrderService) CancelOrder(ctx context.Context, id string) (order *domain.Order, err error) {
	ctx, span := tracing.Tracer().Start(ctx, "OrderService.CancelOrder")
	defer func() {
		tracing.RecordError(span, err)
		span.End()
	}()
	span.SetAttributes(attribute.String("order.id", id))

	err = s.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		order, err = s.orderRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if !s.policy.CanCancel(order.Status) {
			return apperrors.NewConflictError(fmt.Sprintf("order %s cannot be cancelled in status %s", order.OrderNumber, order.Status))
		}

		restore := make(map[string]int, len(order.Items))
		for _, item := range order.Items {
			restore[item.ProductID] += item.Quantity
		}
		productIDs := make([]string, 0, len(restore))
		for pid := range restore {
			productIDs = append(productIDs, pid)
		}
		sort.Strings(productIDs)

		for _, pid := range productIDs {
			if err := s.productRepo.IncrementStock(ctx, tx, pid, restore[pid]); err != nil {
				return err
			}
		}

		previous := order.Status
		if s.policy.Cancellation == domain.CancelRetain {
			if err := s.orderRepo.UpdateStatus(ctx, tx, order.ID, domain.OrderStatusCancelled); err != nil {
				return err
			}
		} else {
			if err := s.orderRepo.Delete(ctx, tx, order.ID); err != nil {
				return err
			}
		}
		order.Status = domain.OrderStatusCancelled

		event := newOrderEvent(order)
		event.PreviousStatus = string(previous)
		return s.events.Record(ctx, tx, domain.EventOrderCancelled, order.ID, event)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order cancelled",
		zap.String("orderId", order.ID),
		zap.String("orderNumber", order.OrderNumber),
		zap.String("mode", string(s.policy.Cancellation)),
	)

	return order, nil
}

// UpdateStatus changes the status of an order without touching inventory.
// Setting the current status again is a no-op.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (err error) {
	ctx, span := tracing.Tracer().Start(ctx, "OrderService.UpdateStatus")
	defer func() {
		tracing.RecordError(span, err)
		span.End()
	}()
	span.SetAttributes(attribute.String("order.id", id), attribute.String("order.status", string(status)))

	var previous domain.OrderStatus

	err = s.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		previous = order.Status

		if !s.policy.CanTransition(order.Status, status) {
			return apperrors.NewConflictError(fmt.Sprintf("order %s cannot move from %s to %s", order.OrderNumber, order.Status, status))
		}
		if order.Status == status {
			return nil
		}

		if err := s.orderRepo.UpdateStatus(ctx, tx, order.ID, status); err != nil {
			return err
		}
		order.Status = status

		event := newOrderEvent(order)
		event.PreviousStatus = string(previous)
		event.Items = nil
		return s.events.Record(ctx, tx, domain.EventOrderStatusChanged, order.ID, event)
	})
	if err != nil {
		return err
	}

	if previous != status {
		s.logger.Info("order status updated",
			zap.String("orderId", id),
			zap.String("from", string(previous)),
			zap.String("to", string(status)),
		)
	}
	return nil
}
