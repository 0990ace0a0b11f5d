package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
	"storefront/internal/infrastructure/metrics"
	"storefront/internal/infrastructure/mysql"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100

	baseBackoff = 50 * time.Millisecond
)

type OrderService interface {
	CreateOrder(ctx context.Context, input dto.CreateOrderInput) (*domain.Order, error)
	CancelOrder(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
}

type OrderRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	List(ctx context.Context, filter dto.OrderFilter, page, limit int) ([]domain.Order, int64, error)
}

type OrderUseCase struct {
	service          OrderService
	orderRepo        OrderRepository
	logger           *zap.Logger
	maxRetryAttempts int
	backoff          func(attempt int) time.Duration
	sleep            func(ctx context.Context, d time.Duration) error
}

func NewOrderUseCase(
	service OrderService,
	orderRepo OrderRepository,
	logger *zap.Logger,
	maxRetryAttempts int,
) *OrderUseCase {
	if maxRetryAttempts < 1 {
		maxRetryAttempts = 1
	}
	return &OrderUseCase{
		service:          service,
		orderRepo:        orderRepo,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
		backoff:          jitteredBackoff,
		sleep:            sleepContext,
	}
}

func (uc *OrderUseCase) CreateOrder(ctx context.Context, input dto.CreateOrderInput) (*domain.Order, error) {
	uc.logger.Info("checkout started", zap.String("userId", input.UserID), zap.Int("itemCount", len(input.Items)))

	var order *domain.Order
	err := uc.withRetry(ctx, "create_order", func() error {
		var err error
		order, err = uc.service.CreateOrder(ctx, input)
		return err
	})
	if err != nil {
		if ise, ok := apperrors.IsInsufficientStockError(err); ok {
			metrics.InsufficientStock.Inc()
			uc.logger.Warn("checkout rejected",
				zap.String("userId", input.UserID),
				zap.String("productId", ise.ProductID),
				zap.Int("available", ise.Available),
				zap.Int("requested", ise.Requested),
			)
		}
		return nil, err
	}

	metrics.OrdersCreated.Inc()
	return order, nil
}

func (uc *OrderUseCase) CancelOrder(ctx context.Context, id string) (*domain.Order, error) {
	var order *domain.Order
	err := uc.withRetry(ctx, "cancel_order", func() error {
		var err error
		order, err = uc.service.CancelOrder(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.OrdersCancelled.Inc()
	return order, nil
}

// UpdateOrderStatus applies the change and returns the reloaded order.
func (uc *OrderUseCase) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	err := uc.withRetry(ctx, "update_order_status", func() error {
		return uc.service.UpdateStatus(ctx, id, status)
	})
	if err != nil {
		return nil, err
	}
	return uc.orderRepo.FindByID(ctx, id)
}

func (uc *OrderUseCase) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return uc.orderRepo.FindByID(ctx, id)
}

// TrackOrder looks an order up by its public number on behalf of userID.
func (uc *OrderUseCase) TrackOrder(ctx context.Context, orderNumber, userID string) (*domain.Order, error) {
	order, err := uc.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		uc.logger.Warn("order tracking denied", zap.String("orderNumber", orderNumber), zap.String("userId", userID))
		return nil, apperrors.NewForbiddenError("order does not belong to the requesting user")
	}
	return order, nil
}

func (uc *OrderUseCase) ListOrders(ctx context.Context, filter dto.OrderFilter, page, limit int) (*dto.ListOrdersResponse, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	orders, total, err := uc.orderRepo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, err
	}

	return &dto.ListOrdersResponse{
		Orders:     dto.NewOrderResponses(orders),
		Pagination: dto.NewPagination(page, limit, total),
	}, nil
}

// withRetry reruns fn after a deadlock or lock wait timeout. Once the
// attempts are used up the caller gets a DeadlockError.
func (uc *OrderUseCase) withRetry(ctx context.Context, operation string, fn func() error) error {
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !mysql.IsRetryable(err) {
			return err
		}

		if attempt >= uc.maxRetryAttempts {
			uc.logger.Error("lock contention retries exhausted",
				zap.String("operation", operation),
				zap.Int("attempts", attempt),
				zap.Error(err),
			)
			return apperrors.NewDeadlockError(fmt.Sprintf("%s failed after %d attempts due to lock contention", operation, attempt))
		}

		metrics.TxRetries.WithLabelValues(operation).Inc()
		delay := uc.backoff(attempt)
		uc.logger.Warn("deadlock detected, retrying",
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", uc.maxRetryAttempts),
			zap.Duration("backoff", delay),
		)

		if err := uc.sleep(ctx, delay); err != nil {
			return err
		}
	}
}

// jitteredBackoff doubles from 50ms per attempt with +/-20% jitter.
func jitteredBackoff(attempt int) time.Duration {
	base := baseBackoff << (attempt - 1)
	factor := 0.8 + rand.Float64()*0.4
	return time.Duration(float64(base) * factor)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
