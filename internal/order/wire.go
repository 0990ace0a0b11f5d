package order

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/infrastructure/mysql"
	"storefront/internal/order/controller"
	orderrepo "storefront/internal/order/repository"
	"storefront/internal/order/service"
	"storefront/internal/order/usecase"
	productrepo "storefront/internal/product/repository"
)

func NewModule(db *gorm.DB, cfg *config.Config, events service.EventRecorder, logger *zap.Logger) *controller.OrderController {
	orderRepo := orderrepo.NewGormOrderRepository(db)
	productRepo := productrepo.NewGormRepository(db)

	policy := domain.StatusPolicy{
		Cancellation: domain.CancellationMode(cfg.Order.CancellationMode),
		Strict:       cfg.Order.StrictTransitions,
	}

	orderSvc := service.NewOrderService(
		mysql.NewTxManager(db, cfg.Order.TxTimeout),
		productRepo,
		orderRepo,
		events,
		policy,
		logger,
	)

	uc := usecase.NewOrderUseCase(orderSvc, orderRepo, logger, cfg.Order.MaxRetryAttempts)
	return controller.NewOrderController(uc, logger)
}
