package cart

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront/internal/cart/controller"
	"storefront/internal/cart/usecase"
	productrepo "storefront/internal/product/repository"
)

func NewModule(db *gorm.DB, logger *zap.Logger) *controller.CartController {
	uc := usecase.NewReconcileCartUseCase(productrepo.NewGormRepository(db), logger)
	return controller.NewCartController(uc, logger)
}
