package product

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront/internal/product/controller"
	"storefront/internal/product/repository"
	"storefront/internal/product/service"
	"storefront/internal/product/usecase"
)

func NewModule(db *gorm.DB, logger *zap.Logger) *controller.CatalogController {
	repo := repository.NewGormRepository(db)
	svc := service.NewCatalogService(repo)
	uc := usecase.NewCatalogUseCase(svc, logger)
	return controller.NewCatalogController(uc, logger)
}
