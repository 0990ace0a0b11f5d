package usecase

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
)

type ProductRepository interface {
	FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
}

// ReconcileCartUseCase checks a client-held cart against the live catalog
// before checkout. It reads without locking; createOrder is still the
// authority on stock.
type ReconcileCartUseCase struct {
	productRepo ProductRepository
	logger      *zap.Logger
}

func NewReconcileCartUseCase(productRepo ProductRepository, logger *zap.Logger) *ReconcileCartUseCase {
	return &ReconcileCartUseCase{productRepo: productRepo, logger: logger}
}

type mergedLine struct {
	productID string
	quantity  int
	price     decimal.Decimal
}

// mergeLines sums duplicate product lines in first-seen order. The first
// line's price is kept.
func mergeLines(lines []dto.CartLineRequest) []mergedLine {
	index := make(map[string]int, len(lines))
	merged := make([]mergedLine, 0, len(lines))
	for _, l := range lines {
		if i, ok := index[l.ProductID]; ok {
			merged[i].quantity += l.Quantity
			continue
		}
		index[l.ProductID] = len(merged)
		merged = append(merged, mergedLine{productID: l.ProductID, quantity: l.Quantity, price: l.Price})
	}
	return merged
}

func (uc *ReconcileCartUseCase) Reconcile(ctx context.Context, lines []dto.CartLineRequest) (*dto.ReconcileCartResponse, error) {
	merged := mergeLines(lines)

	ids := make([]string, len(merged))
	for i, l := range merged {
		ids[i] = l.productID
	}

	products, err := uc.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	resp := &dto.ReconcileCartResponse{
		Lines:         make([]dto.CartLineResult, 0, len(merged)),
		CheckoutItems: []dto.CreateOrderItemRequest{},
		Total:         decimal.Zero,
		CanCheckout:   true,
	}

	for _, l := range merged {
		result := reconcileLine(l, byID)
		resp.Lines = append(resp.Lines, result)

		if result.Status != dto.CartLineOK {
			resp.CanCheckout = false
		}
		if result.Quantity > 0 && result.CurrentPrice != nil {
			resp.CheckoutItems = append(resp.CheckoutItems, dto.CreateOrderItemRequest{
				ProductID: result.ProductID,
				Quantity:  result.Quantity,
				Price:     *result.CurrentPrice,
			})
			resp.Total = resp.Total.Add(result.CurrentPrice.Mul(decimal.NewFromInt(int64(result.Quantity))))
		}
	}

	if !resp.CanCheckout {
		uc.logger.Info("cart needs attention before checkout", zap.Int("lines", len(resp.Lines)))
	}
	return resp, nil
}

// reconcileLine picks one status per line. Availability beats stock, and a
// quantity clamp beats a price change.
func reconcileLine(l mergedLine, byID map[string]domain.Product) dto.CartLineResult {
	result := dto.CartLineResult{
		ProductID:         l.productID,
		RequestedQuantity: l.quantity,
		CartPrice:         l.price,
	}

	p, ok := byID[l.productID]
	if !ok || !p.Active {
		result.Status = dto.CartLineUnavailable
		return result
	}

	price := p.Price
	result.Name = p.Name
	result.Slug = p.Slug
	result.Image = p.Image
	result.Stock = p.Stock
	result.CurrentPrice = &price

	switch {
	case p.Stock <= 0:
		result.Status = dto.CartLineOutOfStock
	case l.quantity > p.Stock:
		result.Quantity = p.Stock
		result.Status = dto.CartLineAdjusted
	case !l.price.Equal(p.Price):
		result.Quantity = l.quantity
		result.Status = dto.CartLinePriceChanged
	default:
		result.Quantity = l.quantity
		result.Status = dto.CartLineOK
	}
	return result
}
