package controller

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"storefront/internal/commons"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
)

type ReconcileCartUseCase interface {
	Reconcile(ctx context.Context, lines []dto.CartLineRequest) (*dto.ReconcileCartResponse, error)
}

type CartController struct {
	useCase  ReconcileCartUseCase
	validate *validator.Validate
	logger   *zap.Logger
}

func NewCartController(useCase ReconcileCartUseCase, logger *zap.Logger) *CartController {
	return &CartController{
		useCase:  useCase,
		validate: commons.NewValidator(),
		logger:   logger,
	}
}

func (c *CartController) Routes(r chi.Router) {
	r.Post("/cart/reconcile", c.Reconcile)
}

func (c *CartController) Reconcile(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	var req dto.ReconcileCartRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteValidationError(w, c.logger, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	for i := range req.Items {
		req.Items[i].ProductID = strings.TrimSpace(req.Items[i].ProductID)
	}
	if err := commons.ValidateStruct(c.validate, req); err != nil {
		commons.HandleError(w, c.logger, traceID, err)
		return
	}

	resp, err := c.useCase.Reconcile(r.Context(), req.Items)
	if err != nil {
		commons.HandleError(w, c.logger, traceID, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, resp)
}
