package controller

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"storefront/internal/commons"
	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
)

const UserIDHeader = "X-User-ID"

type OrderUseCase interface {
	CreateOrder(ctx context.Context, input dto.CreateOrderInput) (*domain.Order, error)
	CancelOrder(ctx context.Context, id string) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	TrackOrder(ctx context.Context, orderNumber, userID string) (*domain.Order, error)
	ListOrders(ctx context.Context, filter dto.OrderFilter, page, limit int) (*dto.ListOrdersResponse, error)
}

type OrderController struct {
	useCase  OrderUseCase
	validate *validator.Validate
	logger   *zap.Logger
}

func NewOrderController(useCase OrderUseCase, logger *zap.Logger) *OrderController {
	return &OrderController{
		useCase:  useCase,
		validate: commons.NewValidator(),
		logger:   logger,
	}
}

// Routes mounts the order endpoints. createMiddlewares wrap only checkout.
func (c *OrderController) Routes(r chi.Router, createMiddlewares ...func(http.Handler) http.Handler) {
	r.Route("/orders", func(r chi.Router) {
		r.With(createMiddlewares...).Post("/", c.CreateOrder)
		r.Get("/", c.ListOrders)
		r.Get("/track", c.TrackOrder)
		r.Get("/{id}", c.GetOrder)
		r.Put("/{id}", c.UpdateOrder)
		r.Delete("/{id}", c.CancelOrder)
	})
}

func (c *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.CreateOrderRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		commons.WriteValidationError(w, c.logger, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	trimCreateOrderRequest(&req)
	if err := commons.ValidateStruct(c.validate, req); err != nil {
		commons.HandleError(w, c.logger, traceID, err)
		return
	}

	items := make([]dto.OrderItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = dto.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	order, err := c.useCase.CreateOrder(r.Context(), dto.CreateOrderInput{
		UserID: req.UserID,
		Items:  items,
		Shipping: domain.ShippingInfo{
			Name:    req.ShippingName,
			Email:   req.ShippingEmail,
			Address: req.ShippingAddress,
			City:    req.ShippingCity,
			Zip:     req.ShippingZip,
		},
	})
	if err != nil {
		commons.HandleError(w, logger, traceID, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusCreated, dto.NewOrderResponse(order))
}

func (c *OrderController) ListOrders(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	filter := dto.OrderFilter{UserID: strings.TrimSpace(r.URL.Query().Get("userId"))}
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := domain.ParseOrderStatus(raw)
		if err != nil {
			commons.WriteValidationError(w, c.logger, traceID, "invalid query parameter", apperrors.ValidationDetail{
				Field:   "status",
				Message: err.Error(),
			})
			return
		}
		filter.Status = status
	}

	page, err := commons.QueryInt(r, "page", defaultPage)
	if err != nil {
		commons.HandleError(w, c.logger, traceID, err)
		return
	}
	limit, err := commons.QueryInt(r, "limit", defaultLimit)
	if err != nil {
		commons.HandleError(w, c.logger, traceID, err)
		return
	}

	resp, err := c.useCase.ListOrders(r.Context(), filter, page, limit)
	if err != nil {
		commons.HandleError(w, c.logger, traceID, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, resp)
}

func (c *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	order, err := c.useCase.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		commons.HandleError(w, c.logger, traceID, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, dto.NewOrderResponse(order))
}

func (c *OrderController) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.UpdateOrderRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		commons.WriteValidationError(w, c.logger, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	req.Status = strings.TrimSpace(req.Status)
	if err := commons.ValidateStruct(c.validate, req); err != nil {
		commons.HandleError(w, c.logger, traceID, err)
		return
	}
	status, _ := domain.ParseOrderStatus(req.Status)

	order, err := c.useCase.UpdateOrderStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		commons.HandleError(w, logger, traceID, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, dto.NewOrderResponse(order))
}

func (c *OrderController) CancelOrder(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	order, err := c.useCase.CancelOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		commons.HandleError(w, c.logger.With(zap.String("traceId", traceID)), traceID, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, dto.CancelOrderResponse{
		Message:     "Order cancelled successfully",
		OrderNumber: order.OrderNumber,
		Status:      string(order.Status),
	})
}

func (c *OrderController) TrackOrder(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
	if userID == "" {
		commons.WriteError(w, c.logger, traceID, http.StatusUnauthorized, "UNAUTHORIZED", "missing "+UserIDHeader+" header", nil)
		return
	}

	orderNumber := strings.TrimSpace(r.URL.Query().Get("orderNumber"))
	if orderNumber == "" {
		commons.WriteValidationError(w, c.logger, traceID, "orderNumber is required", apperrors.ValidationDetail{
			Field:   "orderNumber",
			Message: "is required",
		})
		return
	}

	order, err := c.useCase.TrackOrder(r.Context(), orderNumber, userID)
	if err != nil {
		commons.HandleError(w, c.logger, traceID, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, dto.NewOrderResponse(order))
}

func trimCreateOrderRequest(req *dto.CreateOrderRequest) {
	req.UserID = strings.TrimSpace(req.UserID)
	req.ShippingName = strings.TrimSpace(req.ShippingName)
	req.ShippingEmail = strings.TrimSpace(req.ShippingEmail)
	req.ShippingAddress = strings.TrimSpace(req.ShippingAddress)
	req.ShippingCity = strings.TrimSpace(req.ShippingCity)
	req.ShippingZip = strings.TrimSpace(req.ShippingZip)
	for i := range req.Items {
		req.Items[i].ProductID = strings.TrimSpace(req.Items[i].ProductID)
	}
}

const (
	defaultPage  = 1
	defaultLimit = 10
)
