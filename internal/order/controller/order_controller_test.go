package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
)

type mockOrderUseCase struct {
	CreateOrderFunc       func(ctx context.Context, input dto.CreateOrderInput) (*domain.Order, error)
	CancelOrderFunc       func(ctx context.Context, id string) (*domain.Order, error)
	UpdateOrderStatusFunc func(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	GetOrderFunc          func(ctx context.Context, id string) (*domain.Order, error)
	TrackOrderFunc        func(ctx context.Context, orderNumber, userID string) (*domain.Order, error)
	ListOrdersFunc        func(ctx context.Context, filter dto.OrderFilter, page, limit int) (*dto.ListOrdersResponse, error)
}

func (m *mockOrderUseCase) CreateOrder(ctx context.Context, input dto.CreateOrderInput) (*domain.Order, error) {
	return m.CreateOrderFunc(ctx, input)
}

func (m *mockOrderUseCase) CancelOrder(ctx context.Context, id string) (*domain.Order, error) {
	return m.CancelOrderFunc(ctx, id)
}

func (m *mockOrderUseCase) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	return m.UpdateOrderStatusFunc(ctx, id, status)
}

func (m *mockOrderUseCase) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return m.GetOrderFunc(ctx, id)
}

func (m *mockOrderUseCase) TrackOrder(ctx context.Context, orderNumber, userID string) (*domain.Order, error) {
	return m.TrackOrderFunc(ctx, orderNumber, userID)
}

func (m *mockOrderUseCase) ListOrders(ctx context.Context, filter dto.OrderFilter, page, limit int) (*dto.ListOrdersResponse, error) {
	return m.ListOrdersFunc(ctx, filter, page, limit)
}

func newTestRouter(uc OrderUseCase) http.Handler {
	r := chi.NewRouter()
	NewOrderController(uc, zap.NewNop()).Routes(r)
	return r
}

func serve(t *testing.T, handler http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

const validCheckout = `{
	"userId": " user-1 ",
	"items": [
		{"productId": "p-1", "quantity": 2, "price": 10.00},
		{"productId": "p-2", "quantity": 1, "price": "5.00"}
	],
	"shippingName": "Ada Lovelace",
	"shippingEmail": "ada@example.com",
	"shippingAddress": "12 Analytical St",
	"shippingCity": "London",
	"shippingZip": "N1"
}`

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID:          "order-1",
		OrderNumber: "ORD-1",
		UserID:      "user-1",
		Status:      domain.OrderStatusPending,
		Total:       decimal.RequireFromString("25.00"),
		CreatedAt:   time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		Items: []domain.OrderItem{{
			ID:        1,
			ProductID: "p-1",
			Quantity:  2,
			Price:     decimal.RequireFromString("10.00"),
			Product:   &domain.Product{ID: "p-1", Name: "Lamp", Slug: "lamp", Price: decimal.RequireFromString("12.00")},
		}},
		User: &domain.User{ID: "user-1", Name: "Ada", Email: "ada@example.com"},
	}
}

func TestCreateOrder_Created(t *testing.T) {
	uc := &mockOrderUseCase{
		CreateOrderFunc: func(ctx context.Context, input dto.CreateOrderInput) (*domain.Order, error) {
			assert.Equal(t, "user-1", input.UserID)
			require.Len(t, input.Items, 2)
			assert.True(t, input.Items[1].Price.Equal(decimal.NewFromInt(5)))
			assert.Equal(t, "London", input.Shipping.City)
			return sampleOrder(), nil
		},
	}

	rec := serve(t, newTestRouter(uc), http.MethodPost, "/orders", validCheckout, nil)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ORD-1", body["orderNumber"])
	assert.Equal(t, "PENDING", body["status"])
	items := body["orderItems"].([]interface{})
	require.Len(t, items, 1)
	product := items[0].(map[string]interface{})["product"].(map[string]interface{})
	assert.Equal(t, "lamp", product["slug"])
	assert.Equal(t, "ada@example.com", body["user"].(map[string]interface{})["email"])
}

func TestCreateOrder_ValidationErrors(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		expectedField string
	}{
		{"empty items", `{"userId":"u","items":[],"shippingName":"a","shippingEmail":"a@b.co","shippingAddress":"x","shippingCity":"y","shippingZip":"z"}`, "items"},
		{"zero quantity", `{"userId":"u","items":[{"productId":"p","quantity":0,"price":1}],"shippingName":"a","shippingEmail":"a@b.co","shippingAddress":"x","shippingCity":"y","shippingZip":"z"}`, "items[0].quantity"},
		{"zero price", `{"userId":"u","items":[{"productId":"p","quantity":1,"price":0}],"shippingName":"a","shippingEmail":"a@b.co","shippingAddress":"x","shippingCity":"y","shippingZip":"z"}`, "items[0].price"},
		{"sub-cent price", `{"userId":"u","items":[{"productId":"p","quantity":2,"price":1.005}],"shippingName":"a","shippingEmail":"a@b.co","shippingAddress":"x","shippingCity":"y","shippingZip":"z"}`, "items[0].price"},
		{"price below one cent", `{"userId":"u","items":[{"productId":"p","quantity":1,"price":"0.004"}],"shippingName":"a","shippingEmail":"a@b.co","shippingAddress":"x","shippingCity":"y","shippingZip":"z"}`, "items[0].price"},
		{"blank shipping name", `{"userId":"u","items":[{"productId":"p","quantity":1,"price":1}],"shippingName":"   ","shippingEmail":"a@b.co","shippingAddress":"x","shippingCity":"y","shippingZip":"z"}`, "shippingName"},
		{"invalid email", `{"userId":"u","items":[{"productId":"p","quantity":1,"price":1}],"shippingName":"a","shippingEmail":"nope","shippingAddress":"x","shippingCity":"y","shippingZip":"z"}`, "shippingEmail"},
		{"malformed json", `{"userId":`, "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockOrderUseCase{
				CreateOrderFunc: func(ctx context.Context, input dto.CreateOrderInput) (*domain.Order, error) {
					t.Fatal("use case must not be called")
					return nil, nil
				},
			}

			rec := serve(t, newTestRouter(uc), http.MethodPost, "/orders", tt.body, nil)

			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body dto.ValidationErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "VALIDATION_ERROR", body.Error)
			fields := make([]string, 0, len(body.Details))
			for _, d := range body.Details {
				fields = append(fields, d.Field)
			}
			assert.Contains(t, fields, tt.expectedField)
		})
	}
}

func TestCreateOrder_ErrorMapping(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedBody string
	}{
		{"product not found", apperrors.NewNotFoundError("product p-9 not found"), http.StatusNotFound, "NOT_FOUND"},
		{"insufficient stock", apperrors.NewInsufficientStockError("p-1", "Lamp", 1, 2), http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"},
		{"deadlock", apperrors.NewDeadlockError("retries exhausted"), http.StatusConflict, "DEADLOCK"},
		{"unexpected", assert.AnError, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockOrderUseCase{
				CreateOrderFunc: func(ctx context.Context, input dto.CreateOrderInput) (*domain.Order, error) {
					return nil, tt.err
				},
			}

			rec := serve(t, newTestRouter(uc), http.MethodPost, "/orders", validCheckout, nil)

			assert.Equal(t, tt.expectedCode, rec.Code)

			var body dto.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedBody, body.Code)
			assert.Equal(t, tt.expectedCode, body.Status)
		})
	}
}

func TestCreateOrder_InsufficientStockDetails(t *testing.T) {
	uc := &mockOrderUseCase{
		CreateOrderFunc: func(ctx context.Context, input dto.CreateOrderInput) (*domain.Order, error) {
			return nil, apperrors.NewInsufficientStockError("p-1", "Lamp", 1, 2)
		},
	}

	rec := serve(t, newTestRouter(uc), http.MethodPost, "/orders", validCheckout, nil)

	var body struct {
		Message string                       `json:"message"`
		Details dto.InsufficientStockDetails `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "insufficient stock for Lamp. Available: 1, Requested: 2", body.Message)
	assert.Equal(t, dto.InsufficientStockDetails{ProductID: "p-1", ProductName: "Lamp", Available: 1, Requested: 2}, body.Details)
}

func TestListOrders(t *testing.T) {
	uc := &mockOrderUseCase{
		ListOrdersFunc: func(ctx context.Context, filter dto.OrderFilter, page, limit int) (*dto.ListOrdersResponse, error) {
			assert.Equal(t, "user-1", filter.UserID)
			assert.Equal(t, domain.OrderStatusShipped, filter.Status)
			assert.Equal(t, 2, page)
			assert.Equal(t, 5, limit)
			return &dto.ListOrdersResponse{Orders: []dto.OrderResponse{}, Pagination: dto.NewPagination(2, 5, 6)}, nil
		},
	}

	rec := serve(t, newTestRouter(uc), http.MethodGet, "/orders?userId=user-1&status=SHIPPED&page=2&limit=5", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body dto.ListOrdersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Pagination.TotalPages)
}

func TestListOrders_InvalidStatus(t *testing.T) {
	rec := serve(t, newTestRouter(&mockOrderUseCase{}), http.MethodGet, "/orders?status=LOST", "", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOrder_NotFound(t *testing.T) {
	uc := &mockOrderUseCase{
		GetOrderFunc: func(ctx context.Context, id string) (*domain.Order, error) {
			assert.Equal(t, "missing", id)
			return nil, apperrors.NewNotFoundError("order missing not found")
		},
	}

	rec := serve(t, newTestRouter(uc), http.MethodGet, "/orders/missing", "", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateOrder(t *testing.T) {
	uc := &mockOrderUseCase{
		UpdateOrderStatusFunc: func(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
			assert.Equal(t, "order-1", id)
			assert.Equal(t, domain.OrderStatusProcessing, status)
			o := sampleOrder()
			o.Status = status
			return o, nil
		},
	}

	rec := serve(t, newTestRouter(uc), http.MethodPut, "/orders/order-1", `{"status":"PROCESSING"}`, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"PROCESSING"`)
}

func TestUpdateOrder_InvalidStatus(t *testing.T) {
	rec := serve(t, newTestRouter(&mockOrderUseCase{}), http.MethodPut, "/orders/order-1", `{"status":"LOST"}`, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body dto.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Details, 1)
	assert.Equal(t, "status", body.Details[0].Field)
	assert.Contains(t, body.Details[0].Message, "PENDING")
}

func TestUpdateOrder_StrictPolicyConflict(t *testing.T) {
	uc := &mockOrderUseCase{
		UpdateOrderStatusFunc: func(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
			return nil, apperrors.NewConflictError("order cannot move from SHIPPED to PENDING")
		},
	}

	rec := serve(t, newTestRouter(uc), http.MethodPut, "/orders/order-1", `{"status":"PENDING"}`, nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCancelOrder(t *testing.T) {
	uc := &mockOrderUseCase{
		CancelOrderFunc: func(ctx context.Context, id string) (*domain.Order, error) {
			o := sampleOrder()
			o.Status = domain.OrderStatusCancelled
			return o, nil
		},
	}

	rec := serve(t, newTestRouter(uc), http.MethodDelete, "/orders/order-1", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body dto.CancelOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Order cancelled successfully", body.Message)
	assert.Equal(t, "ORD-1", body.OrderNumber)
}

func TestCancelOrder_NotPending(t *testing.T) {
	uc := &mockOrderUseCase{
		CancelOrderFunc: func(ctx context.Context, id string) (*domain.Order, error) {
			return nil, apperrors.NewConflictError("order ORD-1 cannot be cancelled in status SHIPPED")
		},
	}

	rec := serve(t, newTestRouter(uc), http.MethodDelete, "/orders/order-1", "", nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestTrackOrder(t *testing.T) {
	uc := &mockOrderUseCase{
		TrackOrderFunc: func(ctx context.Context, orderNumber, userID string) (*domain.Order, error) {
			if userID != "user-1" {
				return nil, apperrors.NewForbiddenError("order does not belong to the requesting user")
			}
			return sampleOrder(), nil
		},
	}
	router := newTestRouter(uc)

	rec := serve(t, router, http.MethodGet, "/orders/track?orderNumber=ORD-1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(t, router, http.MethodGet, "/orders/track", "", map[string]string{UserIDHeader: "user-1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, router, http.MethodGet, "/orders/track?orderNumber=ORD-1", "", map[string]string{UserIDHeader: "intruder"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(t, router, http.MethodGet, "/orders/track?orderNumber=ORD-1", "", map[string]string{UserIDHeader: "user-1"})
	assert.Equal(t, http.StatusOK, rec.Code)
}
