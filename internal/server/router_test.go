package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"storefront/internal/commons"
)

type stubRoutes struct {
	path string
}

func (s stubRoutes) Routes(r chi.Router) {
	r.Get(s.path, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

type stubOrderRoutes struct {
	middlewares int
}

func (s *stubOrderRoutes) Routes(r chi.Router, createMiddlewares ...func(http.Handler) http.Handler) {
	s.middlewares = len(createMiddlewares)
	r.With(createMiddlewares...).Post("/orders", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
}

func newTestDeps(orders *stubOrderRoutes) RouterDeps {
	return RouterDeps{
		Catalog: stubRoutes{path: "/products"},
		Cart:    stubRoutes{path: "/cart/ping"},
		Orders:  orders,
		Logger:  zap.NewNop(),
	}
}

func TestNewRouter_MountsUnderAPI(t *testing.T) {
	router := NewRouter(newTestDeps(&stubOrderRoutes{}))

	for _, tc := range []struct {
		method, path string
		status       int
	}{
		{http.MethodGet, "/api/products", http.StatusOK},
		{http.MethodGet, "/api/cart/ping", http.StatusOK},
		{http.MethodPost, "/api/orders", http.StatusCreated},
		{http.MethodGet, "/products", http.StatusNotFound},
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, tc.status, rec.Code, tc.method+" "+tc.path)
	}
}

func TestNewRouter_EchoesTraceID(t *testing.T) {
	router := NewRouter(newTestDeps(&stubOrderRoutes{}))

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set(commons.TraceHeader, "trace-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "trace-123", rec.Header().Get(commons.TraceHeader))
}

func TestNewRouter_IdempotencyOnlyWhenConfigured(t *testing.T) {
	orders := &stubOrderRoutes{}
	NewRouter(newTestDeps(orders))
	assert.Equal(t, 0, orders.middlewares)

	deps := newTestDeps(orders)
	deps.Idempotency = func(next http.Handler) http.Handler { return next }
	NewRouter(deps)
	assert.Equal(t, 1, orders.middlewares)
}

func TestHealth(t *testing.T) {
	deps := newTestDeps(&stubOrderRoutes{})
	rec := httptest.NewRecorder()
	NewRouter(deps).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	deps.Ready = func() error { return errors.New("db down") }
	rec = httptest.NewRecorder()
	NewRouter(deps).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	NewRouter(newTestDeps(&stubOrderRoutes{})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecoverer(t *testing.T) {
	deps := newTestDeps(&stubOrderRoutes{})
	deps.Catalog = panicRoutes{}
	rec := httptest.NewRecorder()

	NewRouter(deps).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

type panicRoutes struct{}

func (panicRoutes) Routes(r chi.Router) {
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
}
