package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"storefront/internal/commons"
	"storefront/internal/infrastructure/metrics"
	"storefront/internal/infrastructure/tracing"
)

// RouteMounter is implemented by every feature controller.
type RouteMounter interface {
	Routes(r chi.Router)
}

type RouterDeps struct {
	Catalog RouteMounter
	Cart    RouteMounter
	Orders  OrderRoutes
	// Idempotency wraps checkout only. Nil disables it.
	Idempotency func(http.Handler) http.Handler
	Logger      *zap.Logger
	Ready       func() error
}

type OrderRoutes interface {
	Routes(r chi.Router, createMiddlewares ...func(http.Handler) http.Handler)
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(commons.TraceMiddleware)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(tracing.Middleware)

	r.Get("/health", healthHandler(deps))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		deps.Catalog.Routes(r)
		deps.Cart.Routes(r)

		var checkout []func(http.Handler) http.Handler
		if deps.Idempotency != nil {
			checkout = append(checkout, deps.Idempotency)
		}
		deps.Orders.Routes(r, checkout...)
	})

	return r
}

func healthHandler(deps RouterDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Ready != nil {
			if err := deps.Ready(); err != nil {
				deps.Logger.Warn("health check failed", zap.Error(err))
				commons.WriteJSON(w, deps.Logger, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		commons.WriteJSON(w, deps.Logger, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("request completed",
				zap.String("traceId", commons.TraceID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
