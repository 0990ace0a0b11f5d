package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "storefront",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "orders_created_total",
		Help:      "Orders committed by checkout.",
	})
	OrdersCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "orders_cancelled_total",
		Help:      "Pending orders cancelled with stock restored.",
	})
	InsufficientStock = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "order_insufficient_stock_total",
		Help:      "Checkouts rejected because a product ran out of stock.",
	})
	TxRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "order_tx_retries_total",
			Help:      "Order transactions retried after a deadlock or lock wait timeout.",
		},
		[]string{"operation"},
	)
	OutboxPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "outbox_events_published_total",
		Help:      "Outbox events relayed to the broker.",
	})
	IdempotentReplays = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "idempotency_requests_total",
			Help:      "Requests carrying an Idempotency-Key, by outcome.",
		},
		[]string{"outcome"},
	)
)

func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request count and latency per chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		RequestTotal.WithLabelValues(r.Method, route, strconv.Itoa(ww.status)).Inc()
		RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
