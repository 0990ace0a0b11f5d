package idempotency

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"storefront/internal/commons"
	"storefront/internal/infrastructure/metrics"
)

const (
	Header         = "Idempotency-Key"
	ReplayedHeader = "Idempotent-Replayed"

	maxKeyLength = 255
)

func Key(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(Header))
}

// Middleware makes handlers safe to retry under an Idempotency-Key. Requests
// without the header, or a nil store, pass straight through.
func Middleware(store Store, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := Key(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			traceID := commons.TraceID(r.Context())
			log := logger.With(zap.String("traceId", traceID), zap.String("idempotencyKey", key))

			if len(key) > maxKeyLength {
				commons.WriteError(w, logger, traceID, http.StatusBadRequest, "VALIDATION_ERROR", Header+" must be at most 255 characters", nil)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				commons.WriteError(w, logger, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "unable to read request body", nil)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			fp := fingerprint(r, body)

			existing, claimed, err := store.Claim(r.Context(), key, fp)
			if err != nil {
				log.Error("claiming idempotency key", zap.Error(err))
				commons.WriteError(w, logger, traceID, http.StatusServiceUnavailable, "IDEMPOTENCY_UNAVAILABLE", "idempotency store unavailable", nil)
				return
			}

			if !claimed {
				switch {
				case existing.Fingerprint != fp:
					metrics.IdempotentReplays.WithLabelValues("mismatch").Inc()
					commons.WriteError(w, logger, traceID, http.StatusUnprocessableEntity, "IDEMPOTENCY_KEY_REUSED", "idempotency key was used with a different request", nil)
				case existing.Status == StatusCompleted:
					metrics.IdempotentReplays.WithLabelValues("replayed").Inc()
					log.Info("replaying stored response", zap.Int("status", existing.StatusCode))
					replay(w, existing)
				default:
					metrics.IdempotentReplays.WithLabelValues("in_progress").Inc()
					commons.WriteError(w, logger, traceID, http.StatusConflict, "CONFLICT", "a request with this idempotency key is already in progress", nil)
				}
				return
			}

			metrics.IdempotentReplays.WithLabelValues("claimed").Inc()
			rec := &responseCapture{ResponseWriter: w, status: http.StatusOK}
			defer func() {
				if p := recover(); p != nil {
					if err := store.Release(context.WithoutCancel(r.Context()), key); err != nil {
						log.Error("releasing idempotency key after panic", zap.Error(err))
					}
					panic(p)
				}
			}()
			next.ServeHTTP(rec, r)

			// the client may be gone by now; the outcome must still be stored
			ctx := context.WithoutCancel(r.Context())
			if rec.status >= http.StatusInternalServerError {
				if err := store.Release(ctx, key); err != nil {
					log.Error("releasing idempotency key", zap.Error(err))
				}
				return
			}
			if err := store.Complete(ctx, key, Record{
				Fingerprint: fp,
				StatusCode:  rec.status,
				ContentType: rec.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
			}); err != nil {
				log.Error("storing idempotent response", zap.Error(err))
			}
		})
	}
}

func fingerprint(r *http.Request, body []byte) string {
	h := sha256.New()
	h.Write([]byte(r.Method))
	h.Write([]byte{0})
	h.Write([]byte(r.URL.Path))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func replay(w http.ResponseWriter, rec *Record) {
	if rec.ContentType != "" {
		w.Header().Set("Content-Type", rec.ContentType)
	}
	w.Header().Set(ReplayedHeader, "true")
	w.WriteHeader(rec.StatusCode)
	_, _ = w.Write(rec.Body)
}

type responseCapture struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func (c *responseCapture) WriteHeader(status int) {
	if !c.wroteHeader {
		c.status = status
		c.wroteHeader = true
	}
	c.ResponseWriter.WriteHeader(status)
}

func (c *responseCapture) Write(b []byte) (int, error) {
	if !c.wroteHeader {
		c.WriteHeader(http.StatusOK)
	}
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}
