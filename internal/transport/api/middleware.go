package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/sandevgo/briefbot/internal/telemetry"
	"github.com/sandevgo/briefbot/pkg/log"
)

const requestIDHeader = "X-Request-ID"

// requestID honors an inbound X-Request-ID, mints one otherwise, and tags
// the response header and the request-scoped logger with it.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		logger := log.FromCtx(r.Context()).With().Str("request_id", id).Logger()
		next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context())))
	})
}

// accessLog writes one structured line per request and feeds the duration
// histogram. The metric label uses the chi route pattern, not the raw path,
// to keep cardinality bounded.
func accessLog(metrics *telemetry.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			started := time.Now()

			next.ServeHTTP(ww, r)

			elapsed := time.Since(started)
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				metrics.ObserveRequest(rctx.RoutePattern(), strconv.Itoa(ww.Status()), elapsed.Seconds())
			}

			log.FromCtx(r.Context()).Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("elapsed", elapsed).
				Msg("request served")
		})
	}
}
