package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chi_middleware "github.com/go-chi/chi/v5/middleware"

	"myblog/internal/logger"
	"myblog/internal/metrics"
)

// RequestLogger writes one structured line per request.
func RequestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chi_middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			attrs := []any{
				slog.String("request_id", chi_middleware.GetReqID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				slog.String("remote_addr", r.RemoteAddr),
				slog.Duration("duration", time.Since(start)),
			}
			if status >= http.StatusInternalServerError {
				log.Error("HTTP request", attrs...)
				return
			}
			log.Info("HTTP request", attrs...)
		})
	}
}

// Metrics records request counts and latency labelled by route pattern, so
// /user/john and /user/susan share one series.
func Metrics(provider metrics.MetricsProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chi_middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			provider.IncrementHTTPRequests(route, r.Method, strconv.Itoa(status))
			provider.RecordHTTPRequestDuration(route, r.Method, time.Since(start))
		})
	}
}

// Reporter is told about panics that reached the top of the handler stack.
type Reporter interface {
	Report(ctx context.Context, subject string, details string)
}

// Recoverer turns a panic into a 500 and hands the stack to reporter.
func Recoverer(log *logger.Logger, reporter Reporter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				stack := string(debug.Stack())
				log.Error("Panic recovered",
					slog.String("request_id", chi_middleware.GetReqID(r.Context())),
					slog.String("path", r.URL.Path),
					slog.Any("panic", rec),
					slog.String("stack", stack))
				if reporter != nil {
					details := fmt.Sprintf("%s %s\n\n%v\n\n%s", r.Method, r.URL.String(), rec, stack)
					reporter.Report(r.Context(), fmt.Sprintf("%v", rec), details)
				}
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
