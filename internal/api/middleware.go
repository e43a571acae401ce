package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/blagoySimandov/astra/go/internal/apperr"
	"github.com/blagoySimandov/astra/go/internal/logger"
	"github.com/blagoySimandov/astra/go/internal/logging"
	"github.com/blagoySimandov/astra/go/internal/metrics"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

const (
	MaxBodyBytes        = 10 << 20
	internalServerError = "Internal server error."
	httpEventType       = "http_request"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

// LoggingMiddleware opens the request's wide event, records HTTP metrics and
// emits the event once the handler returns.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		event := logging.NewWideEvent(httpEventType)
		ctx := logging.WithContext(r.Context(), event)
		logging.EnrichHTTP(ctx, r.Method, r.URL.Path)

		route := routeTemplate(r)
		logging.EnrichRoute(ctx, route)

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r.WithContext(ctx))

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)
		logging.EnrichHTTPStatus(ctx, status)
		logging.EnrichHTTPDuration(ctx, duration)

		labels := []string{r.Method, route, strconv.Itoa(status)}
		metrics.HTTPRequestsTotal.WithLabelValues(labels...).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(labels...).Observe(duration.Seconds())

		logging.Emit(ctx, logger.Log)
	})
}

func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logging.EnrichPanic(r.Context())
				writeError(w, r, apperr.Wrap(apperr.InternalFailure, internalServerError, fmt.Errorf("panic: %v", rec)), "recovery")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func BodyLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
		next.ServeHTTP(w, r)
	})
}

func CORSMiddleware(allowedOrigins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return "unmatched"
}
