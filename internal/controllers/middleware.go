package controllers

import (
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"go.uber.org/zap"

	"github.com/helpify-project/messageboard/internal/cctx"
)

const requestIDHeader = "X-Request-ID"

// Wrap applies the middleware chain shared by every route: access log,
// panic recovery, request ids and an allow-all CORS policy.
func Wrap(h http.Handler, accessLog io.Writer) http.Handler {
	h = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		}),
		handlers.AllowedHeaders([]string{"Content-Type", requestIDHeader}),
		handlers.ExposedHeaders([]string{requestIDHeader}),
	)(h)
	h = RequestID(h)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(zap.L().With(zap.String("section", "recovery")))),
		handlers.PrintRecoveryStack(true),
	)(h)

	return handlers.CombinedLoggingHandler(accessLog, h)
}

// RequestID tags the request context with an id, reusing the caller's
// X-Request-ID when it is a valid UUID.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(rid); err != nil {
			rid = uuid.New().String()
		}

		w.Header().Set(requestIDHeader, rid)
		next.ServeHTTP(w, r.WithContext(cctx.WithValues(
			r.Context(),
			cctx.RequestID, rid,
		)))
	})
}

func logger(r *http.Request) *zap.Logger {
	return zap.L().With(zap.String("request_id", cctx.RequestIDFrom(r.Context())))
}
