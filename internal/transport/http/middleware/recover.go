package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	logctx "github.com/pribylovaa/hr-admin-service/internal/pkg/log"
	"github.com/pribylovaa/hr-admin-service/internal/transport/http/httperr"
)

var errPanic = errors.New("panic")

// Recover перехватывает панику обработчика, логирует стек и отвечает 500.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logctx.From(r.Context()).Error("panic recovered",
						slog.Any("panic", rec),
						slog.String("stack", string(debug.Stack())),
					)

					httperr.WriteError(w, r, errPanic)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
