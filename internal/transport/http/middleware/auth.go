package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pribylovaa/hr-admin-service/internal/service"
	"github.com/pribylovaa/hr-admin-service/internal/transport/http/httperr"
)

// Authorizer — guard доступа, которым защищаются маршруты.
type Authorizer interface {
	Authorize(ctx context.Context, token string, p service.Policy) (int64, error)
}

type ctxKeyUserID struct{}

// UserIDFrom возвращает идентификатор аутентифицированного пользователя,
// положенный RequireAuth. Второе значение false для публичных маршрутов.
func UserIDFrom(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxKeyUserID{}).(int64)
	return id, ok
}

// RequireAuth защищает маршрут политикой p: извлекает bearer-токен
// (заголовок Authorization либо кука access_token) и отдаёт его guard'у.
// Любой отказ guard'а транслируется в унифицированный ответ httperr.
func RequireAuth(a Authorizer, p service.Policy) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)

			uid, err := a.Authorize(r.Context(), token, p)
			if err != nil {
				httperr.WriteError(w, r, err)
				return
			}

			if uid != 0 {
				ctx := context.WithValue(r.Context(), ctxKeyUserID{}, uid)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken достаёт access-токен из запроса.
// Приоритет за заголовком Authorization: Bearer <jwt>; кука access_token —
// путь для браузерных клиентов, которым заголовок недоступен.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if c, err := r.Cookie("access_token"); err == nil {
		return c.Value
	}

	return ""
}
