// httperr стандартизирует ответы об ошибках HTTP-слоя.
// На вход он принимает доменную ошибку (сентинелы пакета service),
// а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
//
// Политика безопасности:
//   - все отказы авторизации (нет токена, битая подпись, истёкший срок,
//     недостаточная роль) дают один и тот же ответ 401/unauthorized;
//   - ErrInvalidCredentials всегда отвечает одинаково, какая бы подпроверка
//     входа ни провалилась (защита от перечисления аккаунтов);
//   - для 500 наружу не утекают детали внутренних ошибок; подробности
//     должны попадать в логи через middleware.
package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pribylovaa/hr-admin-service/internal/service"
)

// Нестандартный код, часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// APIError — единый формат ошибки для фронта.
// Code — короткий стабильный код для машиночитаемой обработки.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует доменную ошибку в HTTP-статус и унифицированный ответ.
func ToHTTP(err error) (int, ErrorResponse) {
	status, code, msg := base(err)
	return status, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: msg,
		},
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// base — маппинг доменных ошибок -> HTTP/код/сообщение.
//   - ErrInvalidCredentials -> 401 (единый ответ на любой отказ входа)
//   - ErrInvalidToken/ErrTokenExpired/ErrPermissionDenied -> 401 (единый ответ guard'а)
//   - ErrInvalidEmail/ErrInvalidArgument -> 400
//   - ErrNotFound -> 404
//   - ErrEmailTaken/ErrConflict -> 409
//   - context.Canceled -> 499, context.DeadlineExceeded -> 504
//   - прочее -> 500/internal
func base(err error) (int, string, string) {
	switch {
	case err == nil:
		// Программная ошибка вызова: не маскируем баг ответом "200 OK".
		return http.StatusInternalServerError, "internal", "internal error"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials", "Invalid Credentials"
	case errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrPermissionDenied):
		return http.StatusUnauthorized, "unauthorized", "unauthorized"
	case errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument", "invalid argument"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found", "not found"
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrConflict):
		return http.StatusConflict, "conflict", "conflict"
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, "canceled", "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
