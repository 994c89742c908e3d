// handlers реализует HTTP-обработчики поверх доменного сервиса.
//
// Контракт слоя:
//   - тела запросов декодируются строго (неизвестные поля — ошибка 400);
//   - успешные ответы — JSON с Content-Type: application/json;
//   - любые доменные ошибки уходят клиенту через httperr.WriteError,
//     детали внутренних сбоев наружу не попадают.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/hr-admin-service/internal/config"
	"github.com/pribylovaa/hr-admin-service/internal/service"
)

// Handlers агрегирует зависимости HTTP-слоя.
type Handlers struct {
	svc *service.Service
	cfg *config.Config
}

func New(svc *service.Service, cfg *config.Config) *Handlers {
	return &Handlers{svc: svc, cfg: cfg}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через httperr.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// idParam читает числовой параметр {id} маршрута.
func idParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, service.ErrInvalidArgument
	}

	return id, nil
}
