package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/hr-admin-service/internal/config"
	"github.com/pribylovaa/hr-admin-service/internal/models"
	"github.com/pribylovaa/hr-admin-service/internal/service"
	"github.com/pribylovaa/hr-admin-service/internal/transport/http/handlers"
	"github.com/pribylovaa/hr-admin-service/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.
	// Registry для метрик; nil — prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
	// Ready сообщает готовность сервиса принимать трафик (для /healthz).
	Ready func() bool
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
//
// Политики доступа строятся здесь же, при сборке роутера, и передаются
// guard'у как явные значения: защита каждого маршрута видна в одном месте.
func NewRouter(svc *service.Service, cfg *config.Config, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),              // безопасно ловим паники
		middleware.RequestID(),            // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger),   // кладём request-scoped логгер в контекст и логируем
		middleware.Metrics(opts.Registry), // http_requests_total / http_request_duration_seconds
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	// Служебные маршруты вне базового пути — всегда публичные.
	root.Get("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	root.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if opts.Ready != nil && !opts.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	root.Handle("/metrics", promhttp.Handler())

	h := handlers.New(svc, cfg)

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h, svc)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h, svc)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
//
// Схема защиты:
//   - /auth/* — публичные;
//   - чтение справочников — любой аутентифицированный пользователь;
//   - изменяющие операции — только администратор.
func registerRoutes(r chi.Router, h *handlers.Handlers, svc *service.Service) {
	requireUser := middleware.RequireAuth(svc, service.Policy{
		RequiresAuth: true,
		MinRole:      models.RoleUser,
	})
	requireAdmin := middleware.RequireAuth(svc, service.Policy{
		RequiresAuth: true,
		MinRole:      models.RoleAdmin,
	})

	// auth
	r.Post("/auth/login", h.Login)
	r.Post("/auth/refresh", h.Refresh)

	// чтение — аутентифицированные пользователи.
	r.Group(func(r chi.Router) {
		r.Use(requireUser)

		r.Get("/department", h.ListDepartments)
		r.Get("/department/{id}", h.DepartmentByID)

		r.Get("/branch", h.ListBranches)
		r.Get("/branch/{id}", h.BranchByID)

		r.Get("/employee", h.ListEmployees)
		r.Get("/employee/{id}", h.EmployeeByID)
	})

	// запись — только администраторы.
	r.Group(func(r chi.Router) {
		r.Use(requireAdmin)

		r.Post("/department", h.CreateDepartment)
		r.Put("/department/{id}", h.UpdateDepartment)
		r.Delete("/department/{id}", h.DeleteDepartment)

		r.Post("/branch", h.CreateBranch)
		r.Put("/branch/{id}", h.UpdateBranch)
		r.Delete("/branch/{id}", h.DeleteBranch)

		r.Post("/employee", h.CreateEmployee)
		r.Put("/employee/{id}", h.UpdateEmployee)
		r.Delete("/employee/{id}", h.DeleteEmployee)
	})
}
