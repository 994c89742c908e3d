// service содержит бизнес-логику hr-admin-сервиса:
// аутентификацию пользователей, выпуск/проверку токенов, авторизацию
// защищённых операций (Access Guard) и CRUD кадровых сущностей поверх
// интерфейсов из пакета storage.
//
// Основные аспекты:
//   - Пакет не хранит состояние запроса внутри Service; экземпляр Service
//     безопасен для конкурентного использования из разных горутин при условии,
//     что переданное хранилище (storage.Storage) потокобезопасно.
//   - Секрет подписи и TTL токенов читаются из конфигурации один раз при
//     создании Service и далее не мутируются.
//   - Ошибки возвращаются и далее маппятся транспортом на HTTP-статусы
//     (см. комментарии к переменным ошибок ниже).
package service

import (
	"errors"
	"time"

	"github.com/pribylovaa/hr-admin-service/internal/cache"
	"github.com/pribylovaa/hr-admin-service/internal/config"
	"github.com/pribylovaa/hr-admin-service/internal/storage"
)

var (
	// ErrInvalidCredentials — пара логин/пароль неверна, пользователь не найден
	// или у него нет активных учётных данных. Всегда один и тот же результат,
	// какая бы подпроверка ни провалилась (защита от перечисления аккаунтов).
	// Транспорт: HTTP 401.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken — токен (access/refresh) отсутствует, некорректен
	// по формату/подписи/типу или подписан другим секретом.
	// Транспорт: HTTP 401, без уточнения причины.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — срок действия токена истёк.
	// Транспорт: HTTP 401, неотличимо от ErrInvalidToken снаружи.
	ErrTokenExpired = errors.New("token expired")

	// ErrPermissionDenied — токен валиден, но роли пользователя недостаточно
	// для операции. Транспорт: HTTP 401, неотличимо от прочих отказов guard'а.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrEmailTaken — e-mail уже занят другим пользователем.
	// Транспорт: HTTP 409.
	ErrEmailTaken = errors.New("email already taken")

	// ErrInvalidEmail — e-mail имеет некорректный формат.
	// Транспорт: HTTP 400.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidArgument — входные данные CRUD-операции не проходят валидацию.
	// Транспорт: HTTP 400.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound — сущность не найдена.
	// Транспорт: HTTP 404.
	ErrNotFound = errors.New("not found")

	// ErrConflict — сущность нельзя удалить, на неё ссылаются другие записи.
	// Транспорт: HTTP 409.
	ErrConflict = errors.New("conflict")
)

// Service описывает бизнес-логику hr-admin-сервиса.
type Service struct {
	storage storage.Storage
	cfg     config.AuthConfig

	// roleCache может быть nil, если кэш не сконфигурирован;
	// тогда Access Guard ходит за ролью напрямую в хранилище.
	roleCache cache.RoleCache
	roleTTL   time.Duration
}

// New создаёт новый экземпляр Service.
func New(storage storage.Storage, cfg config.AuthConfig) *Service {
	return &Service{
		storage: storage,
		cfg:     cfg,
	}
}

// SetRoleCache устанавливает кэш ролей (опционально).
func (s *Service) SetRoleCache(c cache.RoleCache, ttl time.Duration) {
	s.roleCache = c
	s.roleTTL = ttl
}
