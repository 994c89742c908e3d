package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/hr-admin-service/internal/models"
	"github.com/pribylovaa/hr-admin-service/internal/pkg/log"
	"github.com/pribylovaa/hr-admin-service/internal/storage"
)

// Policy — декларативное описание защиты операции.
// Политики строятся один раз при сборке роутера и передаются guard'у
// при каждом вызове; никакой рефлексии во время запроса.
type Policy struct {
	// RequiresAuth — требуется ли аутентификация вообще.
	RequiresAuth bool
	// MinRole — минимальная роль для операции. Имеет смысл только при
	// RequiresAuth = true; models.RoleAdmin включает проверку роли по БД.
	MinRole models.Role
}

// Authorize — Access Guard: решает, допускать ли операцию.
//
// Последовательность:
//  1. публичная операция (RequiresAuth = false) — допуск без проверок;
//  2. пустой токен — отказ;
//  3. проверка подписи/срока/типа access-токена — любой дефект даёт отказ,
//     причина наружу не раскрывается;
//  4. для операций с MinRole = RoleAdmin — текущая роль пользователя
//     читается из кэша или хранилища и должна быть ровно RoleAdmin.
//
// Возвращает идентификатор пользователя (0 для публичных операций).
func (s *Service) Authorize(ctx context.Context, token string, p Policy) (int64, error) {
	const op = "service.guard.Authorize"

	if !p.RequiresAuth {
		return 0, nil
	}

	if token == "" {
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	uid, err := s.validateToken(token, tokenKindAccess)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if p.MinRole == models.RoleAdmin {
		role, err := s.roleFor(ctx, uid)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				// Пользователь удалён после выпуска токена.
				return 0, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return 0, fmt.Errorf("%s: %w", op, err)
		}

		// Повышенную проверку проходит только администратор.
		if role != models.RoleAdmin {
			return 0, fmt.Errorf("%s: %w", op, ErrPermissionDenied)
		}
	}

	return uid, nil
}

// roleFor возвращает текущую роль пользователя: сперва из кэша,
// при промахе — из хранилища с записью в кэш. Ошибки кэша не фатальны.
func (s *Service) roleFor(ctx context.Context, userID int64) (models.Role, error) {
	const op = "service.guard.roleFor"

	lg := log.From(ctx)

	if s.roleCache != nil {
		role, ok, err := s.roleCache.Get(ctx, userID)
		if err != nil {
			lg.Warn("role_cache_get_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		} else if ok {
			return role, nil
		}
	}

	role, err := s.storage.RoleByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if s.roleCache != nil {
		if err := s.roleCache.Set(ctx, userID, role, s.roleTTL); err != nil {
			lg.Warn("role_cache_set_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		}
	}

	return role, nil
}
