package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pribylovaa/hr-admin-service/internal/models"
)

// RoleCache — минимальный контракт кэша ролей пользователей.
//
// Кэш используется Access Guard'ом при проверке повышенных прав, чтобы не
// ходить в БД на каждый административный запрос. TTL держится коротким:
// смена роли внешним административным потоком вступает в силу после
// истечения записи.
type RoleCache interface {
	// Get возвращает роль и признак её наличия в кэше.
	Get(ctx context.Context, userID int64) (models.Role, bool, error)
	// Set сохраняет роль с TTL.
	Set(ctx context.Context, userID int64, role models.Role, ttl time.Duration) error
	// Invalidate удаляет запись (на случай явной смены роли).
	Invalidate(ctx context.Context, userID int64) error
	// Close закрывает клиент Redis.
	Close() error
}

type redisCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisCache создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "hr:role:".
func NewRedisCache(redisURL, prefix string) (RoleCache, error) {
	if prefix == "" {
		prefix = "hr:role:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &redisCache{rdb: rdb, prefix: prefix}, nil
}

func (c *redisCache) key(userID int64) string {
	return c.prefix + strconv.FormatInt(userID, 10)
}

func (c *redisCache) Get(ctx context.Context, userID int64) (models.Role, bool, error) {
	v, err := c.rdb.Get(ctx, c.key(userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}

		return "", false, err
	}

	role := models.Role(v)
	if !role.Valid() {
		// Запись испорчена — считаем промахом.
		return "", false, nil
	}

	return role, true, nil
}

func (c *redisCache) Set(ctx context.Context, userID int64, role models.Role, ttl time.Duration) error {
	return c.rdb.Set(ctx, c.key(userID), string(role), ttl).Err()
}

func (c *redisCache) Invalidate(ctx context.Context, userID int64) error {
	return c.rdb.Del(ctx, c.key(userID)).Err()
}

func (c *redisCache) Close() error { return c.rdb.Close() }
