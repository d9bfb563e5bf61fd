// Package cache оборачивает клиент Redis: JSON-значения с TTL,
// короткие блокировки на время запроса и счётчики в sorted set.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/coffeehouse/internal/config"
)

// Cache хранит подключение к Redis.
type Cache struct {
	Db *redis.Client
}

// Score элемент sorted set со значением счётчика.
type Score struct {
	Member string
	Value  int64
}

// InitServer подключается к Redis и проверяет соединение.
func InitServer(ctx context.Context, cfg config.RedisConnection) (*Cache, error) {
	const op = "cache.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Cache{Db: db}, nil
}

// Get читает JSON-значение по ключу. Возвращает false, если ключа нет.
func (c *Cache) Get(ctx context.Context, key string, result any) (bool, error) {
	const op = "cache.Get"
	val, err := c.Db.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	err = json.Unmarshal([]byte(val), result)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// Set сохраняет значение в JSON с временем жизни.
func (c *Cache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	const op = "cache.Set"
	jsonData, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := c.Db.Set(ctx, key, jsonData, expiration).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Invalidate удаляет ключ.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	const op = "cache.Invalidate"
	if err := c.Db.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Acquire ставит флаг занятости ключа, если он ещё не стоит.
// Флаг снимается через Release или по истечении ttl.
func (c *Cache) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	const op = "cache.Acquire"
	ok, err := c.Db.SetNX(ctx, key, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return ok, nil
}

// Release снимает флаг занятости.
func (c *Cache) Release(ctx context.Context, key string) error {
	return c.Invalidate(ctx, key)
}

// SeedScores добавляет начальные значения счётчиков, не трогая уже существующие.
func (c *Cache) SeedScores(ctx context.Context, key string, scores []Score) error {
	const op = "cache.SeedScores"
	if len(scores) == 0 {
		return nil
	}
	members := make([]redis.Z, 0, len(scores))
	for _, s := range scores {
		members = append(members, redis.Z{Score: float64(s.Value), Member: s.Member})
	}
	if err := c.Db.ZAddNX(ctx, key, members...).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IncrScore увеличивает счётчик member на delta и возвращает новое значение.
func (c *Cache) IncrScore(ctx context.Context, key, member string, delta int64) (int64, error) {
	const op = "cache.IncrScore"
	val, err := c.Db.ZIncrBy(ctx, key, float64(delta), member).Result()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int64(val), nil
}

// Scores возвращает все счётчики по убыванию значения.
func (c *Cache) Scores(ctx context.Context, key string) ([]Score, error) {
	const op = "cache.Scores"
	items, err := c.Db.ZRevRangeWithScores(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result := make([]Score, 0, len(items))
	for _, z := range items {
		member, ok := z.Member.(string)
		if !ok {
			member = fmt.Sprint(z.Member)
		}
		result = append(result, Score{Member: member, Value: int64(z.Score)})
	}
	return result, nil
}

// Ping проверяет доступность Redis.
func (c *Cache) Ping(ctx context.Context) error {
	return c.Db.Ping(ctx).Err()
}

// Close закрывает соединение.
func (c *Cache) Close() error {
	return c.Db.Close()
}
