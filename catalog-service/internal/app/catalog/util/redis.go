package util

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"velora/catalog-service/internal/app/catalog/entity"
	"velora/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

const categoriesCacheKey = "catalog:categories:all"

// CategoryCache кеширует полный список категорий в Redis
// Кеш сбрасывается при любой записи категории
type CategoryCache struct {
	client *redis.Client
}

// NewCategoryCache создает кеш категорий с проверкой соединения
func NewCategoryCache(addr, password string, db int) (*CategoryCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &CategoryCache{client: client}, nil
}

// NewCategoryCacheWithClient оборачивает готовый клиент (используется в тестах)
func NewCategoryCacheWithClient(client *redis.Client) *CategoryCache {
	return &CategoryCache{client: client}
}

// SetCategories сохраняет список категорий с TTL
func (c *CategoryCache) SetCategories(ctx context.Context, categories []entity.Category, ttl time.Duration) error {
	timer := metrics.NewRedisTimer("catalog-service", metrics.RedisOpSet)
	defer timer.ObserveDuration()

	data, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}

	if err := c.client.Set(ctx, categoriesCacheKey, data, ttl).Err(); err != nil {
		metrics.RecordRedisError("catalog-service", metrics.RedisOpSet)
		return fmt.Errorf("failed to set categories in cache: %w", err)
	}

	return nil
}

// GetCategories возвращает закешированный список или nil при промахе
func (c *CategoryCache) GetCategories(ctx context.Context) ([]entity.Category, error) {
	timer := metrics.NewRedisTimer("catalog-service", metrics.RedisOpGet)
	defer timer.ObserveDuration()

	data, err := c.client.Get(ctx, categoriesCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			metrics.RecordCacheMiss("catalog-service", categoriesCacheKey)
			return nil, nil
		}
		metrics.RecordRedisError("catalog-service", metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get categories from cache: %w", err)
	}

	var categories []entity.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("failed to unmarshal categories: %w", err)
	}

	metrics.RecordCacheHit("catalog-service", categoriesCacheKey)
	return categories, nil
}

// DeleteCategories сбрасывает кеш списка категорий
func (c *CategoryCache) DeleteCategories(ctx context.Context) error {
	timer := metrics.NewRedisTimer("catalog-service", metrics.RedisOpDel)
	defer timer.ObserveDuration()

	if err := c.client.Del(ctx, categoriesCacheKey).Err(); err != nil {
		metrics.RecordRedisError("catalog-service", metrics.RedisOpDel)
		return fmt.Errorf("failed to delete categories from cache: %w", err)
	}

	return nil
}

// Close закрывает соединение с Redis
func (c *CategoryCache) Close() error {
	return c.client.Close()
}
