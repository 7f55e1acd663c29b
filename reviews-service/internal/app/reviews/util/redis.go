package util

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"velora/pkg/metrics"
	"velora/reviews-service/internal/app/reviews/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const statisticsKeyPrefix = "reviews:statistics:"

// StatisticsCache кеширует распределение оценок товара в Redis
// Кеш сбрасывается при каждой записи или удалении отзыва товара
type StatisticsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatisticsCache создает кеш статистики с проверкой соединения
func NewStatisticsCache(addr, password string, db int, ttl time.Duration) (*StatisticsCache, error) {
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

	return &StatisticsCache{client: client, ttl: ttl}, nil
}

// NewStatisticsCacheWithClient оборачивает готовый клиент (используется в тестах)
func NewStatisticsCacheWithClient(client *redis.Client, ttl time.Duration) *StatisticsCache {
	return &StatisticsCache{client: client, ttl: ttl}
}

func statisticsKey(productID uuid.UUID) string {
	return statisticsKeyPrefix + productID.String()
}

// Get возвращает закешированную статистику или nil при промахе
func (c *StatisticsCache) Get(ctx context.Context, productID uuid.UUID) (*entity.RatingStatistics, error) {
	timer := metrics.NewRedisTimer("reviews-service", metrics.RedisOpGet)
	defer timer.ObserveDuration()

	data, err := c.client.Get(ctx, statisticsKey(productID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			metrics.RecordCacheMiss("reviews-service", statisticsKeyPrefix)
			return nil, nil
		}
		metrics.RecordRedisError("reviews-service", metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get statistics from cache: %w", err)
	}

	var stats entity.RatingStatistics
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal statistics: %w", err)
	}

	metrics.RecordCacheHit("reviews-service", statisticsKeyPrefix)
	return &stats, nil
}

// Set сохраняет статистику товара с TTL
func (c *StatisticsCache) Set(ctx context.Context, productID uuid.UUID, stats *entity.RatingStatistics) error {
	timer := metrics.NewRedisTimer("reviews-service", metrics.RedisOpSet)
	defer timer.ObserveDuration()

	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal statistics: %w", err)
	}

	if err := c.client.Set(ctx, statisticsKey(productID), data, c.ttl).Err(); err != nil {
		metrics.RecordRedisError("reviews-service", metrics.RedisOpSet)
		return fmt.Errorf("failed to set statistics in cache: %w", err)
	}

	return nil
}

// Delete сбрасывает кеш статистики товара
func (c *StatisticsCache) Delete(ctx context.Context, productID uuid.UUID) error {
	timer := metrics.NewRedisTimer("reviews-service", metrics.RedisOpDel)
	defer timer.ObserveDuration()

	if err := c.client.Del(ctx, statisticsKey(productID)).Err(); err != nil {
		metrics.RecordRedisError("reviews-service", metrics.RedisOpDel)
		return fmt.Errorf("failed to delete statistics from cache: %w", err)
	}

	return nil
}

// Close закрывает соединение с Redis
func (c *StatisticsCache) Close() error {
	return c.client.Close()
}
