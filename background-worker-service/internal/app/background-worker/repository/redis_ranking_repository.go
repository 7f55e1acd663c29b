package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"velora/background-worker-service/internal/app/background-worker/entity"
	"velora/pkg/metrics"
)

const (
	topRatedKey            = "products:top_rated"
	statisticsCacheKeyBase = "reviews:statistics:"
)

// RedisRankingRepository хранит рейтинг товаров в sorted set products:top_rated
// и сбрасывает кеш статистики Reviews Service
type RedisRankingRepository struct {
	client *redis.Client
}

func NewRankingRepository(client *redis.Client) *RedisRankingRepository {
	return &RedisRankingRepository{client: client}
}

// UpdateScore записывает текущий средний рейтинг товара
func (r *RedisRankingRepository) UpdateScore(ctx context.Context, productID string, rating float64) error {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpZAdd)
	defer timer.ObserveDuration()

	err := r.client.ZAdd(ctx, topRatedKey, redis.Z{
		Score:  rating,
		Member: productID,
	}).Err()
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpZAdd)
		return fmt.Errorf("failed to update ranking score: %w", err)
	}

	return nil
}

// Remove убирает товар из рейтинга (после удаления последнего отзыва)
func (r *RedisRankingRepository) Remove(ctx context.Context, productID string) error {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpZRem)
	defer timer.ObserveDuration()

	if err := r.client.ZRem(ctx, topRatedKey, productID).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpZRem)
		return fmt.Errorf("failed to remove product from ranking: %w", err)
	}

	return nil
}

// TopRated возвращает лучшие товары по убыванию рейтинга
func (r *RedisRankingRepository) TopRated(ctx context.Context, limit int64) ([]entity.TopRatedProduct, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpZRange)
	defer timer.ObserveDuration()

	members, err := r.client.ZRevRangeWithScores(ctx, topRatedKey, 0, limit-1).Result()
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpZRange)
		return nil, fmt.Errorf("failed to read ranking: %w", err)
	}

	products := make([]entity.TopRatedProduct, 0, len(members))
	for _, member := range members {
		productID, ok := member.Member.(string)
		if !ok {
			continue
		}
		products = append(products, entity.TopRatedProduct{
			ProductID: productID,
			Rating:    member.Score,
		})
	}

	return products, nil
}

// InvalidateStatistics сбрасывает кеш распределения оценок товара
// Ключ совпадает с тем, что пишет Reviews Service
func (r *RedisRankingRepository) InvalidateStatistics(ctx context.Context, productID string) error {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpDel)
	defer timer.ObserveDuration()

	if err := r.client.Del(ctx, statisticsCacheKeyBase+productID).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpDel)
		return fmt.Errorf("failed to invalidate statistics cache: %w", err)
	}

	return nil
}
