package service

import (
	"context"
	"fmt"

	"velora/pkg/logger"
	"velora/reviews-service/internal/app/reviews/entity"
	"velora/reviews-service/internal/app/reviews/repository"
	"velora/reviews-service/internal/app/reviews/util"

	"github.com/google/uuid"
)

// RatingStatisticsProvider считает распределение оценок товара по звездам
// Результат кешируется в Redis; кеш сбрасывается при каждой записи отзыва,
// поэтому распределение всегда считается по актуальному набору
type RatingStatisticsProvider struct {
	reviewRepo repository.ReviewRepository
	cache      util.RatingStatisticsCache
}

// NewRatingStatisticsProvider создает провайдер статистики
func NewRatingStatisticsProvider(reviewRepo repository.ReviewRepository, cache util.RatingStatisticsCache) *RatingStatisticsProvider {
	return &RatingStatisticsProvider{
		reviewRepo: reviewRepo,
		cache:      cache,
	}
}

// GetStatistics возвращает количество и долю отзывов по каждой оценке 1-5
func (p *RatingStatisticsProvider) GetStatistics(ctx context.Context, productID uuid.UUID) (*entity.RatingStatistics, error) {
	// Пытаемся получить из кеша Redis
	cached, err := p.cache.Get(ctx, productID)
	if err != nil {
		// Проблемы с кешем не критичны - считаем из БД
		logger.Warn().Err(err).Str("product_id", productID.String()).Msg("Failed to read statistics cache")
	}
	if cached != nil {
		return cached, nil
	}

	// Cache miss - считаем распределение из PostgreSQL
	counts, err := p.reviewRepo.CountByRating(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to count ratings: %w", err)
	}

	withImages, err := p.reviewRepo.CountWithImages(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to count reviews with images: %w", err)
	}

	var total int64
	for _, count := range counts {
		total += count
	}

	stats := &entity.RatingStatistics{
		Ratings:                make([]entity.RatingBucket, 0, 5),
		TotalReviews:           total,
		ReviewsWithImagesCount: withImages,
	}

	// Всегда пять бакетов, от 1 до 5 звезд; доля равна 0 при пустом наборе
	for star := 1; star <= 5; star++ {
		bucket := entity.RatingBucket{
			Rating:     star,
			NumReviews: counts[star],
		}
		if total > 0 {
			bucket.Percentage = float64(counts[star]) / float64(total) * 100
		}
		stats.Ratings = append(stats.Ratings, bucket)
	}

	if err := p.cache.Set(ctx, productID, stats); err != nil {
		// Данные посчитаны, проблемы с кешем не критичны
		logger.Warn().Err(err).Str("product_id", productID.String()).Msg("Failed to cache statistics")
	}

	return stats, nil
}

// Invalidate сбрасывает закешированное распределение товара
func (p *RatingStatisticsProvider) Invalidate(ctx context.Context, productID uuid.UUID) error {
	return p.cache.Delete(ctx, productID)
}
