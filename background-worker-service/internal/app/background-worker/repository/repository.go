package repository

import (
	"context"

	"github.com/google/uuid"

	"velora/background-worker-service/internal/app/background-worker/entity"
)

// ProductAggregateRepository работает с агрегатами рейтинга в PostgreSQL
type ProductAggregateRepository interface {
	// ComputeFromReviews пересчитывает эталонные агрегаты из таблицы reviews
	ComputeFromReviews(ctx context.Context) ([]entity.ProductAggregate, error)

	// GetStored возвращает агрегаты, записанные в таблице products
	GetStored(ctx context.Context) ([]entity.ProductAggregate, error)

	// UpdateProduct перезаписывает агрегаты одного товара
	UpdateProduct(ctx context.Context, productID uuid.UUID, rating float64, numReviews int64) error
}

// RankingRepository поддерживает рейтинг товаров в Redis
type RankingRepository interface {
	// UpdateScore записывает рейтинг товара в products:top_rated
	UpdateScore(ctx context.Context, productID string, rating float64) error

	// Remove убирает товар из рейтинга
	Remove(ctx context.Context, productID string) error

	// TopRated возвращает лучшие товары по убыванию рейтинга
	TopRated(ctx context.Context, limit int64) ([]entity.TopRatedProduct, error)

	// InvalidateStatistics сбрасывает кеш распределения оценок товара
	InvalidateStatistics(ctx context.Context, productID string) error
}
