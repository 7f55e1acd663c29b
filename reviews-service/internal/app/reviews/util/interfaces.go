package util

import (
	"context"

	"velora/reviews-service/internal/app/reviews/entity"

	"github.com/google/uuid"
)

// RatingStatisticsCache интерфейс кеша распределения оценок
// Используется для dependency injection и упрощения тестирования
type RatingStatisticsCache interface {
	Get(ctx context.Context, productID uuid.UUID) (*entity.RatingStatistics, error)
	Set(ctx context.Context, productID uuid.UUID, stats *entity.RatingStatistics) error
	Delete(ctx context.Context, productID uuid.UUID) error
	Close() error
}
