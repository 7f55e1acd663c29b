package service

import (
	"context"

	"velora/background-worker-service/internal/app/background-worker/entity"
)

// ReviewEventServiceInterface обрабатывает события отзывов из Kafka
type ReviewEventServiceInterface interface {
	ProcessReviewEvent(ctx context.Context, event *entity.ReviewEvent) error
}

// ReconcileServiceInterface сверяет агрегаты рейтинга с таблицей отзывов
type ReconcileServiceInterface interface {
	ReconcileAggregates(ctx context.Context) (*entity.ReconcileResult, error)
}
