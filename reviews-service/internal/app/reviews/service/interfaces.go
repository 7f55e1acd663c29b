package service

import (
	"context"

	"velora/reviews-service/internal/app/reviews/entity"

	"github.com/google/uuid"
)

// StatisticsProvider отдает распределение оценок товара
// Reviews Service потребляет его как внешнего коллаборатора при upsert
type StatisticsProvider interface {
	GetStatistics(ctx context.Context, productID uuid.UUID) (*entity.RatingStatistics, error)
	// Invalidate сбрасывает закешированное распределение после записи отзыва
	Invalidate(ctx context.Context, productID uuid.UUID) error
}

type ReviewServiceInterface interface {
	SubmitReview(ctx context.Context, productID uuid.UUID, userID, userName string, req *entity.SubmitReviewRequest) (*entity.SubmitReviewResponse, error)
	GetReviewsByProduct(ctx context.Context, productID uuid.UUID) ([]entity.Review, error)
	GetProductStatistics(ctx context.Context, productID uuid.UUID) (*entity.RatingStatistics, error)
	GetUserReviews(ctx context.Context, userID string) ([]entity.Review, error)
	DeleteReview(ctx context.Context, reviewID uuid.UUID, userID string) error
}
