package service

import (
	"context"
	"fmt"

	"velora/background-worker-service/internal/app/background-worker/entity"
	"velora/background-worker-service/internal/app/background-worker/repository"
	"velora/pkg/logger"
)

// ReviewEventService обновляет рейтинг products:top_rated по событиям отзывов
type ReviewEventService struct {
	rankingRepo repository.RankingRepository
}

func NewReviewEventService(rankingRepo repository.RankingRepository) *ReviewEventService {
	return &ReviewEventService{rankingRepo: rankingRepo}
}

// ProcessReviewEvent обрабатывает одно событие отзыва.
// Событие несет уже пересчитанный агрегат товара, поэтому
// рейтинг обновляется без обращения к БД
func (s *ReviewEventService) ProcessReviewEvent(ctx context.Context, event *entity.ReviewEvent) error {
	switch event.EventType {
	case entity.EventReviewUpserted:
		return s.processUpserted(ctx, event)
	case entity.EventReviewDeleted:
		return s.processDeleted(ctx, event)
	default:
		logger.Warn().
			Str("event_type", event.EventType).
			Str("product_id", event.ProductID.String()).
			Msg("Unknown review event type, skipping")
		return nil
	}
}

func (s *ReviewEventService) processUpserted(ctx context.Context, event *entity.ReviewEvent) error {
	productID := event.ProductID.String()

	if err := s.rankingRepo.UpdateScore(ctx, productID, event.AverageRating); err != nil {
		return fmt.Errorf("failed to update ranking: %w", err)
	}

	if err := s.rankingRepo.InvalidateStatistics(ctx, productID); err != nil {
		return fmt.Errorf("failed to invalidate statistics: %w", err)
	}

	logger.Info().
		Str("product_id", productID).
		Float64("average_rating", event.AverageRating).
		Int64("num_reviews", event.NumReviews).
		Msg("Ranking updated after review upsert")

	return nil
}

func (s *ReviewEventService) processDeleted(ctx context.Context, event *entity.ReviewEvent) error {
	productID := event.ProductID.String()

	// Товар без отзывов уходит из рейтинга целиком
	if event.NumReviews == 0 {
		if err := s.rankingRepo.Remove(ctx, productID); err != nil {
			return fmt.Errorf("failed to remove product from ranking: %w", err)
		}
	} else {
		if err := s.rankingRepo.UpdateScore(ctx, productID, event.AverageRating); err != nil {
			return fmt.Errorf("failed to update ranking: %w", err)
		}
	}

	if err := s.rankingRepo.InvalidateStatistics(ctx, productID); err != nil {
		return fmt.Errorf("failed to invalidate statistics: %w", err)
	}

	logger.Info().
		Str("product_id", productID).
		Int64("num_reviews", event.NumReviews).
		Msg("Ranking updated after review deletion")

	return nil
}
