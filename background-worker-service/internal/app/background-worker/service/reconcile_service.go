package service

import (
	"context"
	"fmt"
	"math"

	"github.com/prometheus/client_golang/prometheus"

	"velora/background-worker-service/internal/app/background-worker/entity"
	"velora/background-worker-service/internal/app/background-worker/repository"
	"velora/pkg/logger"
	"velora/pkg/metrics"
)

// Допуск при сравнении средних: среднее хранится как float64
// и пересчитывается двумя разными путями
const ratingEpsilon = 0.001

// ReconcileService сверяет колонки rating/num_reviews таблицы products
// с фактическим содержимым таблицы reviews и чинит расхождения.
// Расхождения возможны: пересчет агрегата и запись отзыва не атомарны,
// параллельные записи по одному товару могут затереть друг друга
type ReconcileService struct {
	aggregateRepo repository.ProductAggregateRepository
	rankingRepo   repository.RankingRepository
}

func NewReconcileService(
	aggregateRepo repository.ProductAggregateRepository,
	rankingRepo repository.RankingRepository,
) *ReconcileService {
	return &ReconcileService{
		aggregateRepo: aggregateRepo,
		rankingRepo:   rankingRepo,
	}
}

// ReconcileAggregates выполняет один полный проход сверки
func (s *ReconcileService) ReconcileAggregates(ctx context.Context) (*entity.ReconcileResult, error) {
	timer := prometheus.NewTimer(metrics.WorkerReconcileDuration)
	defer timer.ObserveDuration()

	actual, err := s.aggregateRepo.ComputeFromReviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute actual aggregates: %w", err)
	}

	stored, err := s.aggregateRepo.GetStored(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stored aggregates: %w", err)
	}

	actualByProduct := make(map[string]entity.ProductAggregate, len(actual))
	for _, aggregate := range actual {
		actualByProduct[aggregate.ProductID.String()] = aggregate
	}

	result := &entity.ReconcileResult{}

	for _, storedAggregate := range stored {
		result.Checked++

		// Товар без отзывов должен иметь нулевые агрегаты
		expected, ok := actualByProduct[storedAggregate.ProductID.String()]
		if !ok {
			expected = entity.ProductAggregate{ProductID: storedAggregate.ProductID}
		}

		if aggregatesMatch(storedAggregate, expected) {
			continue
		}

		if err := s.repairAggregate(ctx, storedAggregate, expected); err != nil {
			logger.Error().
				Err(err).
				Str("product_id", storedAggregate.ProductID.String()).
				Msg("Failed to repair product aggregate")
			metrics.WorkerAggregatesReconciled.WithLabelValues("failed").Inc()
			result.Failed++
			continue
		}

		metrics.WorkerAggregatesReconciled.WithLabelValues("fixed").Inc()
		result.Fixed++
	}

	logger.Info().
		Int("checked", result.Checked).
		Int("fixed", result.Fixed).
		Int("failed", result.Failed).
		Msg("Rating reconciliation pass completed")

	return result, nil
}

func (s *ReconcileService) repairAggregate(ctx context.Context, stored, expected entity.ProductAggregate) error {
	logger.Warn().
		Str("product_id", stored.ProductID.String()).
		Float64("stored_rating", stored.Rating).
		Float64("expected_rating", expected.Rating).
		Int64("stored_num_reviews", stored.NumReviews).
		Int64("expected_num_reviews", expected.NumReviews).
		Msg("Detected drifted product aggregate")

	if err := s.aggregateRepo.UpdateProduct(ctx, stored.ProductID, expected.Rating, expected.NumReviews); err != nil {
		return err
	}

	// Рейтинг в Redis приводим к тому же эталону
	productID := stored.ProductID.String()
	if expected.NumReviews == 0 {
		return s.rankingRepo.Remove(ctx, productID)
	}
	return s.rankingRepo.UpdateScore(ctx, productID, expected.Rating)
}

func aggregatesMatch(stored, expected entity.ProductAggregate) bool {
	return stored.NumReviews == expected.NumReviews &&
		math.Abs(stored.Rating-expected.Rating) < ratingEpsilon
}
