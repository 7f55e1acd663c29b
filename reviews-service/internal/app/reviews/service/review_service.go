package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"velora/pkg/logger"
	"velora/pkg/metrics"
	"velora/reviews-service/internal/app/reviews/entity"
	"velora/reviews-service/internal/app/reviews/infrastructure"
	"velora/reviews-service/internal/app/reviews/repository"

	"github.com/google/uuid"
)

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrProductIDRequired  = errors.New("product id is required")
	ErrReviewDataRequired = errors.New("review data is required")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrReviewNotFound     = errors.New("review not found")
	ErrForbidden          = errors.New("forbidden access to review")
)

// Сообщения для UI: результат upsert различает создание и обновление
const (
	msgReviewCreated = "Thank you for submitting your review!"
	msgReviewUpdated = "Your review has been updated successfully!"
)

// ReviewService обрабатывает бизнес-логику отзывов
// Координирует репозитории, провайдер статистики и Kafka
type ReviewService struct {
	reviewRepo    repository.ReviewRepository
	productRepo   repository.ProductRepository
	statsProvider StatisticsProvider
	kafkaProducer infrastructure.MessagePublisher
}

// NewReviewService создает новый сервис отзывов с внедрением зависимостей
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	statsProvider StatisticsProvider,
	kafkaProducer infrastructure.MessagePublisher,
) *ReviewService {
	return &ReviewService{
		reviewRepo:    reviewRepo,
		productRepo:   productRepo,
		statsProvider: statsProvider,
		kafkaProducer: kafkaProducer,
	}
}

// SubmitReview выполняет upsert отзыва и синхронный пересчет агрегатов товара
//  1. Ищет существующий отзыв по кортежу (товар, автор, вариант)
//  2. Найден - переиспользует его ID (обновление), нет - генерирует новый (создание)
//  3. Пишет отзыв с полной заменой набора картинок; автором всегда ставится
//     аутентифицированный пользователь, что бы ни пришло в payload
//  4. Перечитывает все оценки товара и пишет среднее и количество на товар
//  5. Запрашивает распределение оценок у провайдера статистики
//
// Любая ошибка на шагах 1-5 прерывает операцию и уходит вызывающему без изменений
func (s *ReviewService) SubmitReview(ctx context.Context, productID uuid.UUID, userID, userName string, req *entity.SubmitReviewRequest) (*entity.SubmitReviewResponse, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if productID == uuid.Nil {
		return nil, ErrProductIDRequired
	}
	if req == nil {
		return nil, ErrReviewDataRequired
	}

	// Ищем существующий отзыв этого пользователя на этот вариант товара
	existing, err := s.reviewRepo.FindByProductUserVariant(ctx, productID, userID, req.Variant)
	if err != nil && !errors.Is(err, repository.ErrReviewNotFound) {
		return nil, fmt.Errorf("failed to find existing review: %w", err)
	}

	review := &entity.Review{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    userID, // Автор всегда из аутентифицированной сессии
		UserName:  userName,
		Variant:   req.Variant,
		Rating:    req.Rating,
		Text:      req.Text,
		CreatedAt: time.Now(),
	}
	if existing != nil {
		// Путь обновления: переиспользуем идентификатор найденной записи
		review.ID = existing.ID
		review.CreatedAt = existing.CreatedAt
	}

	for _, img := range req.Images {
		review.Images = append(review.Images, entity.ReviewImage{URL: img.URL})
	}

	if err := s.reviewRepo.Save(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to save review: %w", err)
	}

	// Пересчитываем агрегаты с нуля по всему набору отзывов товара.
	// Пересчет обязан видеть только что записанный отзыв
	averageRating, numReviews, err := s.recomputeProductRating(ctx, productID)
	if err != nil {
		return nil, err
	}

	// Сбрасываем кеш распределения, чтобы статистика учла свежую запись
	if err := s.statsProvider.Invalidate(ctx, productID); err != nil {
		return nil, fmt.Errorf("failed to invalidate statistics: %w", err)
	}

	statistics, err := s.statsProvider.GetStatistics(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rating statistics: %w", err)
	}

	// Возвращаем записанный отзыв с картинками
	saved, err := s.reviewRepo.GetByID(ctx, review.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load saved review: %w", err)
	}

	result := "created"
	message := msgReviewCreated
	if existing != nil {
		result = "updated"
		message = msgReviewUpdated
	}
	metrics.ReviewsSubmitted.WithLabelValues(result).Inc()
	metrics.ReviewsRating.Observe(review.Rating)

	// Отправляем событие REVIEW_UPSERTED в Kafka
	// Отзыв уже записан, проблемы с Kafka не критичны
	event := entity.ReviewEvent{
		EventType:     entity.EventReviewUpserted,
		ReviewID:      saved.ID,
		ProductID:     productID,
		UserID:        userID,
		Rating:        saved.Rating,
		AverageRating: averageRating,
		NumReviews:    numReviews,
		Timestamp:     time.Now(),
	}
	if err := s.publishReviewEvent(ctx, event); err != nil {
		logger.Warn().Err(err).Str("review_id", saved.ID.String()).Msg("Failed to publish review event")
	}

	return &entity.SubmitReviewResponse{
		Review:     saved,
		Rating:     averageRating,
		Statistics: statistics,
		Message:    message,
	}, nil
}

// GetReviewsByProduct получает все отзывы по ID товара
func (s *ReviewService) GetReviewsByProduct(ctx context.Context, productID uuid.UUID) ([]entity.Review, error) {
	reviews, err := s.reviewRepo.GetByProductID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}

	return reviews, nil
}

// GetProductStatistics получает распределение оценок товара
func (s *ReviewService) GetProductStatistics(ctx context.Context, productID uuid.UUID) (*entity.RatingStatistics, error) {
	if productID == uuid.Nil {
		return nil, ErrProductIDRequired
	}

	statistics, err := s.statsProvider.GetStatistics(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rating statistics: %w", err)
	}

	return statistics, nil
}

// GetUserReviews получает все отзывы пользователя
func (s *ReviewService) GetUserReviews(ctx context.Context, userID string) ([]entity.Review, error) {
	reviews, err := s.reviewRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user reviews: %w", err)
	}

	return reviews, nil
}

// DeleteReview удаляет отзыв с проверкой прав доступа
// и пересчитывает агрегаты товара по оставшемуся набору
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID uuid.UUID, userID string) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to get review: %w", err)
	}

	// Проверяем что пользователь является автором отзыва
	if review.UserID != userID {
		return ErrForbidden
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	// После удаления последнего отзыва среднее определяется как 0
	averageRating, numReviews, err := s.recomputeProductRating(ctx, review.ProductID)
	if err != nil {
		return err
	}

	if err := s.statsProvider.Invalidate(ctx, review.ProductID); err != nil {
		return fmt.Errorf("failed to invalidate statistics: %w", err)
	}

	event := entity.ReviewEvent{
		EventType:     entity.EventReviewDeleted,
		ReviewID:      reviewID,
		ProductID:     review.ProductID,
		UserID:        userID,
		Rating:        review.Rating,
		AverageRating: averageRating,
		NumReviews:    numReviews,
		Timestamp:     time.Now(),
	}
	if err := s.publishReviewEvent(ctx, event); err != nil {
		logger.Warn().Err(err).Str("review_id", reviewID.String()).Msg("Failed to publish review event")
	}

	return nil
}

// recomputeProductRating перечитывает все оценки товара и пишет агрегаты
// Полный пересчет вместо инкрементального: O(n) на запись, зато агрегат
// никогда не расходится с фактическим набором отзывов
func (s *ReviewService) recomputeProductRating(ctx context.Context, productID uuid.UUID) (float64, int64, error) {
	ratings, err := s.reviewRepo.GetRatings(ctx, productID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load product ratings: %w", err)
	}

	averageRating := AverageRating(ratings)
	numReviews := int64(len(ratings))

	if err := s.productRepo.UpdateRating(ctx, productID, averageRating, numReviews); err != nil {
		return 0, 0, fmt.Errorf("failed to update product rating: %w", err)
	}

	return averageRating, numReviews, nil
}

// AverageRating считает среднее арифметическое оценок
// Для пустого набора среднее определяется как 0 (без деления на ноль)
func AverageRating(ratings []float64) float64 {
	if len(ratings) == 0 {
		return 0
	}

	var total float64
	for _, rating := range ratings {
		total += rating
	}

	return total / float64(len(ratings))
}

// publishReviewEvent отправляет событие об отзыве в Kafka
func (s *ReviewService) publishReviewEvent(ctx context.Context, event entity.ReviewEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal review event: %w", err)
	}

	// Ключ = ProductID, чтобы события одного товара попадали в одну партицию
	if err := s.kafkaProducer.PublishMessage(ctx, event.ProductID.String(), eventData); err != nil {
		return fmt.Errorf("failed to publish to kafka: %w", err)
	}

	return nil
}
