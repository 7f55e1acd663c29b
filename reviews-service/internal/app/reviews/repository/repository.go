package repository

import (
	"context"
	"errors"

	"velora/reviews-service/internal/app/reviews/entity"

	"github.com/google/uuid"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrReviewNotFound  = errors.New("review not found")
	ErrProductNotFound = errors.New("product not found")
)

// ReviewRepository определяет методы для работы с отзывами в PostgreSQL
type ReviewRepository interface {
	// FindByProductUserVariant ищет отзыв по кортежу (товар, автор, вариант)
	// Возвращает ErrReviewNotFound если отзыва еще нет (путь создания)
	FindByProductUserVariant(ctx context.Context, productID uuid.UUID, userID, variant string) (*entity.Review, error)
	// Save выполняет upsert отзыва по его ID с полной заменой набора картинок
	Save(ctx context.Context, review *entity.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	GetByProductID(ctx context.Context, productID uuid.UUID) ([]entity.Review, error)
	GetByUserID(ctx context.Context, userID string) ([]entity.Review, error)
	// GetRatings возвращает оценки всех отзывов товара для пересчета агрегата
	GetRatings(ctx context.Context, productID uuid.UUID) ([]float64, error)
	// CountByRating возвращает количество отзывов товара по каждой оценке
	CountByRating(ctx context.Context, productID uuid.UUID) (map[int]int64, error)
	// CountWithImages возвращает количество отзывов товара хотя бы с одной картинкой
	CountWithImages(ctx context.Context, productID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductRepository определяет запись агрегатных полей рейтинга на товар
// Остальными колонками таблицы products владеет Catalog Service
type ProductRepository interface {
	UpdateRating(ctx context.Context, productID uuid.UUID, rating float64, numReviews int64) error
}
