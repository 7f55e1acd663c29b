package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"velora/reviews-service/internal/app/reviews/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type reviewRepository struct {
	db *gorm.DB // GORM DB для работы с PostgreSQL
}

// NewReviewRepository создает новый репозиторий отзывов
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// FindByProductUserVariant ищет отзыв по кортежу (товар, автор, вариант)
// Поиск строго по точному совпадению всех трех полей: другая метка варианта -
// это отдельный отзыв, а не обновление существующего
func (r *reviewRepository) FindByProductUserVariant(ctx context.Context, productID uuid.UUID, userID, variant string) (*entity.Review, error) {
	var review entity.Review
	result := r.db.WithContext(ctx).
		Where("product_id = ? AND user_id = ? AND variant = ?", productID, userID, variant).
		First(&review)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, result.Error
	}

	return &review, nil
}

// Save выполняет upsert отзыва по ID и полностью заменяет набор картинок
// Обе записи выполняются в одной транзакции: старый набор удаляется целиком,
// новый вставляется (delete-all-then-insert, без диффа)
func (r *reviewRepository) Save(ctx context.Context, review *entity.Review) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		review.UpdatedAt = time.Now()

		// Upsert по первичному ключу: INSERT ... ON CONFLICT (id) DO UPDATE
		if err := tx.Omit("Images").Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(review).Error; err != nil {
			return fmt.Errorf("failed to save review: %w", err)
		}

		// Полная замена набора картинок
		if err := tx.Where("review_id = ?", review.ID).Delete(&entity.ReviewImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete review images: %w", err)
		}

		for i := range review.Images {
			if review.Images[i].ID == uuid.Nil {
				review.Images[i].ID = uuid.New()
			}
			review.Images[i].ReviewID = review.ID
		}
		if len(review.Images) > 0 {
			if err := tx.Create(&review.Images).Error; err != nil {
				return fmt.Errorf("failed to insert review images: %w", err)
			}
		}

		return nil
	})
}

// GetByID получает отзыв по ID вместе с картинками
func (r *reviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	var review entity.Review
	result := r.db.WithContext(ctx).Preload("Images").First(&review, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, result.Error
	}

	return &review, nil
}

// GetByProductID получает все отзывы по ID товара, новые первыми
func (r *reviewRepository) GetByProductID(ctx context.Context, productID uuid.UUID) ([]entity.Review, error) {
	var reviews []entity.Review
	result := r.db.WithContext(ctx).
		Preload("Images").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews)

	if result.Error != nil {
		return nil, result.Error
	}

	return reviews, nil
}

// GetByUserID получает все отзывы пользователя
func (r *reviewRepository) GetByUserID(ctx context.Context, userID string) ([]entity.Review, error) {
	var reviews []entity.Review
	result := r.db.WithContext(ctx).
		Preload("Images").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reviews)

	if result.Error != nil {
		return nil, result.Error
	}

	return reviews, nil
}

// GetRatings возвращает оценки всех отзывов товара
// Используется для пересчета среднего с нуля при каждой записи
func (r *reviewRepository) GetRatings(ctx context.Context, productID uuid.UUID) ([]float64, error) {
	var ratings []float64
	result := r.db.WithContext(ctx).
		Model(&entity.Review{}).
		Where("product_id = ?", productID).
		Pluck("rating", &ratings)

	if result.Error != nil {
		return nil, result.Error
	}

	return ratings, nil
}

// CountByRating возвращает количество отзывов товара по каждой целой оценке
func (r *reviewRepository) CountByRating(ctx context.Context, productID uuid.UUID) (map[int]int64, error) {
	type ratingCount struct {
		Rating int
		Count  int64
	}

	var rows []ratingCount
	result := r.db.WithContext(ctx).
		Model(&entity.Review{}).
		Select("FLOOR(rating)::int AS rating, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Group("FLOOR(rating)").
		Scan(&rows)

	if result.Error != nil {
		return nil, result.Error
	}

	counts := make(map[int]int64, len(rows))
	for _, row := range rows {
		counts[row.Rating] = row.Count
	}

	return counts, nil
}

// CountWithImages возвращает количество отзывов товара с хотя бы одной картинкой
func (r *reviewRepository) CountWithImages(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&entity.Review{}).
		Where("product_id = ? AND EXISTS (SELECT 1 FROM review_images WHERE review_images.review_id = reviews.id)", productID).
		Count(&count)

	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

// Delete удаляет отзыв; картинки удаляются каскадно по внешнему ключу
func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.Review{}, "id = ?", id)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}

	return nil
}
