package repository

import (
	"context"

	"velora/reviews-service/internal/app/reviews/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository создает репозиторий агрегатных полей товара
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// UpdateRating записывает пересчитанные агрегаты рейтинга на товар
// Точечное обновление двух числовых колонок по ID товара;
// никакие другие поля таблицы products отсюда не трогаются
func (r *productRepository) UpdateRating(ctx context.Context, productID uuid.UUID, rating float64, numReviews int64) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"rating":      rating,
			"num_reviews": numReviews,
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}
