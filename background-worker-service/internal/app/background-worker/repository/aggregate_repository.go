package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"velora/background-worker-service/internal/app/background-worker/entity"
	"velora/pkg/metrics"
)

const serviceName = "background-worker-service"

// GormAggregateRepository реализует ProductAggregateRepository поверх GORM
type GormAggregateRepository struct {
	db *gorm.DB
}

func NewAggregateRepository(db *gorm.DB) *GormAggregateRepository {
	return &GormAggregateRepository{db: db}
}

// ComputeFromReviews пересчитывает агрегаты напрямую из отзывов.
// Это эталон: таблица reviews - источник истины для рейтинга
func (r *GormAggregateRepository) ComputeFromReviews(ctx context.Context) ([]entity.ProductAggregate, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "reviews")
	defer timer.ObserveDuration()

	var aggregates []entity.ProductAggregate
	err := r.db.WithContext(ctx).
		Raw("SELECT product_id, AVG(rating) AS rating, COUNT(*) AS num_reviews FROM reviews GROUP BY product_id").
		Scan(&aggregates).Error
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to compute aggregates from reviews: %w", err)
	}

	return aggregates, nil
}

// GetStored возвращает агрегаты из колонок rating и num_reviews таблицы products
func (r *GormAggregateRepository) GetStored(ctx context.Context) ([]entity.ProductAggregate, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "products")
	defer timer.ObserveDuration()

	var aggregates []entity.ProductAggregate
	err := r.db.WithContext(ctx).
		Raw("SELECT id AS product_id, rating, num_reviews FROM products").
		Scan(&aggregates).Error
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to load stored aggregates: %w", err)
	}

	return aggregates, nil
}

// UpdateProduct перезаписывает агрегаты одного товара
func (r *GormAggregateRepository) UpdateProduct(ctx context.Context, productID uuid.UUID, rating float64, numReviews int64) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "products")
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).
		Exec("UPDATE products SET rating = ?, num_reviews = ? WHERE id = ?", rating, numReviews, productID)
	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return fmt.Errorf("failed to update product aggregates: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("product %s not found: %w", productID, gorm.ErrRecordNotFound)
	}

	return nil
}
