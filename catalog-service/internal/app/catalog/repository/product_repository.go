package repository

import (
	"context"
	"errors"

	"velora/catalog-service/internal/app/catalog/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository создает новый репозиторий товаров
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	assignChildIDs(product)
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	result := r.db.WithContext(ctx).
		Preload("Variants.Sizes").
		Preload("Variants.Colors").
		Preload("Variants.Images").
		Preload("Variants.Specs").
		Preload("Variants").
		Preload("Specs").
		Preload("Questions").
		First(&product, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, result.Error
	}

	return &product, nil
}

func (r *productRepository) GetAll(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	result := r.db.WithContext(ctx).
		Preload("Variants.Sizes").
		Preload("Variants.Colors").
		Preload("Variants.Images").
		Preload("Variants.Specs").
		Preload("Variants").
		Preload("Specs").
		Preload("Questions").
		Order("created_at DESC").
		Find(&products)

	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

// GetByStoreID получает все товары продавца для dashboard
func (r *productRepository) GetByStoreID(ctx context.Context, storeID string) ([]entity.Product, error) {
	var products []entity.Product
	result := r.db.WithContext(ctx).
		Preload("Variants.Sizes").
		Preload("Variants.Colors").
		Preload("Variants.Images").
		Preload("Variants.Specs").
		Preload("Variants").
		Preload("Specs").
		Preload("Questions").
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&products)

	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

// Update обновляет поля товара и целиком заменяет наборы Specs и Questions
// Агрегаты rating и num_reviews не трогаются, ими владеет Reviews Service
func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Product{}).
			Where("id = ?", product.ID).
			Updates(map[string]interface{}{
				"name":        product.Name,
				"description": product.Description,
				"brand":       product.Brand,
				"category_id": product.CategoryID,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrProductNotFound
		}

		if err := tx.Where("product_id = ?", product.ID).Delete(&entity.ProductSpec{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&entity.ProductQuestion{}).Error; err != nil {
			return err
		}

		assignChildIDs(product)
		if len(product.Specs) > 0 {
			if err := tx.Create(&product.Specs).Error; err != nil {
				return err
			}
		}
		if len(product.Questions) > 0 {
			if err := tx.Create(&product.Questions).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// assignChildIDs выставляет недостающие ключи характеристикам и вопросам
func assignChildIDs(product *entity.Product) {
	for i := range product.Specs {
		if product.Specs[i].ID == uuid.Nil {
			product.Specs[i].ID = uuid.New()
		}
		product.Specs[i].ProductID = product.ID
	}
	for i := range product.Questions {
		if product.Questions[i].ID == uuid.Nil {
			product.Questions[i].ID = uuid.New()
		}
		product.Questions[i].ProductID = product.ID
	}
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.Product{}, "id = ?", id)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}
