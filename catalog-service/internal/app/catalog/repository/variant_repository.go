package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"velora/catalog-service/internal/app/catalog/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type variantRepository struct {
	db *gorm.DB
}

// NewVariantRepository создает новый репозиторий вариантов товара
func NewVariantRepository(db *gorm.DB) VariantRepository {
	return &variantRepository{db: db}
}

// Save выполняет upsert варианта и полностью заменяет дочерние наборы
// Размеры, цвета, картинки и характеристики не диффятся: старый набор
// удаляется целиком, новый вставляется в той же транзакции
func (r *variantRepository) Save(ctx context.Context, variant *entity.ProductVariant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		variant.UpdatedAt = time.Now()

		if err := tx.Omit("Sizes", "Colors", "Images", "Specs").Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(variant).Error; err != nil {
			return fmt.Errorf("failed to save variant: %w", err)
		}

		if err := tx.Where("variant_id = ?", variant.ID).Delete(&entity.VariantSize{}).Error; err != nil {
			return fmt.Errorf("failed to delete variant sizes: %w", err)
		}
		if err := tx.Where("variant_id = ?", variant.ID).Delete(&entity.VariantColor{}).Error; err != nil {
			return fmt.Errorf("failed to delete variant colors: %w", err)
		}
		if err := tx.Where("variant_id = ?", variant.ID).Delete(&entity.VariantImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete variant images: %w", err)
		}
		if err := tx.Where("variant_id = ?", variant.ID).Delete(&entity.VariantSpec{}).Error; err != nil {
			return fmt.Errorf("failed to delete variant specs: %w", err)
		}

		for i := range variant.Sizes {
			if variant.Sizes[i].ID == uuid.Nil {
				variant.Sizes[i].ID = uuid.New()
			}
			variant.Sizes[i].VariantID = variant.ID
		}
		if len(variant.Sizes) > 0 {
			if err := tx.Create(&variant.Sizes).Error; err != nil {
				return fmt.Errorf("failed to insert variant sizes: %w", err)
			}
		}

		for i := range variant.Colors {
			if variant.Colors[i].ID == uuid.Nil {
				variant.Colors[i].ID = uuid.New()
			}
			variant.Colors[i].VariantID = variant.ID
		}
		if len(variant.Colors) > 0 {
			if err := tx.Create(&variant.Colors).Error; err != nil {
				return fmt.Errorf("failed to insert variant colors: %w", err)
			}
		}

		for i := range variant.Images {
			if variant.Images[i].ID == uuid.Nil {
				variant.Images[i].ID = uuid.New()
			}
			variant.Images[i].VariantID = variant.ID
		}
		if len(variant.Images) > 0 {
			if err := tx.Create(&variant.Images).Error; err != nil {
				return fmt.Errorf("failed to insert variant images: %w", err)
			}
		}

		for i := range variant.Specs {
			if variant.Specs[i].ID == uuid.Nil {
				variant.Specs[i].ID = uuid.New()
			}
			variant.Specs[i].VariantID = variant.ID
		}
		if len(variant.Specs) > 0 {
			if err := tx.Create(&variant.Specs).Error; err != nil {
				return fmt.Errorf("failed to insert variant specs: %w", err)
			}
		}

		return nil
	})
}

func (r *variantRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ProductVariant, error) {
	var variant entity.ProductVariant
	result := r.db.WithContext(ctx).
		Preload("Sizes").
		Preload("Colors").
		Preload("Images").
		Preload("Specs").
		First(&variant, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, result.Error
	}

	return &variant, nil
}

func (r *variantRepository) GetByProductID(ctx context.Context, productID uuid.UUID) ([]entity.ProductVariant, error) {
	var variants []entity.ProductVariant
	result := r.db.WithContext(ctx).
		Preload("Sizes").
		Preload("Colors").
		Preload("Images").
		Preload("Specs").
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&variants)

	if result.Error != nil {
		return nil, result.Error
	}

	return variants, nil
}

// Delete удаляет вариант; дочерние наборы удаляются каскадно
func (r *variantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.ProductVariant{}, "id = ?", id)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrVariantNotFound
	}

	return nil
}
