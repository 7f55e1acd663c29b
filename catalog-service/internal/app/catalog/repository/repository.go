package repository

import (
	"context"
	"errors"

	"velora/catalog-service/internal/app/catalog/entity"

	"github.com/google/uuid"
)

var (
	// Ошибки уровня хранилища для проверки через errors.Is
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrVariantNotFound  = errors.New("variant not found")
)

// CategoryRepository определяет операции с категориями в PostgreSQL
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	GetAll(ctx context.Context) ([]entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductRepository определяет операции с товарами в PostgreSQL
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetAll(ctx context.Context) ([]entity.Product, error)
	GetByStoreID(ctx context.Context, storeID string) ([]entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// VariantRepository определяет операции с вариантами товара
// Save заменяет дочерние наборы размеров, цветов и картинок целиком
type VariantRepository interface {
	Save(ctx context.Context, variant *entity.ProductVariant) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ProductVariant, error)
	GetByProductID(ctx context.Context, productID uuid.UUID) ([]entity.ProductVariant, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
