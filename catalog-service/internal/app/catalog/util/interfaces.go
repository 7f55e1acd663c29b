package util

import (
	"context"
	"time"

	"velora/catalog-service/internal/app/catalog/entity"
)

// CategoryCacheInterface абстракция кеша категорий для подмены в тестах
type CategoryCacheInterface interface {
	GetCategories(ctx context.Context) ([]entity.Category, error)
	SetCategories(ctx context.Context, categories []entity.Category, ttl time.Duration) error
	DeleteCategories(ctx context.Context) error
}

// MessagePublisher абстракция Kafka producer для подмены в тестах
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}
