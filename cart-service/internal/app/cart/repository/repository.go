package repository

import (
	"context"

	"velora/cart-service/internal/app/cart/entity"
)

// CartRepository определяет доступ к хранилищу корзин
// Отсутствие корзины возвращается как обернутая mongo.ErrNoDocuments
type CartRepository interface {
	GetByUserID(ctx context.Context, userID string) (*entity.Cart, error)
	Save(ctx context.Context, cart *entity.Cart) error
	DeleteByUserID(ctx context.Context, userID string) error
}
