package service

import (
	"context"

	"velora/cart-service/internal/app/cart/entity"
)

// CartServiceInterface определяет контракт сервиса корзины
type CartServiceInterface interface {
	GetCart(ctx context.Context, userID string) (*entity.Cart, error)
	AddItem(ctx context.Context, userID string, req *entity.AddItemRequest) (*entity.Cart, error)
	UpdateItemQuantity(ctx context.Context, userID string, req *entity.UpdateQuantityRequest) (*entity.Cart, error)
	RemoveItem(ctx context.Context, userID string, req *entity.RemoveItemRequest) (*entity.Cart, error)
	ClearCart(ctx context.Context, userID string) error
}

// CatalogClient - источник данных о товарах для проверки позиций корзины
type CatalogClient interface {
	GetProduct(ctx context.Context, productID string) (*entity.CatalogProduct, error)
}
