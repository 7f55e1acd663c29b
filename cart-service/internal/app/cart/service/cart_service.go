package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"velora/cart-service/internal/app/cart/entity"
	infrahttp "velora/cart-service/internal/app/cart/infrastructure/http"
	"velora/cart-service/internal/app/cart/repository"
	"velora/pkg/logger"
)

// CartService реализует операции над корзиной покупателя
type CartService struct {
	cartRepo      repository.CartRepository
	catalogClient CatalogClient
}

func NewCartService(cartRepo repository.CartRepository, catalogClient CatalogClient) *CartService {
	return &CartService{
		cartRepo:      cartRepo,
		catalogClient: catalogClient,
	}
}

// GetCart возвращает корзину пользователя
// Пока пользователь ничего не добавил, корзина считается пустой, а не отсутствующей
func (s *CartService) GetCart(ctx context.Context, userID string) (*entity.Cart, error) {
	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &entity.Cart{UserID: userID, Items: []entity.CartItem{}}, nil
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return cart, nil
}

// AddItem добавляет товар в корзину
// Товар, вариант и размер проверяются по Catalog Service, цена фиксируется на момент добавления
// Повторное добавление той же позиции увеличивает количество
func (s *CartService) AddItem(ctx context.Context, userID string, req *entity.AddItemRequest) (*entity.Cart, error) {
	product, err := s.catalogClient.GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, infrahttp.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to check product: %w", err)
	}

	variant, size, err := resolveVariantSize(product, req.VariantID, req.Size)
	if err != nil {
		return nil, err
	}

	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	item := findItem(cart, req.ProductID, req.VariantID, req.Size)
	newQuantity := req.Quantity
	if item != nil {
		newQuantity += item.Quantity
	}
	if newQuantity > size.Quantity {
		return nil, ErrInsufficientStock
	}

	price := size.Price
	// В каталоге Discount хранит цену со скидкой, пока действует распродажа
	if variant.IsSale && size.Discount > 0 {
		price = size.Discount
	}

	if item != nil {
		item.Quantity = newQuantity
		item.Price = price
	} else {
		var image string
		if len(variant.Images) > 0 {
			image = variant.Images[0].URL
		}
		cart.Items = append(cart.Items, entity.CartItem{
			ProductID:   req.ProductID,
			ProductName: product.Name,
			VariantID:   req.VariantID,
			VariantName: variant.VariantName,
			Size:        req.Size,
			Image:       image,
			Price:       price,
			Quantity:    req.Quantity,
			AddedAt:     time.Now(),
		})
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	logger.Info().
		Str("user_id", userID).
		Str("product_id", req.ProductID).
		Str("size", req.Size).
		Int("quantity", req.Quantity).
		Msg("Item added to cart")

	return cart, nil
}

// UpdateItemQuantity устанавливает количество существующей позиции
// Новое количество проверяется по остатку в Catalog Service так же, как при добавлении
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID string, req *entity.UpdateQuantityRequest) (*entity.Cart, error) {
	product, err := s.catalogClient.GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, infrahttp.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to check product: %w", err)
	}

	_, size, err := resolveVariantSize(product, req.VariantID, req.Size)
	if err != nil {
		return nil, err
	}

	if req.Quantity > size.Quantity {
		return nil, ErrInsufficientStock
	}

	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	item := findItem(cart, req.ProductID, req.VariantID, req.Size)
	if item == nil {
		return nil, ErrItemNotFound
	}

	item.Quantity = req.Quantity

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	return cart, nil
}

// RemoveItem удаляет позицию из корзины
func (s *CartService) RemoveItem(ctx context.Context, userID string, req *entity.RemoveItemRequest) (*entity.Cart, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	index := -1
	for i := range cart.Items {
		if itemMatches(&cart.Items[i], req.ProductID, req.VariantID, req.Size) {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, ErrItemNotFound
	}

	cart.Items = append(cart.Items[:index], cart.Items[index+1:]...)

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	return cart, nil
}

// ClearCart опустошает корзину пользователя
// Отсутствие корзины не считается ошибкой
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	if err := s.cartRepo.DeleteByUserID(ctx, userID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil
		}
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	logger.Info().Str("user_id", userID).Msg("Cart cleared")
	return nil
}

func resolveVariantSize(product *entity.CatalogProduct, variantID, sizeName string) (*entity.CatalogVariant, *entity.CatalogSize, error) {
	for i := range product.Variants {
		if product.Variants[i].ID != variantID {
			continue
		}
		variant := &product.Variants[i]
		for j := range variant.Sizes {
			if variant.Sizes[j].Size == sizeName {
				return variant, &variant.Sizes[j], nil
			}
		}
		return nil, nil, ErrSizeNotFound
	}
	return nil, nil, ErrVariantNotFound
}

func findItem(cart *entity.Cart, productID, variantID, size string) *entity.CartItem {
	for i := range cart.Items {
		if itemMatches(&cart.Items[i], productID, variantID, size) {
			return &cart.Items[i]
		}
	}
	return nil
}

func itemMatches(item *entity.CartItem, productID, variantID, size string) bool {
	return item.ProductID == productID && item.VariantID == variantID && item.Size == size
}
