package service

import "errors"

var (
	// ErrProductNotFound - товар не найден в каталоге
	ErrProductNotFound = errors.New("product not found")
	// ErrVariantNotFound - вариант не принадлежит товару
	ErrVariantNotFound = errors.New("product variant not found")
	// ErrSizeNotFound - размер отсутствует у варианта
	ErrSizeNotFound = errors.New("size not found for variant")
	// ErrInsufficientStock - запрошенное количество превышает остаток
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrItemNotFound - позиция отсутствует в корзине
	ErrItemNotFound = errors.New("cart item not found")
)
