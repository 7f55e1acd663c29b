package entity

// AddItemRequest - payload добавления товара в корзину
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	VariantID string `json:"variant_id" validate:"required,uuid"`
	Size      string `json:"size" validate:"required,min=1,max=50"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=100"`
}

// UpdateQuantityRequest - payload изменения количества позиции
type UpdateQuantityRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	VariantID string `json:"variant_id" validate:"required,uuid"`
	Size      string `json:"size" validate:"required,min=1,max=50"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=100"`
}

// RemoveItemRequest - payload удаления позиции из корзины
type RemoveItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	VariantID string `json:"variant_id" validate:"required,uuid"`
	Size      string `json:"size" validate:"required,min=1,max=50"`
}

// CartResponse - корзина с посчитанными итогами
type CartResponse struct {
	Cart       *Cart   `json:"cart"`
	Total      float64 `json:"total"`
	ItemsCount int     `json:"items_count"`
}

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SuccessResponse - стандартный ответ об успехе
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
