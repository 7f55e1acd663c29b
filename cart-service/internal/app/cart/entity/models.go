package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cart представляет корзину покупателя
// На одного пользователя приходится ровно один документ (уникальный индекс по user_id)
type Cart struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    string             `json:"user_id" bson:"user_id"` // UUID пользователя из Auth Service
	Items     []CartItem         `json:"items" bson:"items"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// CartItem позиция корзины
// Название, картинка и цена - снимок каталога на момент добавления
type CartItem struct {
	ProductID   string    `json:"product_id" bson:"product_id"` // UUID товара из Catalog Service
	ProductName string    `json:"product_name" bson:"product_name"`
	VariantID   string    `json:"variant_id" bson:"variant_id"`
	VariantName string    `json:"variant_name" bson:"variant_name"`
	Size        string    `json:"size" bson:"size"`
	Image       string    `json:"image,omitempty" bson:"image,omitempty"`
	Price       float64   `json:"price" bson:"price"` // Цена за единицу с учетом скидки
	Quantity    int       `json:"quantity" bson:"quantity"`
	AddedAt     time.Time `json:"added_at" bson:"added_at"`
}

// Total суммарная стоимость корзины
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// ItemsCount суммарное количество единиц товара в корзине
func (c *Cart) ItemsCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// CatalogProduct - представление товара в ответе Catalog Service
// Описывает только поля, нужные для проверки позиции и снимка цены
type CatalogProduct struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Variants []CatalogVariant `json:"variants"`
}

// CatalogVariant вариант товара из каталога
type CatalogVariant struct {
	ID          string         `json:"id"`
	VariantName string         `json:"variant_name"`
	IsSale      bool           `json:"is_sale"`
	Sizes       []CatalogSize  `json:"sizes"`
	Images      []CatalogImage `json:"images"`
}

// CatalogSize размер варианта с ценой и остатком
type CatalogSize struct {
	Size     string  `json:"size"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Discount float64 `json:"discount"` // Цена со скидкой, 0 если скидки нет
}

// CatalogImage картинка варианта
type CatalogImage struct {
	URL string `json:"url"`
}
