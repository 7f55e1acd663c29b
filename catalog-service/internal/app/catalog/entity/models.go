package entity

import (
	"time"

	"github.com/google/uuid"
)

// Category представляет категорию товаров
// Featured категории выводятся на главной странице витрины
type Category struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	URL       string    `json:"url" gorm:"uniqueIndex;not null"` // Слаг для адреса страницы категории
	Image     string    `json:"image"`
	Featured  bool      `json:"featured" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Product представляет товар продавца в каталоге
// Колонки rating и num_reviews - агрегаты, их пересчитывает Reviews Service
// Наборы Specs и Questions заменяются целиком при обновлении товара
type Product struct {
	ID          uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string            `json:"name" gorm:"not null"`
	Description string            `json:"description"`
	Slug        string            `json:"slug" gorm:"uniqueIndex;not null"`
	Brand       string            `json:"brand"`
	CategoryID  uuid.UUID         `json:"category_id" gorm:"type:uuid;index;not null"`
	StoreID     string            `json:"store_id" gorm:"index;not null"` // ID продавца-владельца из JWT
	Rating      float64           `json:"rating" gorm:"default:0"`
	NumReviews  int64             `json:"num_reviews" gorm:"default:0"`
	Variants    []ProductVariant  `json:"variants" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Specs       []ProductSpec     `json:"specs" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Questions   []ProductQuestion `json:"questions" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ProductSpec представляет характеристику товара (название/значение)
type ProductSpec struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;index;not null"`
	Name      string    `json:"name" gorm:"not null"`
	Value     string    `json:"value" gorm:"not null"`
}

// ProductQuestion представляет вопрос-ответ на странице товара
type ProductQuestion struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;index;not null"`
	Question  string    `json:"question" gorm:"not null"`
	Answer    string    `json:"answer" gorm:"not null"`
}

// ProductVariant представляет вариант товара (цвет/комплектация)
// Дочерние наборы Sizes, Colors, Images и Specs заменяются целиком при каждом обновлении
type ProductVariant struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	ProductID   uuid.UUID      `json:"product_id" gorm:"type:uuid;index;not null"`
	VariantName string         `json:"variant_name" gorm:"not null"`
	SKU         string         `json:"sku" gorm:"index"`
	Keywords    string         `json:"keywords"` // Ключевые слова поиска через запятую
	Weight      float64        `json:"weight"`
	IsSale      bool           `json:"is_sale" gorm:"default:false"`
	SaleEndDate string         `json:"sale_end_date"`
	Sizes       []VariantSize  `json:"sizes" gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`
	Colors      []VariantColor `json:"colors" gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`
	Images      []VariantImage `json:"images" gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`
	Specs       []VariantSpec  `json:"specs" gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// VariantSpec представляет характеристику конкретного варианта
type VariantSpec struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	VariantID uuid.UUID `json:"variant_id" gorm:"type:uuid;index;not null"`
	Name      string    `json:"name" gorm:"not null"`
	Value     string    `json:"value" gorm:"not null"`
}

// VariantSize представляет размер варианта с ценой и скидкой
type VariantSize struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	VariantID uuid.UUID `json:"variant_id" gorm:"type:uuid;index;not null"`
	Size      string    `json:"size" gorm:"not null"`
	Quantity  int       `json:"quantity" gorm:"default:0"`
	Price     float64   `json:"price" gorm:"not null"`
	Discount  float64   `json:"discount" gorm:"default:0"`
}

// VariantColor представляет цвет варианта
type VariantColor struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	VariantID uuid.UUID `json:"variant_id" gorm:"type:uuid;index;not null"`
	Name      string    `json:"name" gorm:"not null"`
}

// VariantImage представляет картинку варианта
type VariantImage struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	VariantID uuid.UUID `json:"variant_id" gorm:"type:uuid;index;not null"`
	URL       string    `json:"url" gorm:"not null"`
}

// ProductEvent представляет событие изменения товара для Kafka
type ProductEvent struct {
	EventType  string    `json:"event_type"` // PRODUCT_UPDATED
	ProductID  uuid.UUID `json:"product_id"`
	Name       string    `json:"name"`
	MinPrice   float64   `json:"min_price"`
	CategoryID uuid.UUID `json:"category_id"`
	Timestamp  time.Time `json:"timestamp"`
}

const EventProductUpdated = "PRODUCT_UPDATED"
