package entity

import (
	"time"

	"github.com/google/uuid"
)

// Review представляет отзыв покупателя о конкретном варианте товара
// Кортеж (product_id, user_id, variant) уникален: повторная отправка
// отзыва тем же пользователем на тот же вариант обновляет существующую запись
type Review struct {
	ID        uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID     `json:"product_id" gorm:"type:uuid;uniqueIndex:idx_reviews_product_user_variant"` // UUID товара из Catalog Service
	UserID    string        `json:"user_id" gorm:"uniqueIndex:idx_reviews_product_user_variant"`              // UUID пользователя из Auth Service
	UserName  string        `json:"user_name"`                                                                // Имя автора на момент отправки (из JWT claims)
	Variant   string        `json:"variant" gorm:"uniqueIndex:idx_reviews_product_user_variant"`              // Метка варианта товара (например "Black / XL")
	Rating    float64       `json:"rating"`                                                                   // Оценка от 1 до 5
	Text      string        `json:"text"`                                                                     // Текст отзыва
	Images    []ReviewImage `json:"images" gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ReviewImage фотография, прикрепленная к отзыву
// Набор картинок полностью заменяется при каждом обновлении отзыва
type ReviewImage struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ReviewID uuid.UUID `json:"review_id" gorm:"type:uuid;index"`
	URL      string    `json:"url"`
}

// Product содержит только агрегатные поля товара, которые
// Reviews Service пересчитывает при каждой записи отзыва.
// Таблицей products владеет Catalog Service
type Product struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Rating     float64   `json:"rating"`      // Среднее арифметическое оценок всех отзывов
	NumReviews int64     `json:"num_reviews"` // Количество отзывов
}

// ReviewEvent представляет событие изменения отзыва для Kafka
type ReviewEvent struct {
	EventType     string    `json:"event_type"` // REVIEW_UPSERTED, REVIEW_DELETED
	ReviewID      uuid.UUID `json:"review_id"`
	ProductID     uuid.UUID `json:"product_id"`
	UserID        string    `json:"user_id"`
	Rating        float64   `json:"rating"`
	AverageRating float64   `json:"average_rating"` // Агрегат товара после пересчета
	NumReviews    int64     `json:"num_reviews"`
	Timestamp     time.Time `json:"timestamp"`
}

const (
	EventReviewUpserted = "REVIEW_UPSERTED"
	EventReviewDeleted  = "REVIEW_DELETED"
)
