package entity

import (
	"time"

	"github.com/google/uuid"
)

// ReviewEvent - событие изменения отзыва из топика review_events
// Формат совпадает с producer'ом Reviews Service
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

// ProductAggregate - агрегатные поля рейтинга одного товара
// Используется и для фактических значений из таблицы products,
// и для эталонных, пересчитанных из таблицы reviews
type ProductAggregate struct {
	ProductID  uuid.UUID `json:"product_id"`
	Rating     float64   `json:"rating"`
	NumReviews int64     `json:"num_reviews"`
}

// TopRatedProduct - позиция товара в рейтинге products:top_rated
type TopRatedProduct struct {
	ProductID string  `json:"product_id"`
	Rating    float64 `json:"rating"`
}

// ReconcileResult - итог одного прохода сверки агрегатов
type ReconcileResult struct {
	Checked int // Сколько товаров проверено
	Fixed   int // Сколько агрегатов расходилось и было исправлено
	Failed  int // Сколько исправлений завершилось ошибкой
}
