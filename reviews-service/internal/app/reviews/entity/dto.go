package entity

// SubmitReviewRequest - payload отзыва для upsert
// Границы оценки (1-5) проверяются здесь, на входной схеме;
// service layer числовые границы повторно не валидирует
type SubmitReviewRequest struct {
	Variant string             `json:"variant" validate:"required,min=1,max=100"`
	Rating  float64            `json:"rating" validate:"required,min=1,max=5"`
	Text    string             `json:"text" validate:"required,min=10,max=2000"`
	Images  []ReviewImageInput `json:"images" validate:"max=10,dive"`
}

// ReviewImageInput описание картинки в payload отзыва
type ReviewImageInput struct {
	URL string `json:"url" validate:"required,url"`
}

// SubmitReviewResponse - результат upsert отзыва
type SubmitReviewResponse struct {
	Review     *Review           `json:"review"`     // Записанный отзыв с картинками и автором
	Rating     float64           `json:"rating"`     // Новое среднее по товару
	Statistics *RatingStatistics `json:"statistics"` // Распределение оценок
	Message    string            `json:"message"`    // "created" vs "updated" для UI
}

// RatingStatistics - распределение оценок товара по звездам
type RatingStatistics struct {
	Ratings                []RatingBucket `json:"ratings"` // Всегда 5 элементов, от 1 до 5 звезд
	TotalReviews           int64          `json:"total_reviews"`
	ReviewsWithImagesCount int64          `json:"reviews_with_images_count"`
}

// RatingBucket - количество и доля отзывов с конкретной оценкой
type RatingBucket struct {
	Rating     int     `json:"rating"`
	NumReviews int64   `json:"num_reviews"`
	Percentage float64 `json:"percentage"`
}

// ReviewListResponse - ответ со списком отзывов
type ReviewListResponse struct {
	Reviews []Review `json:"reviews"`
	Total   int      `json:"total"`
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
