package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"velora/reviews-service/internal/app/reviews/entity"
	"velora/reviews-service/internal/app/reviews/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) SubmitReview(ctx context.Context, productID uuid.UUID, userID, userName string, req *entity.SubmitReviewRequest) (*entity.SubmitReviewResponse, error) {
	args := m.Called(ctx, productID, userID, userName, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SubmitReviewResponse), args.Error(1)
}

func (m *MockReviewService) GetReviewsByProduct(ctx context.Context, productID uuid.UUID) ([]entity.Review, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockReviewService) GetProductStatistics(ctx context.Context, productID uuid.UUID) (*entity.RatingStatistics, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RatingStatistics), args.Error(1)
}

func (m *MockReviewService) GetUserReviews(ctx context.Context, userID string) ([]entity.Review, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockReviewService) DeleteReview(ctx context.Context, reviewID uuid.UUID, userID string) error {
	args := m.Called(ctx, reviewID, userID)
	return args.Error(0)
}

// setAuthContext имитирует AuthMiddleware для защищенных маршрутов
func setAuthContext(userID, fullName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("full_name", fullName)
		c.Next()
	}
}

func setupTestRouter(mockService *MockReviewService, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	h := NewReviewHandler(mockService)

	router.GET("/reviews/product/:product_id", h.GetReviewsByProduct)
	router.GET("/reviews/product/:product_id/statistics", h.GetProductStatistics)

	protected := router.Group("")
	if userID != "" {
		protected.Use(setAuthContext(userID, "Alice Johnson"))
	}
	protected.POST("/reviews/product/:product_id", h.SubmitReview)
	protected.GET("/reviews/me", h.GetUserReviews)
	protected.DELETE("/reviews/:review_id", h.DeleteReview)

	return router
}

func validSubmitBody() []byte {
	body, _ := json.Marshal(entity.SubmitReviewRequest{
		Variant: "Black / XL",
		Rating:  5,
		Text:    "Exactly as described, fits well.",
	})
	return body
}

// ===================== SubmitReview Tests =====================

func TestSubmitReview_Success(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupTestRouter(mockService, "user-123")
	productID := uuid.New()

	response := &entity.SubmitReviewResponse{
		Rating:  5,
		Message: "Thank you for submitting your review!",
	}
	mockService.On("SubmitReview", mock.Anything, productID, "user-123", "Alice Johnson", mock.AnythingOfType("*entity.SubmitReviewRequest")).
		Return(response, nil)

	req, _ := http.NewRequest(http.MethodPost, "/reviews/product/"+productID.String(), bytes.NewBuffer(validSubmitBody()))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var result entity.SubmitReviewResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "Thank you for submitting your review!", result.Message)
	mockService.AssertExpectations(t)
}

func TestSubmitReview_Unauthorized(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupTestRouter(mockService, "") // без аутентификации

	req, _ := http.NewRequest(http.MethodPost, "/reviews/product/"+uuid.NewString(), bytes.NewBuffer(validSubmitBody()))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "SubmitReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitReview_InvalidProductID(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupTestRouter(mockService, "user-123")

	req, _ := http.NewRequest(http.MethodPost, "/reviews/product/not-a-uuid", bytes.NewBuffer(validSubmitBody()))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitReview_RatingOutOfRange(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupTestRouter(mockService, "user-123")

	body, _ := json.Marshal(entity.SubmitReviewRequest{
		Variant: "default",
		Rating:  6,
		Text:    "Rating above the allowed maximum",
	})
	req, _ := http.NewRequest(http.MethodPost, "/reviews/product/"+uuid.NewString(), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "SubmitReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitReview_TextTooShort(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupTestRouter(mockService, "user-123")

	body, _ := json.Marshal(entity.SubmitReviewRequest{
		Variant: "default",
		Rating:  4,
		Text:    "short",
	})
	req, _ := http.NewRequest(http.MethodPost, "/reviews/product/"+uuid.NewString(), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitReview_ServiceError(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupTestRouter(mockService, "user-123")
	productID := uuid.New()

	mockService.On("SubmitReview", mock.Anything, productID, "user-123", "Alice Johnson", mock.Anything).
		Return(nil, errors.New("db error"))

	req, _ := http.NewRequest(http.MethodPost, "/reviews/product/"+productID.String(), bytes.NewBuffer(validSubmitBody()))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// ===================== GetReviewsByProduct Tests =====================

func TestGetReviewsByProduct_ReturnsList(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupTestRouter(mockService, "")
	productID := uuid.New()

	reviews := []entity.Review{
		{ID: uuid.New(), ProductID: productID, Rating: 5},
		{ID: uuid.New(), ProductID: productID, Rating: 4},
	}
	mockService.On("GetReviewsByProduct", mock.Anything, productID).Return(reviews, nil)

	req, _ := http.NewRequest(http.MethodGet, "/reviews/product/"+productID.String(), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var result entity.ReviewListResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Total)
	assert.Len(t, result.Reviews, 2)
}

func TestGetReviewsByProduct_InvalidProductID(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupTestRouter(mockService, "")

	req, _ := http.NewRequest(http.MethodGet, "/reviews/product/not-a-uuid", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ===================== GetProductStatistics Tests =====================

func TestGetProductStatistics_Success(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupTestRouter(mockService, "")
	productID := uuid.New()

	stats := &entity.RatingStatistics{
		Ratings: []entity.RatingBucket{
			{Rating: 1}, {Rating: 2}, {Rating: 3},
			{Rating: 4, NumReviews: 1, Percentage: 25},
			{Rating: 5, NumReviews: 3, Percentage: 75},
		},
		TotalReviews: 4,
	}
	mockService.On("GetProductStatistics", mock.Anything, productID).Return(stats, nil)

	req, _ := http.NewRequest(http.MethodGet, "/reviews/product/"+productID.String()+"/statistics", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var result entity.RatingStatistics
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Len(t, result.Ratings, 5)
	assert.Equal(t, int64(4), result.TotalReviews)
}

// ===================== GetUserReviews Tests =====================

func TestGetUserReviews_Success(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupTestRouter(mockService, "user-123")

	reviews := []entity.Review{{ID: uuid.New(), UserID: "user-123", Rating: 5}}
	mockService.On("GetUserReviews", mock.Anything, "user-123").Return(reviews, nil)

	req, _ := http.NewRequest(http.MethodGet, "/reviews/me", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var result entity.ReviewListResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Total)
}

// ===================== DeleteReview Tests =====================

func TestDeleteReview_Success(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupTestRouter(mockService, "user-123")
	reviewID := uuid.New()

	mockService.On("DeleteReview", mock.Anything, reviewID, "user-123").Return(nil)

	req, _ := http.NewRequest(http.MethodDelete, "/reviews/"+reviewID.String(), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestDeleteReview_NotFound(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupTestRouter(mockService, "user-123")
	reviewID := uuid.New()

	mockService.On("DeleteReview", mock.Anything, reviewID, "user-123").Return(service.ErrReviewNotFound)

	req, _ := http.NewRequest(http.MethodDelete, "/reviews/"+reviewID.String(), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteReview_Forbidden(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupTestRouter(mockService, "user-123")
	reviewID := uuid.New()

	mockService.On("DeleteReview", mock.Anything, reviewID, "user-123").Return(service.ErrForbidden)

	req, _ := http.NewRequest(http.MethodDelete, "/reviews/"+reviewID.String(), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
