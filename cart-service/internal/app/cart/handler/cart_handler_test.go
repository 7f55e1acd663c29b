package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"velora/cart-service/internal/app/cart/entity"
	"velora/cart-service/internal/app/cart/service"
)

// MockCartService мок для service.CartServiceInterface
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) GetCart(ctx context.Context, userID string) (*entity.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Cart), args.Error(1)
}

func (m *MockCartService) AddItem(ctx context.Context, userID string, req *entity.AddItemRequest) (*entity.Cart, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Cart), args.Error(1)
}

func (m *MockCartService) UpdateItemQuantity(ctx context.Context, userID string, req *entity.UpdateQuantityRequest) (*entity.Cart, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Cart), args.Error(1)
}

func (m *MockCartService) RemoveItem(ctx context.Context, userID string, req *entity.RemoveItemRequest) (*entity.Cart, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Cart), args.Error(1)
}

func (m *MockCartService) ClearCart(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func setupCartRouter(mockService *MockCartService, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewCartHandler(mockService)
	router := gin.New()

	group := router.Group("/cart")
	if userID != "" {
		group.Use(func(c *gin.Context) {
			c.Set("user_id", userID)
			c.Next()
		})
	}
	group.GET("", h.GetCart)
	group.DELETE("", h.ClearCart)
	group.POST("/items", h.AddItem)
	group.PUT("/items", h.UpdateItemQuantity)
	group.DELETE("/items", h.RemoveItem)

	return router
}

func cartFixture(userID string) *entity.Cart {
	return &entity.Cart{
		UserID: userID,
		Items: []entity.CartItem{{
			ProductID:   uuid.NewString(),
			ProductName: "Trail Sneakers",
			VariantID:   uuid.NewString(),
			VariantName: "Forest Green",
			Size:        "42",
			Price:       100,
			Quantity:    2,
		}},
	}
}

func TestGetCart_Success(t *testing.T) {
	mockService := new(MockCartService)
	userID := uuid.NewString()
	router := setupCartRouter(mockService, userID)

	mockService.On("GetCart", mock.Anything, userID).Return(cartFixture(userID), nil)

	req, _ := http.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp entity.CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 200.0, resp.Total)
	assert.Equal(t, 2, resp.ItemsCount)
}

func TestGetCart_Unauthorized(t *testing.T) {
	mockService := new(MockCartService)
	router := setupCartRouter(mockService, "")

	req, _ := http.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "GetCart", mock.Anything, mock.Anything)
}

func TestAddItem_Success(t *testing.T) {
	mockService := new(MockCartService)
	userID := uuid.NewString()
	router := setupCartRouter(mockService, userID)

	mockService.On("AddItem", mock.Anything, userID, mock.AnythingOfType("*entity.AddItemRequest")).
		Return(cartFixture(userID), nil)

	body, _ := json.Marshal(entity.AddItemRequest{
		ProductID: uuid.NewString(),
		VariantID: uuid.NewString(),
		Size:      "42",
		Quantity:  2,
	})
	req, _ := http.NewRequest(http.MethodPost, "/cart/items", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAddItem_InvalidProductID(t *testing.T) {
	mockService := new(MockCartService)
	router := setupCartRouter(mockService, uuid.NewString())

	body, _ := json.Marshal(entity.AddItemRequest{
		ProductID: "not-a-uuid",
		VariantID: uuid.NewString(),
		Size:      "42",
		Quantity:  1,
	})
	req, _ := http.NewRequest(http.MethodPost, "/cart/items", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddItem_ZeroQuantity(t *testing.T) {
	mockService := new(MockCartService)
	router := setupCartRouter(mockService, uuid.NewString())

	body, _ := json.Marshal(entity.AddItemRequest{
		ProductID: uuid.NewString(),
		VariantID: uuid.NewString(),
		Size:      "42",
		Quantity:  0,
	})
	req, _ := http.NewRequest(http.MethodPost, "/cart/items", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddItem_ProductNotFound(t *testing.T) {
	mockService := new(MockCartService)
	userID := uuid.NewString()
	router := setupCartRouter(mockService, userID)

	mockService.On("AddItem", mock.Anything, userID, mock.Anything).
		Return(nil, service.ErrProductNotFound)

	body, _ := json.Marshal(entity.AddItemRequest{
		ProductID: uuid.NewString(),
		VariantID: uuid.NewString(),
		Size:      "42",
		Quantity:  1,
	})
	req, _ := http.NewRequest(http.MethodPost, "/cart/items", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddItem_InsufficientStock(t *testing.T) {
	mockService := new(MockCartService)
	userID := uuid.NewString()
	router := setupCartRouter(mockService, userID)

	mockService.On("AddItem", mock.Anything, userID, mock.Anything).
		Return(nil, service.ErrInsufficientStock)

	body, _ := json.Marshal(entity.AddItemRequest{
		ProductID: uuid.NewString(),
		VariantID: uuid.NewString(),
		Size:      "42",
		Quantity:  50,
	})
	req, _ := http.NewRequest(http.MethodPost, "/cart/items", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdateItemQuantity_NotFound(t *testing.T) {
	mockService := new(MockCartService)
	userID := uuid.NewString()
	router := setupCartRouter(mockService, userID)

	mockService.On("UpdateItemQuantity", mock.Anything, userID, mock.Anything).
		Return(nil, service.ErrItemNotFound)

	body, _ := json.Marshal(entity.UpdateQuantityRequest{
		ProductID: uuid.NewString(),
		VariantID: uuid.NewString(),
		Size:      "42",
		Quantity:  3,
	})
	req, _ := http.NewRequest(http.MethodPut, "/cart/items", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateItemQuantity_InsufficientStock(t *testing.T) {
	mockService := new(MockCartService)
	userID := uuid.NewString()
	router := setupCartRouter(mockService, userID)

	mockService.On("UpdateItemQuantity", mock.Anything, userID, mock.Anything).
		Return(nil, service.ErrInsufficientStock)

	body, _ := json.Marshal(entity.UpdateQuantityRequest{
		ProductID: uuid.NewString(),
		VariantID: uuid.NewString(),
		Size:      "42",
		Quantity:  99,
	})
	req, _ := http.NewRequest(http.MethodPut, "/cart/items", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRemoveItem_Success(t *testing.T) {
	mockService := new(MockCartService)
	userID := uuid.NewString()
	router := setupCartRouter(mockService, userID)

	mockService.On("RemoveItem", mock.Anything, userID, mock.AnythingOfType("*entity.RemoveItemRequest")).
		Return(&entity.Cart{UserID: userID, Items: []entity.CartItem{}}, nil)

	body, _ := json.Marshal(entity.RemoveItemRequest{
		ProductID: uuid.NewString(),
		VariantID: uuid.NewString(),
		Size:      "42",
	})
	req, _ := http.NewRequest(http.MethodDelete, "/cart/items", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp entity.CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.ItemsCount)
}

func TestClearCart_Success(t *testing.T) {
	mockService := new(MockCartService)
	userID := uuid.NewString()
	router := setupCartRouter(mockService, userID)

	mockService.On("ClearCart", mock.Anything, userID).Return(nil)

	req, _ := http.NewRequest(http.MethodDelete, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertCalled(t, "ClearCart", mock.Anything, userID)
}
