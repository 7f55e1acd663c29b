package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"velora/cart-service/internal/app/cart/entity"
	"velora/cart-service/internal/app/cart/service"
	"velora/pkg/metrics"
)

// CartHandler обрабатывает HTTP запросы корзины
type CartHandler struct {
	cartService service.CartServiceInterface
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartServiceInterface) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		validator:   validator.New(),
	}
}

// GetCart возвращает корзину текущего пользователя
// GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cart, err := h.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to get cart"})
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart))
}

// AddItem добавляет товар в корзину
// POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req entity.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Error:   "Validation failed",
			Message: formatValidationError(err),
		})
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound),
			errors.Is(err, service.ErrVariantNotFound),
			errors.Is(err, service.ErrSizeNotFound):
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: err.Error()})
		case errors.Is(err, service.ErrInsufficientStock):
			c.JSON(http.StatusConflict, entity.ErrorResponse{Error: "Insufficient stock"})
		default:
			c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to add item"})
		}
		return
	}

	metrics.CartItemsAdded.Inc()

	c.JSON(http.StatusOK, cartResponse(cart))
}

// UpdateItemQuantity изменяет количество позиции в корзине
// PUT /cart/items
func (h *CartHandler) UpdateItemQuantity(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req entity.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Error:   "Validation failed",
			Message: formatValidationError(err),
		})
		return
	}

	cart, err := h.cartService.UpdateItemQuantity(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Cart item not found"})
		case errors.Is(err, service.ErrProductNotFound),
			errors.Is(err, service.ErrVariantNotFound),
			errors.Is(err, service.ErrSizeNotFound):
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: err.Error()})
		case errors.Is(err, service.ErrInsufficientStock):
			c.JSON(http.StatusConflict, entity.ErrorResponse{Error: "Insufficient stock"})
		default:
			c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to update item"})
		}
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart))
}

// RemoveItem удаляет позицию из корзины
// DELETE /cart/items
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req entity.RemoveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Error:   "Validation failed",
			Message: formatValidationError(err),
		})
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Cart item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to remove item"})
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart))
}

// ClearCart опустошает корзину
// DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.cartService.ClearCart(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to clear cart"})
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Cart cleared"})
}

func cartResponse(cart *entity.Cart) entity.CartResponse {
	return entity.CartResponse{
		Cart:       cart,
		Total:      cart.Total(),
		ItemsCount: cart.ItemsCount(),
	}
}

func currentUserID(c *gin.Context) (string, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Unauthorized"})
		return "", false
	}

	userID, ok := value.(string)
	if !ok || userID == "" {
		c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Invalid user data"})
		return "", false
	}

	return userID, true
}

func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	for _, fieldError := range validationErrors {
		switch fieldError.Tag() {
		case "required":
			return fmt.Sprintf("field '%s' is required", fieldError.Field())
		case "uuid":
			return fmt.Sprintf("field '%s' must be a valid UUID", fieldError.Field())
		case "min":
			return fmt.Sprintf("field '%s' must be at least %s", fieldError.Field(), fieldError.Param())
		case "max":
			return fmt.Sprintf("field '%s' must be at most %s", fieldError.Field(), fieldError.Param())
		default:
			return fmt.Sprintf("field '%s' is invalid", fieldError.Field())
		}
	}

	return err.Error()
}
