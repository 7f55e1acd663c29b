package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"velora/cart-service/internal/app/cart/entity"
)

// ErrProductNotFound - товар отсутствует в каталоге
var ErrProductNotFound = errors.New("product not found")

// CatalogClient - HTTP клиент Catalog Service
// Используется для проверки позиции корзины и снимка актуальной цены
type CatalogClient struct {
	baseURL    string
	httpClient *http.Client
	authToken  string
}

func NewCatalogClient(baseURL string) *CatalogClient {
	return &CatalogClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetAuthToken устанавливает JWT токен для запросов к защищенным эндпоинтам
func (c *CatalogClient) SetAuthToken(token string) {
	c.authToken = token
}

// GetProduct запрашивает товар с вариантами из Catalog Service
func (c *CatalogClient) GetProduct(ctx context.Context, productID string) (*entity.CatalogProduct, error) {
	url := fmt.Sprintf("%s/products/%s", c.baseURL, productID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog service returned status %d", resp.StatusCode)
	}

	var product entity.CatalogProduct
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}

	return &product, nil
}
