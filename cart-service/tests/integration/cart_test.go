//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"velora/cart-service/internal/app/cart/entity"
	"velora/cart-service/internal/app/cart/handler"
	infrahttp "velora/cart-service/internal/app/cart/infrastructure/http"
	"velora/cart-service/internal/app/cart/repository"
	"velora/cart-service/internal/app/cart/service"
)

const jwtSecret = "integration-secret"

type CartIntegrationTestSuite struct {
	suite.Suite
	mongoClient *mongo.Client
	db          *mongo.Database
	catalogStub *httptest.Server
	router      *gin.Engine

	productID string
	variantID string
}

func TestCartIntegrationSuite(t *testing.T) {
	suite.Run(t, new(CartIntegrationTestSuite))
}

func (s *CartIntegrationTestSuite) SetupSuite() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uri := getEnv("TEST_MONGO_URI", "mongodb://localhost:27017")

	var err error
	s.mongoClient, err = mongo.Connect(ctx, options.Client().ApplyURI(uri))
	s.Require().NoError(err)
	s.Require().NoError(s.mongoClient.Ping(ctx, nil))

	s.db = s.mongoClient.Database("cart_test_db")

	s.productID = uuid.NewString()
	s.variantID = uuid.NewString()

	// Заглушка Catalog Service с одним товаром
	s.catalogStub = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/"+s.productID {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(entity.CatalogProduct{
			ID:   s.productID,
			Name: "Trail Sneakers",
			Variants: []entity.CatalogVariant{{
				ID:          s.variantID,
				VariantName: "Forest Green",
				Sizes: []entity.CatalogSize{
					{Size: "42", Quantity: 5, Price: 129.90},
				},
			}},
		})
	}))

	cartRepo := repository.NewCartRepository(s.db)
	catalogClient := infrahttp.NewCatalogClient(s.catalogStub.URL)
	cartService := service.NewCartService(cartRepo, catalogClient)

	cartHandler := handler.NewCartHandler(cartService)
	authMiddleware := handler.NewAuthMiddleware(jwtSecret)

	gin.SetMode(gin.TestMode)
	s.router = handler.SetupRoutes(cartHandler, authMiddleware)
}

func (s *CartIntegrationTestSuite) TearDownSuite() {
	s.catalogStub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.Require().NoError(s.mongoClient.Disconnect(ctx))
}

func (s *CartIntegrationTestSuite) SetupTest() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := s.db.Collection("carts").DeleteMany(ctx, bson.M{})
	s.Require().NoError(err)
}

func (s *CartIntegrationTestSuite) accessToken(userID string) string {
	claims := handler.JWTClaims{
		UserID:      userID,
		Email:       "customer@example.com",
		RoleName:    "customer",
		Permissions: []string{"cart:write"},
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(15 * time.Minute)),
			IssuedAt:  jwtlib.NewNumericDate(time.Now()),
		},
	}

	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(jwtSecret))
	s.Require().NoError(err)
	return token
}

func (s *CartIntegrationTestSuite) do(method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		s.Require().NoError(err)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, body)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *CartIntegrationTestSuite) TestAddGetAndClear() {
	userID := uuid.NewString()
	token := s.accessToken(userID)

	w := s.do(http.MethodPost, "/cart/items", token, entity.AddItemRequest{
		ProductID: s.productID,
		VariantID: s.variantID,
		Size:      "42",
		Quantity:  2,
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp entity.CartResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(2, resp.ItemsCount)
	s.InDelta(259.80, resp.Total, 0.001)

	// Корзина переживает повторное чтение
	w = s.do(http.MethodGet, "/cart", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Require().Len(resp.Cart.Items, 1)
	s.Equal("Trail Sneakers", resp.Cart.Items[0].ProductName)

	w = s.do(http.MethodDelete, "/cart", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/cart", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Empty(resp.Cart.Items)
}

func (s *CartIntegrationTestSuite) TestRepeatedAddMergesPosition() {
	userID := uuid.NewString()
	token := s.accessToken(userID)

	addReq := entity.AddItemRequest{
		ProductID: s.productID,
		VariantID: s.variantID,
		Size:      "42",
		Quantity:  2,
	}

	w := s.do(http.MethodPost, "/cart/items", token, addReq)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/cart/items", token, addReq)
	s.Require().Equal(http.StatusOK, w.Code)

	var resp entity.CartResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Require().Len(resp.Cart.Items, 1)
	s.Equal(4, resp.Cart.Items[0].Quantity)
}

func (s *CartIntegrationTestSuite) TestAddBeyondStockRejected() {
	token := s.accessToken(uuid.NewString())

	w := s.do(http.MethodPost, "/cart/items", token, entity.AddItemRequest{
		ProductID: s.productID,
		VariantID: s.variantID,
		Size:      "42",
		Quantity:  6,
	})

	s.Equal(http.StatusConflict, w.Code)
}

func (s *CartIntegrationTestSuite) TestUpdateBeyondStockRejected() {
	// Лимит остатка нельзя обойти через изменение количества
	token := s.accessToken(uuid.NewString())

	w := s.do(http.MethodPost, "/cart/items", token, entity.AddItemRequest{
		ProductID: s.productID,
		VariantID: s.variantID,
		Size:      "42",
		Quantity:  2,
	})
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodPut, "/cart/items", token, entity.UpdateQuantityRequest{
		ProductID: s.productID,
		VariantID: s.variantID,
		Size:      "42",
		Quantity:  99,
	})
	s.Equal(http.StatusConflict, w.Code)

	// Количество в корзине не изменилось
	w = s.do(http.MethodGet, "/cart", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var resp entity.CartResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Require().Len(resp.Cart.Items, 1)
	s.Equal(2, resp.Cart.Items[0].Quantity)
}

func (s *CartIntegrationTestSuite) TestUnknownProductRejected() {
	token := s.accessToken(uuid.NewString())

	w := s.do(http.MethodPost, "/cart/items", token, entity.AddItemRequest{
		ProductID: uuid.NewString(),
		VariantID: s.variantID,
		Size:      "42",
		Quantity:  1,
	})

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *CartIntegrationTestSuite) TestCartsIsolatedPerUser() {
	firstToken := s.accessToken(uuid.NewString())
	secondToken := s.accessToken(uuid.NewString())

	w := s.do(http.MethodPost, "/cart/items", firstToken, entity.AddItemRequest{
		ProductID: s.productID,
		VariantID: s.variantID,
		Size:      "42",
		Quantity:  1,
	})
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/cart", secondToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var resp entity.CartResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Empty(resp.Cart.Items)
}

func (s *CartIntegrationTestSuite) TestRequestWithoutTokenRejected() {
	req, _ := http.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusUnauthorized, w.Code)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
