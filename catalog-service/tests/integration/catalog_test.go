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

	"velora/catalog-service/internal/app/catalog/entity"
	"velora/catalog-service/internal/app/catalog/handler"
	"velora/catalog-service/internal/app/catalog/repository"
	"velora/catalog-service/internal/app/catalog/service"
	"velora/catalog-service/internal/app/catalog/util"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type MockKafkaProducer struct {
	Messages [][]byte
}

func (m *MockKafkaProducer) PublishMessage(ctx context.Context, key string, value []byte) error {
	m.Messages = append(m.Messages, value)
	return nil
}

func (m *MockKafkaProducer) Close() error { return nil }

type CatalogIntegrationTestSuite struct {
	suite.Suite
	db            *gorm.DB
	mr            *miniredis.Miniredis
	router        *gin.Engine
	kafkaProducer *MockKafkaProducer
	categoryID    uuid.UUID
}

func TestCatalogIntegrationSuite(t *testing.T) {
	suite.Run(t, new(CatalogIntegrationTestSuite))
}

func (s *CatalogIntegrationTestSuite) SetupSuite() {
	dsn := getEnv("TEST_POSTGRES_DSN", "host=localhost port=5433 user=velora password=velora dbname=catalog_test_db sslmode=disable")

	var err error
	s.db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	s.Require().NoError(err)

	s.Require().NoError(s.db.AutoMigrate(
		&entity.Category{},
		&entity.Product{},
		&entity.ProductSpec{},
		&entity.ProductQuestion{},
		&entity.ProductVariant{},
		&entity.VariantSize{},
		&entity.VariantColor{},
		&entity.VariantImage{},
		&entity.VariantSpec{},
	))

	s.mr, err = miniredis.Run()
	s.Require().NoError(err)

	redisClient := redis.NewClient(&redis.Options{Addr: s.mr.Addr()})
	categoryCache := util.NewCategoryCacheWithClient(redisClient)

	categoryRepo := repository.NewCategoryRepository(s.db)
	productRepo := repository.NewProductRepository(s.db)
	variantRepo := repository.NewVariantRepository(s.db)
	s.kafkaProducer = &MockKafkaProducer{Messages: make([][]byte, 0)}
	catalogService := service.NewCatalogService(categoryRepo, productRepo, variantRepo, categoryCache, s.kafkaProducer)

	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	catalogHandler := handler.NewCatalogHandler(catalogService)

	sellerMiddleware := func(c *gin.Context) {
		c.Set("user_id", "seller-integration")
		c.Set("role_name", "seller")
		c.Next()
	}

	s.router.GET("/categories", catalogHandler.GetAllCategories)
	s.router.POST("/categories", sellerMiddleware, catalogHandler.CreateCategory)
	s.router.GET("/products/:id", catalogHandler.GetProduct)
	s.router.POST("/products", sellerMiddleware, catalogHandler.CreateProduct)
	s.router.PUT("/products/:id", sellerMiddleware, catalogHandler.UpdateProduct)
	s.router.POST("/products/:id/variants", sellerMiddleware, catalogHandler.SaveVariant)
	s.router.PUT("/products/:id/variants/:variant_id", sellerMiddleware, catalogHandler.SaveVariant)
}

func (s *CatalogIntegrationTestSuite) TearDownSuite() {
	s.mr.Close()
}

func (s *CatalogIntegrationTestSuite) SetupTest() {
	s.db.Exec("DELETE FROM variant_sizes")
	s.db.Exec("DELETE FROM variant_colors")
	s.db.Exec("DELETE FROM variant_images")
	s.db.Exec("DELETE FROM variant_specs")
	s.db.Exec("DELETE FROM product_variants")
	s.db.Exec("DELETE FROM product_specs")
	s.db.Exec("DELETE FROM product_questions")
	s.db.Exec("DELETE FROM products")
	s.db.Exec("DELETE FROM categories")
	s.mr.FlushAll()
	s.kafkaProducer.Messages = make([][]byte, 0)

	s.categoryID = uuid.New()
	s.Require().NoError(s.db.Create(&entity.Category{
		ID:   s.categoryID,
		Name: "Apparel",
		URL:  "apparel-" + uuid.NewString(),
	}).Error)
}

func (s *CatalogIntegrationTestSuite) createProduct() uuid.UUID {
	body, _ := json.Marshal(entity.CreateProductRequest{
		Name:       "T-Shirt",
		Slug:       "t-shirt-" + uuid.NewString(),
		CategoryID: s.categoryID.String(),
	})
	req, _ := http.NewRequest(http.MethodPost, "/products", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Require().Equal(http.StatusCreated, w.Code)

	var product entity.Product
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &product))
	return product.ID
}

func (s *CatalogIntegrationTestSuite) TestVariantChildSetsReplacedWholesale() {
	productID := s.createProduct()

	body, _ := json.Marshal(entity.SaveVariantRequest{
		VariantName: "Black",
		Sizes: []entity.VariantSizeInput{
			{Size: "M", Quantity: 5, Price: 25},
			{Size: "L", Quantity: 3, Price: 27},
		},
		Colors: []entity.VariantColorInput{{Name: "Black"}},
		Specs:  []entity.SpecInput{{Name: "Material", Value: "Cotton"}},
	})
	req, _ := http.NewRequest(http.MethodPost, "/products/"+productID.String()+"/variants", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Require().Equal(http.StatusCreated, w.Code)

	var variant entity.ProductVariant
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &variant))

	// Обновление с одним размером заменяет набор целиком
	body, _ = json.Marshal(entity.SaveVariantRequest{
		VariantName: "Black",
		Sizes: []entity.VariantSizeInput{
			{Size: "XL", Quantity: 10, Price: 29},
		},
	})
	req, _ = http.NewRequest(http.MethodPut, "/products/"+productID.String()+"/variants/"+variant.ID.String(), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Require().Equal(http.StatusOK, w.Code)

	var sizes []entity.VariantSize
	s.db.Where("variant_id = ?", variant.ID).Find(&sizes)
	s.Require().Len(sizes, 1)
	s.Equal("XL", sizes[0].Size)

	var colors []entity.VariantColor
	s.db.Where("variant_id = ?", variant.ID).Find(&colors)
	s.Empty(colors)

	var specs []entity.VariantSpec
	s.db.Where("variant_id = ?", variant.ID).Find(&specs)
	s.Empty(specs)
}

func (s *CatalogIntegrationTestSuite) TestProductSpecsAndQuestionsReplacedWholesale() {
	body, _ := json.Marshal(entity.CreateProductRequest{
		Name:       "T-Shirt",
		Slug:       "t-shirt-" + uuid.NewString(),
		CategoryID: s.categoryID.String(),
		Specs: []entity.SpecInput{
			{Name: "Material", Value: "Cotton"},
			{Name: "Fit", Value: "Regular"},
		},
		Questions: []entity.QuestionInput{
			{Question: "Does it shrink?", Answer: "No, pre-shrunk fabric"},
		},
	})
	req, _ := http.NewRequest(http.MethodPost, "/products", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Require().Equal(http.StatusCreated, w.Code)

	var product entity.Product
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &product))

	var specs []entity.ProductSpec
	s.db.Where("product_id = ?", product.ID).Find(&specs)
	s.Require().Len(specs, 2)

	// Переданные наборы заменяют существующие целиком
	body, _ = json.Marshal(entity.UpdateProductRequest{
		Specs:     []entity.SpecInput{{Name: "Material", Value: "Linen"}},
		Questions: []entity.QuestionInput{},
	})
	req, _ = http.NewRequest(http.MethodPut, "/products/"+product.ID.String(), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Require().Equal(http.StatusOK, w.Code)

	specs = nil
	s.db.Where("product_id = ?", product.ID).Find(&specs)
	s.Require().Len(specs, 1)
	s.Equal("Linen", specs[0].Value)

	var questions []entity.ProductQuestion
	s.db.Where("product_id = ?", product.ID).Find(&questions)
	s.Empty(questions)

	// Запрос без наборов (null) существующие характеристики не трогает
	body, _ = json.Marshal(entity.UpdateProductRequest{Name: "T-Shirt Classic"})
	req, _ = http.NewRequest(http.MethodPut, "/products/"+product.ID.String(), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Require().Equal(http.StatusOK, w.Code)

	specs = nil
	s.db.Where("product_id = ?", product.ID).Find(&specs)
	s.Require().Len(specs, 1)
}

func (s *CatalogIntegrationTestSuite) TestVariantPriceChangePublishesEvent() {
	productID := s.createProduct()

	body, _ := json.Marshal(entity.SaveVariantRequest{
		VariantName: "Black",
		Sizes:       []entity.VariantSizeInput{{Size: "M", Quantity: 5, Price: 25}},
	})
	req, _ := http.NewRequest(http.MethodPost, "/products/"+productID.String()+"/variants", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Require().Equal(http.StatusCreated, w.Code)

	s.Require().Len(s.kafkaProducer.Messages, 1)

	var event entity.ProductEvent
	s.Require().NoError(json.Unmarshal(s.kafkaProducer.Messages[0], &event))
	s.Equal(entity.EventProductUpdated, event.EventType)
	s.Equal(25.0, event.MinPrice)
}

func (s *CatalogIntegrationTestSuite) TestCategoriesCachedAfterFirstRead() {
	req, _ := http.NewRequest(http.MethodGet, "/categories", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Require().Equal(http.StatusOK, w.Code)

	// После первого чтения список лежит в Redis
	s.True(s.mr.Exists("catalog:categories:all"))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
