package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"velora/catalog-service/internal/app/catalog/entity"
	"velora/catalog-service/internal/app/catalog/repository"
	"velora/catalog-service/internal/app/catalog/util"
	"velora/pkg/logger"
	"velora/pkg/metrics"

	"github.com/google/uuid"
)

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrVariantNotFound  = errors.New("variant not found")
	ErrNotProductOwner  = errors.New("product belongs to another store")
)

const categoriesCacheTTL = time.Hour

// CatalogService обрабатывает бизнес-логику каталога товаров
// Координирует репозитории, Redis кеш категорий и Kafka producer
type CatalogService struct {
	categoryRepo  repository.CategoryRepository
	productRepo   repository.ProductRepository
	variantRepo   repository.VariantRepository
	categoryCache util.CategoryCacheInterface
	kafkaProducer util.MessagePublisher
}

// NewCatalogService создает новый сервис каталога с внедрением зависимостей
func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
	categoryCache util.CategoryCacheInterface,
	kafkaProducer util.MessagePublisher,
) *CatalogService {
	return &CatalogService{
		categoryRepo:  categoryRepo,
		productRepo:   productRepo,
		variantRepo:   variantRepo,
		categoryCache: categoryCache,
		kafkaProducer: kafkaProducer,
	}
}

// === CATEGORIES ===

// CreateCategory создает новую категорию и инвалидирует кеш
func (s *CatalogService) CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.Category, error) {
	category := &entity.Category{
		ID:        uuid.New(),
		Name:      req.Name,
		URL:       req.URL,
		Image:     req.Image,
		Featured:  req.Featured,
		CreatedAt: time.Now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	// Категория уже создана, проблемы с кешем не критичны
	if err := s.categoryCache.DeleteCategories(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate categories cache")
	}

	return category, nil
}

// GetCategory получает категорию по ID из PostgreSQL
func (s *CatalogService) GetCategory(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return category, nil
}

// GetAllCategories получает все категории с кешированием в Redis
// Сначала проверяет кеш, при промахе загружает из БД и кеширует на час
func (s *CatalogService) GetAllCategories(ctx context.Context) ([]entity.Category, error) {
	categories, err := s.categoryCache.GetCategories(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to read categories cache")
	}
	if len(categories) > 0 {
		return categories, nil
	}

	categories, err = s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	if err := s.categoryCache.SetCategories(ctx, categories, categoriesCacheTTL); err != nil {
		// Данные получены из БД, проблемы с кешем не критичны
		logger.Warn().Err(err).Msg("Failed to cache categories")
	}

	return categories, nil
}

// UpdateCategory обновляет категорию и инвалидирует кеш
func (s *CatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, req *entity.UpdateCategoryRequest) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	// Частичное обновление: пустые поля не трогаются
	if req.Name != "" {
		category.Name = req.Name
	}
	if req.URL != "" {
		category.URL = req.URL
	}
	if req.Image != "" {
		category.Image = req.Image
	}
	if req.Featured != nil {
		category.Featured = *req.Featured
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	if err := s.categoryCache.DeleteCategories(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate categories cache")
	}

	return category, nil
}

// DeleteCategory удаляет категорию и инвалидирует кеш
func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	if err := s.categoryCache.DeleteCategories(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate categories cache")
	}

	return nil
}

// === PRODUCTS ===

// CreateProduct создает новый товар продавца
// Проверяет существование категории перед созданием
func (s *CatalogService) CreateProduct(ctx context.Context, storeID string, req *entity.CreateProductRequest) (*entity.Product, error) {
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("invalid category id: %w", err)
	}

	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to verify category: %w", err)
	}

	product := &entity.Product{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Slug:        req.Slug,
		Brand:       req.Brand,
		CategoryID:  categoryID,
		StoreID:     storeID,
		Specs:       mapProductSpecs(req.Specs),
		Questions:   mapProductQuestions(req.Questions),
		CreatedAt:   time.Now(),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	metrics.CatalogProductsCreated.Inc()

	return product, nil
}

// GetProduct получает товар по ID с вариантами
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return product, nil
}

// GetAllProducts получает все товары витрины
func (s *CatalogService) GetAllProducts(ctx context.Context) ([]entity.Product, error) {
	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	return products, nil
}

// GetStoreProducts получает товары продавца для dashboard
func (s *CatalogService) GetStoreProducts(ctx context.Context, storeID string) ([]entity.Product, error) {
	products, err := s.productRepo.GetByStoreID(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get store products: %w", err)
	}

	return products, nil
}

// UpdateProduct обновляет товар продавца
// Только владелец товара (или admin) может его менять
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, storeID string, isAdmin bool, req *entity.UpdateProductRequest) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if !isAdmin && product.StoreID != storeID {
		return nil, ErrNotProductOwner
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.Brand != "" {
		product.Brand = req.Brand
	}
	if req.CategoryID != "" {
		categoryID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("invalid category id: %w", err)
		}
		if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, fmt.Errorf("failed to verify category: %w", err)
		}
		product.CategoryID = categoryID
	}
	// Переданный набор заменяет существующий целиком, null набор не трогается
	if req.Specs != nil {
		product.Specs = mapProductSpecs(req.Specs)
	}
	if req.Questions != nil {
		product.Questions = mapProductQuestions(req.Questions)
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// DeleteProduct удаляет товар продавца; варианты удаляются каскадно
func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID, storeID string, isAdmin bool) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to get product: %w", err)
	}

	if !isAdmin && product.StoreID != storeID {
		return ErrNotProductOwner
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}

// === VARIANTS ===

// SaveVariant создает или обновляет вариант товара
// Наборы размеров, цветов и картинок заменяются целиком; при изменении
// минимальной цены отправляется событие PRODUCT_UPDATED в Kafka
func (s *CatalogService) SaveVariant(ctx context.Context, productID uuid.UUID, variantID uuid.UUID, storeID string, isAdmin bool, req *entity.SaveVariantRequest) (*entity.ProductVariant, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if !isAdmin && product.StoreID != storeID {
		return nil, ErrNotProductOwner
	}

	oldMinPrice := minProductPrice(product)

	variant := &entity.ProductVariant{
		ID:          variantID,
		ProductID:   productID,
		VariantName: req.VariantName,
		SKU:         req.SKU,
		Keywords:    req.Keywords,
		Weight:      req.Weight,
		IsSale:      req.IsSale,
		SaleEndDate: req.SaleEndDate,
	}
	if variant.ID == uuid.Nil {
		variant.ID = uuid.New()
		variant.CreatedAt = time.Now()
	} else {
		// Сохраняем дату создания существующего варианта
		existing, err := s.variantRepo.GetByID(ctx, variant.ID)
		if err != nil {
			if errors.Is(err, repository.ErrVariantNotFound) {
				return nil, ErrVariantNotFound
			}
			return nil, fmt.Errorf("failed to get variant: %w", err)
		}
		if existing.ProductID != productID {
			return nil, ErrVariantNotFound
		}
		variant.CreatedAt = existing.CreatedAt
	}

	for _, size := range req.Sizes {
		variant.Sizes = append(variant.Sizes, entity.VariantSize{
			Size:     size.Size,
			Quantity: size.Quantity,
			Price:    size.Price,
			Discount: size.Discount,
		})
	}
	for _, color := range req.Colors {
		variant.Colors = append(variant.Colors, entity.VariantColor{Name: color.Name})
	}
	for _, image := range req.Images {
		variant.Images = append(variant.Images, entity.VariantImage{URL: image.URL})
	}
	for _, spec := range req.Specs {
		variant.Specs = append(variant.Specs, entity.VariantSpec{Name: spec.Name, Value: spec.Value})
	}

	if err := s.variantRepo.Save(ctx, variant); err != nil {
		return nil, fmt.Errorf("failed to save variant: %w", err)
	}

	metrics.CatalogVariantsSaved.Inc()

	// Перечитываем товар: минимальная цена считается по всем вариантам
	updated, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload product: %w", err)
	}

	newMinPrice := minProductPrice(updated)
	if newMinPrice != oldMinPrice {
		event := entity.ProductEvent{
			EventType:  entity.EventProductUpdated,
			ProductID:  updated.ID,
			Name:       updated.Name,
			MinPrice:   newMinPrice,
			CategoryID: updated.CategoryID,
			Timestamp:  time.Now(),
		}
		if err := s.publishProductEvent(ctx, event); err != nil {
			// Вариант уже записан, проблемы с Kafka не критичны
			logger.Warn().Err(err).Str("product_id", updated.ID.String()).Msg("Failed to publish product event")
		}
	}

	return variant, nil
}

// GetVariantsByProduct получает все варианты товара
func (s *CatalogService) GetVariantsByProduct(ctx context.Context, productID uuid.UUID) ([]entity.ProductVariant, error) {
	variants, err := s.variantRepo.GetByProductID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get variants: %w", err)
	}

	return variants, nil
}

// DeleteVariant удаляет вариант товара
func (s *CatalogService) DeleteVariant(ctx context.Context, productID, variantID uuid.UUID, storeID string, isAdmin bool) error {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to get product: %w", err)
	}

	if !isAdmin && product.StoreID != storeID {
		return ErrNotProductOwner
	}

	if err := s.variantRepo.Delete(ctx, variantID); err != nil {
		if errors.Is(err, repository.ErrVariantNotFound) {
			return ErrVariantNotFound
		}
		return fmt.Errorf("failed to delete variant: %w", err)
	}

	return nil
}

func mapProductSpecs(inputs []entity.SpecInput) []entity.ProductSpec {
	specs := make([]entity.ProductSpec, 0, len(inputs))
	for _, input := range inputs {
		specs = append(specs, entity.ProductSpec{Name: input.Name, Value: input.Value})
	}
	return specs
}

func mapProductQuestions(inputs []entity.QuestionInput) []entity.ProductQuestion {
	questions := make([]entity.ProductQuestion, 0, len(inputs))
	for _, input := range inputs {
		questions = append(questions, entity.ProductQuestion{Question: input.Question, Answer: input.Answer})
	}
	return questions
}

// minProductPrice возвращает минимальную цену по всем размерам всех вариантов
// 0, если у товара пока нет вариантов с размерами
func minProductPrice(product *entity.Product) float64 {
	var min float64
	for _, variant := range product.Variants {
		for _, size := range variant.Sizes {
			price := size.Price
			if size.Discount > 0 {
				price = size.Price - size.Price*size.Discount/100
			}
			if min == 0 || price < min {
				min = price
			}
		}
	}
	return min
}

// publishProductEvent отправляет событие о товаре в Kafka
// Key = ProductID для правильного партиционирования
func (s *CatalogService) publishProductEvent(ctx context.Context, event entity.ProductEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal product event: %w", err)
	}

	if err := s.kafkaProducer.PublishMessage(ctx, event.ProductID.String(), eventData); err != nil {
		return fmt.Errorf("failed to publish to kafka: %w", err)
	}

	return nil
}
