package entity

// CreateCategoryRequest - payload создания категории
type CreateCategoryRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	URL      string `json:"url" validate:"required,min=2,max=50"`
	Image    string `json:"image" validate:"omitempty,url"`
	Featured bool   `json:"featured"`
}

// UpdateCategoryRequest - payload обновления категории
type UpdateCategoryRequest struct {
	Name     string `json:"name" validate:"omitempty,min=2,max=50"`
	URL      string `json:"url" validate:"omitempty,min=2,max=50"`
	Image    string `json:"image" validate:"omitempty,url"`
	Featured *bool  `json:"featured"`
}

// CreateProductRequest - payload создания товара
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,min=2,max=200"`
	Description string          `json:"description" validate:"max=5000"`
	Slug        string          `json:"slug" validate:"required,min=2,max=200"`
	Brand       string          `json:"brand" validate:"max=100"`
	CategoryID  string          `json:"category_id" validate:"required,uuid"`
	Specs       []SpecInput     `json:"specs" validate:"max=50,dive"`
	Questions   []QuestionInput `json:"questions" validate:"max=50,dive"`
}

// UpdateProductRequest - payload частичного обновления товара
// Переданные наборы specs и questions заменяют существующие целиком,
// отсутствующие (null) не трогаются
type UpdateProductRequest struct {
	Name        string          `json:"name" validate:"omitempty,min=2,max=200"`
	Description string          `json:"description" validate:"omitempty,max=5000"`
	Brand       string          `json:"brand" validate:"omitempty,max=100"`
	CategoryID  string          `json:"category_id" validate:"omitempty,uuid"`
	Specs       []SpecInput     `json:"specs" validate:"omitempty,max=50,dive"`
	Questions   []QuestionInput `json:"questions" validate:"omitempty,max=50,dive"`
}

// SpecInput описание характеристики в payload товара или варианта
type SpecInput struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Value string `json:"value" validate:"required,min=1,max=500"`
}

// QuestionInput описание вопроса-ответа в payload товара
type QuestionInput struct {
	Question string `json:"question" validate:"required,min=1,max=500"`
	Answer   string `json:"answer" validate:"required,min=1,max=2000"`
}

// SaveVariantRequest - payload варианта товара
// Наборы sizes, colors, images и specs заменяют существующие целиком
type SaveVariantRequest struct {
	VariantName string              `json:"variant_name" validate:"required,min=1,max=100"`
	SKU         string              `json:"sku" validate:"max=50"`
	Keywords    string              `json:"keywords" validate:"max=500"`
	Weight      float64             `json:"weight" validate:"gte=0"`
	IsSale      bool                `json:"is_sale"`
	SaleEndDate string              `json:"sale_end_date" validate:"max=50"`
	Sizes       []VariantSizeInput  `json:"sizes" validate:"required,min=1,max=20,dive"`
	Colors      []VariantColorInput `json:"colors" validate:"max=20,dive"`
	Images      []VariantImageInput `json:"images" validate:"max=10,dive"`
	Specs       []SpecInput         `json:"specs" validate:"max=50,dive"`
}

// VariantSizeInput описание размера в payload варианта
type VariantSizeInput struct {
	Size     string  `json:"size" validate:"required,min=1,max=20"`
	Quantity int     `json:"quantity" validate:"gte=0"`
	Price    float64 `json:"price" validate:"required,gt=0"`
	Discount float64 `json:"discount" validate:"gte=0,lte=100"`
}

// VariantColorInput описание цвета в payload варианта
type VariantColorInput struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}

// VariantImageInput описание картинки в payload варианта
type VariantImageInput struct {
	URL string `json:"url" validate:"required,url"`
}

// ProductListResponse - ответ со списком товаров
type ProductListResponse struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}

// CategoryListResponse - ответ со списком категорий
type CategoryListResponse struct {
	Categories []Category `json:"categories"`
	Total      int        `json:"total"`
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
