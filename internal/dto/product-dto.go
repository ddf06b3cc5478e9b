package dto

type CreateProductDTO struct {
	ProductID     string `json:"product_id" validate:"required"`
	ProductName   string `json:"product_name" validate:"required"`
	Price         int64  `json:"price" validate:"gte=0"`
	CategoryID    string `json:"category_id"`
	SubCategoryID string `json:"sub_category_id"`
}

type UpdateProductDTO struct {
	ProductName   string `json:"product_name"`
	Price         *int64 `json:"price" validate:"omitempty,gte=0"`
	CategoryID    string `json:"category_id"`
	SubCategoryID string `json:"sub_category_id"`
}

// AdjustStockDTO — ручная корректировка остатка (приёмка товара, опнейм).
// Положительная дельта — приход, отрицательная — списание.
type AdjustStockDTO struct {
	ProductID string `json:"product_id" validate:"required"`
	Delta     int64  `json:"delta" validate:"required"`
}
