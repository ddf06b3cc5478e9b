package entities

import "time"

// Product — справочник товаров. ProductID — строковый код товара,
// он же используется в каталоге Grab как id позиции.
type Product struct {
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name"`
	Price         int64     `json:"price"`
	CategoryID    string    `json:"category_id"`
	SubCategoryID string    `json:"sub_category_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
