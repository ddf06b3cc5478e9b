package entities

import "time"

// StockEntry — остаток товара в филиале.
// OpnameStock хранится в атомарных единицах (таблетках), а не в упаковках.
// Инвариант opname_stock >= 0 обеспечивается условным UPDATE в репозитории
// и CHECK-ограничением в схеме.
type StockEntry struct {
	BranchID    uint64    `json:"branch_id"`
	ProductID   string    `json:"product_id"`
	OpnameStock int64     `json:"opname_stock"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StockRow — строка остатка вместе с данными товара, для выдачи POS и отчётов.
type StockRow struct {
	BranchID      uint64 `json:"branch_id"`
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	Price         int64  `json:"price"`
	CategoryID    string `json:"category_id"`
	SubCategoryID string `json:"sub_category_id"`
	OpnameStock   int64  `json:"opname_stock"`
}
