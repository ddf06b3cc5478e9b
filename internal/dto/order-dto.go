package dto

// CancelOrderDTO — запрос POS на отмену заказа. Код причины обязателен,
// справочник кодов отдаёт check-cancellable.
type CancelOrderDTO struct {
	CancelCode string `json:"cancelCode" validate:"required"`
}

// OfflineOrderItemDTO — позиция офлайн-продажи за кассой.
type OfflineOrderItemDTO struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
}

// CreateOfflineOrderDTO — офлайн-заказ, созданный кассиром без Grab.
// Списание склада идёт через те же атомарные операции леджера.
type CreateOfflineOrderDTO struct {
	BranchID uint64                `json:"branch_id" validate:"required"`
	Items    []OfflineOrderItemDTO `json:"items" validate:"required,min=1,dive"`
}

// CancellableDTO — ответ проверки возможности отмены.
type CancellableDTO struct {
	CancelAble    bool               `json:"cancelAble"`
	CancelReasons []CancelReasonDTO  `json:"cancelReasons"`
}

type CancelReasonDTO struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}
