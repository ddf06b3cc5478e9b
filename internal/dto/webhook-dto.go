package dto

import "github.com/aarondl/null/v8"

// GrabModifierDTO — модификатор позиции. Для конверсии склада читается
// только имя первого модификатора (упаковка: strip / box).
type GrabModifierDTO struct {
	Name string `json:"name"`
}

// GrabOrderItemDTO — позиция заказа, как её присылает Grab.
type GrabOrderItemDTO struct {
	ID        string            `json:"id"`
	Quantity  int64             `json:"quantity"`
	Modifiers []GrabModifierDTO `json:"modifiers"`
}

// SubmitOrderDTO — тело вебхука submit-order.
// Структура разбирается дважды: здесь — для валидации и извлечения позиций,
// и как сырые байты — для сохранения в grab_payload_raw дословно.
type SubmitOrderDTO struct {
	OrderID           string             `json:"orderID" validate:"required"`
	PartnerMerchantID string             `json:"partnerMerchantID" validate:"required"`
	Items             []GrabOrderItemDTO `json:"items"`
	ScheduledTime     null.Time          `json:"scheduledTime"`
}

// OrderStateDTO — тело вебхука order-status.
type OrderStateDTO struct {
	OrderID string `json:"orderID" validate:"required"`
	State   string `json:"state" validate:"required"`
}

// IntegrationStatusDTO — уведомление Grab о состоянии интеграции магазина.
type IntegrationStatusDTO struct {
	PartnerID string `json:"partnerID" validate:"required"`
	StoreID   string `json:"storeID" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=SYNCING ACTIVE FAILED"`
	Message   string `json:"message"`
}

// MenuSyncStateDTO — итог фоновой синхронизации меню на стороне Grab.
type MenuSyncStateDTO struct {
	RequestID         string   `json:"requestID" validate:"required"`
	MerchantID        string   `json:"merchantID" validate:"required"`
	PartnerMerchantID string   `json:"partnerMerchantID" validate:"required"`
	JobID             string   `json:"jobID" validate:"required"`
	UpdatedAt         string   `json:"updatedAt"`
	Status            string   `json:"status" validate:"required,oneof=QUEUEING PROCESSING SUCCESS FAILED"`
	Errors            []string `json:"errors"`
}
