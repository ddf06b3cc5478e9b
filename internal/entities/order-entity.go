package entities

import (
	"encoding/json"
	"time"

	"github.com/aarondl/null/v8"
)

// Order — заказ. Для заказов из GrabMart GrabOrderID уникален и служит ключом
// идемпотентности: повторная доставка того же orderID обновляет запись, а не
// создаёт дубликат. GrabPayloadRaw хранится дословно — из него при accept/cancel
// пересчитываются количества с учётом модификаторов упаковки.
// Заказы никогда не удаляются физически: отмена — это статус, а не DELETE.
type Order struct {
	ID             uint64          `json:"id"`
	BranchID       uint64          `json:"branch_id"`
	Status         OrderStatus     `json:"status"`
	GrabOrderID    null.String     `json:"grab_order_id"`
	GrabPayloadRaw json.RawMessage `json:"grab_payload_raw,omitempty"`
	ScheduledTime  null.Time       `json:"scheduled_time"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	Items  []OrderItem `json:"items,omitempty"`
	Branch *Branch     `json:"branch,omitempty"`
}

// OrderItem — позиция заказа. ProductID приходит от Grab и может не
// существовать в нашем справочнике; сопоставлением занимается фронтенд POS.
// Quantity — в проданных единицах, без конверсии упаковки.
type OrderItem struct {
	ID        uint64 `json:"id"`
	OrderID   uint64 `json:"order_id"`
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}
