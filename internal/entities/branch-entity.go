package entities

import "time"

// Branch — аптека (филиал сети). GrabMerchantID — идентификатор этого филиала
// на стороне GrabMart, по нему резолвятся входящие заказы.
type Branch struct {
	ID             uint64    `json:"id"`
	BranchName     string    `json:"branch_name"`
	Kota           string    `json:"kota"`
	GrabMerchantID string    `json:"grab_merchant_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
