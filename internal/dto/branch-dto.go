package dto

type CreateBranchDTO struct {
	BranchName     string `json:"branch_name" validate:"required"`
	Kota           string `json:"kota" validate:"required"`
	GrabMerchantID string `json:"grab_merchant_id" validate:"required"`
}

type UpdateBranchDTO struct {
	BranchName string `json:"branch_name"`
	Kota       string `json:"kota"`
}
