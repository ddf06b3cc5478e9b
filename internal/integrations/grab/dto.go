package grab

// AuthResponse — ответ OAuth-обмена client credentials.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type authRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	GrantType    string `json:"grant_type"`
	Scope        string `json:"scope"`
}

type markOrderRequest struct {
	OrderID    string `json:"orderID"`
	MarkStatus int    `json:"markStatus"`
}

type cancelOrderRequest struct {
	OrderID    string `json:"orderID"`
	MerchantID string `json:"merchantID"`
	CancelCode string `json:"cancelCode"`
}

// CancellableResponse — ответ проверки возможности отмены заказа.
type CancellableResponse struct {
	CancelAble    bool           `json:"cancelAble"`
	CancelReasons []CancelReason `json:"cancelReasons"`
}

type CancelReason struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// CategoriesResponse — справочник категорий GrabMart.
type CategoriesResponse struct {
	Categories []MartCategory `json:"categories"`
}

type MartCategory struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	SubCategories []MartSubCategory `json:"subCategories"`
}

type MartSubCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
