package dto

// Формат каталога GrabMart (старая, секционная структура). Это внешний формат:
// набор полей повторяет то, что ожидает Grab, и не меняется под наши нужды.

type MenuDTO struct {
	MerchantID        string           `json:"merchantID"`
	PartnerMerchantID string           `json:"partnerMerchantID"`
	Currency          MenuCurrencyDTO  `json:"currency"`
	SellingTimes      []SellingTimeDTO `json:"sellingTimes"`
	Sections          []MenuSectionDTO `json:"sections"`
}

type MenuCurrencyDTO struct {
	Code     string `json:"code"`
	Symbol   string `json:"symbol"`
	Exponent int    `json:"exponent"`
}

type SellingTimeDTO struct {
	ID           string                    `json:"id"`
	Name         string                    `json:"name"`
	ServiceHours map[string]ServiceHourDTO `json:"serviceHours"`
}

type ServiceHourDTO struct {
	OpenPeriodType string `json:"openPeriodType"`
}

type MenuSectionDTO struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	ServiceHours SectionHoursDTO   `json:"serviceHours"`
	Categories   []MenuCategoryDTO `json:"categories"`
}

type SectionHoursDTO struct {
	ID string `json:"id"`
}

type MenuCategoryDTO struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	SubCategories []MenuSubCategoryDTO `json:"subCategories"`
}

type MenuSubCategoryDTO struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Items []MenuItemDTO `json:"items"`
}

type MenuItemDTO struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Price           int64    `json:"price"`
	AvailableStatus string   `json:"availableStatus"`
	MaxStock        int64    `json:"maxStock"`
	Photos          []string `json:"photos"`
	ModifierGroups  []any    `json:"modifierGroups"`
}
