package services

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"pharma-pos/internal/dto"
	"pharma-pos/internal/entities"
	"pharma-pos/internal/integrations/grab"
	"pharma-pos/internal/repositories"
)

const menuCachePrefix = "grab:menu:"

// MenuServiceInterface строит каталог в формате GrabMart из остатков филиала.
type MenuServiceInterface interface {
	BuildMenu(ctx context.Context, merchantID string) (*dto.MenuDTO, error)
	MartCategories(ctx context.Context) (*grab.CategoriesResponse, error)
}

type MenuService struct {
	branchRepo    repositories.BranchRepositoryInterface
	inventoryRepo repositories.InventoryRepositoryInterface
	grabProvider  grab.ProviderInterface
	cacheRepo     repositories.CacheRepositoryInterface
	cacheTTL      time.Duration
	logger        *zap.Logger
}

func NewMenuService(
	branchRepo repositories.BranchRepositoryInterface,
	inventoryRepo repositories.InventoryRepositoryInterface,
	grabProvider grab.ProviderInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	cacheTTL time.Duration,
	logger *zap.Logger,
) MenuServiceInterface {
	return &MenuService{
		branchRepo:    branchRepo,
		inventoryRepo: inventoryRepo,
		grabProvider:  grabProvider,
		cacheRepo:     cacheRepo,
		cacheTTL:      cacheTTL,
		logger:        logger,
	}
}

// BuildMenu собирает дерево каталога для одного мерчанта Grab.
// Товар с нулевым остатком остаётся в меню со статусом UNAVAILABLE:
// Grab показывает его покупателю как "закончился", а не прячет.
func (s *MenuService) BuildMenu(ctx context.Context, merchantID string) (*dto.MenuDTO, error) {
	cacheKey := menuCachePrefix + merchantID
	if cached, err := s.cacheRepo.Get(ctx, cacheKey); err == nil && cached != "" {
		var menu dto.MenuDTO
		if err := json.Unmarshal([]byte(cached), &menu); err == nil {
			return &menu, nil
		}
	}

	branch, err := s.branchRepo.FindByGrabMerchantID(ctx, nil, merchantID)
	if err != nil {
		return nil, err
	}

	rows, err := s.inventoryRepo.StockByBranch(ctx, branch.ID)
	if err != nil {
		return nil, err
	}

	menu := s.assembleMenu(merchantID, branch.BranchName, rows)

	if raw, err := json.Marshal(menu); err == nil {
		_ = s.cacheRepo.Set(ctx, cacheKey, string(raw), s.cacheTTL)
	}
	return menu, nil
}

// assembleMenu раскладывает плоский список остатков по категориям товаров.
func (s *MenuService) assembleMenu(merchantID, branchName string, rows []entities.StockRow) *dto.MenuDTO {
	// Категория -> подкатегория -> позиции. Порядок обхода rows сохраняем,
	// чтобы меню было стабильным между вызовами.
	type subKey struct{ category, sub string }
	subItems := make(map[subKey][]dto.MenuItemDTO)
	var categoryOrder []string
	subOrder := make(map[string][]string)
	seenCategory := make(map[string]bool)
	seenSub := make(map[subKey]bool)

	for _, row := range rows {
		category := row.CategoryID
		if category == "" {
			category = "uncategorized"
		}
		sub := row.SubCategoryID
		if sub == "" {
			sub = category + "-general"
		}

		if !seenCategory[category] {
			seenCategory[category] = true
			categoryOrder = append(categoryOrder, category)
		}
		key := subKey{category: category, sub: sub}
		if !seenSub[key] {
			seenSub[key] = true
			subOrder[category] = append(subOrder[category], sub)
		}

		status := "AVAILABLE"
		if row.OpnameStock <= 0 {
			status = "UNAVAILABLE"
		}
		subItems[key] = append(subItems[key], dto.MenuItemDTO{
			ID:              row.ProductID,
			Name:            row.ProductName,
			Price:           row.Price,
			AvailableStatus: status,
			MaxStock:        row.OpnameStock,
			Photos:          []string{},
			ModifierGroups:  []any{},
		})
	}

	categories := make([]dto.MenuCategoryDTO, 0, len(categoryOrder))
	for _, category := range categoryOrder {
		subCategories := make([]dto.MenuSubCategoryDTO, 0, len(subOrder[category]))
		for _, sub := range subOrder[category] {
			subCategories = append(subCategories, dto.MenuSubCategoryDTO{
				ID:    sub,
				Name:  sub,
				Items: subItems[subKey{category: category, sub: sub}],
			})
		}
		categories = append(categories, dto.MenuCategoryDTO{
			ID:            category,
			Name:          category,
			SubCategories: subCategories,
		})
	}

	return &dto.MenuDTO{
		MerchantID:        merchantID,
		PartnerMerchantID: merchantID,
		Currency:          dto.MenuCurrencyDTO{Code: "IDR", Symbol: "Rp", Exponent: 2},
		SellingTimes: []dto.SellingTimeDTO{
			{
				ID:   "selling-time-1",
				Name: "Jam Buka",
				ServiceHours: map[string]dto.ServiceHourDTO{
					"mon": {OpenPeriodType: "OpenPeriod"},
					"tue": {OpenPeriodType: "OpenPeriod"},
					"wed": {OpenPeriodType: "OpenPeriod"},
					"thu": {OpenPeriodType: "OpenPeriod"},
					"fri": {OpenPeriodType: "OpenPeriod"},
					"sat": {OpenPeriodType: "OpenPeriod"},
					"sun": {OpenPeriodType: "OpenPeriod"},
				},
			},
		},
		Sections: []dto.MenuSectionDTO{
			{
				ID:           "section-1",
				Name:         branchName,
				ServiceHours: dto.SectionHoursDTO{ID: "selling-time-1"},
				Categories:   categories,
			},
		},
	}
}

// MartCategories отдаёт официальный справочник категорий GrabMart.
func (s *MenuService) MartCategories(ctx context.Context) (*grab.CategoriesResponse, error) {
	return s.grabProvider.ListMartCategories(ctx)
}
