package services

import (
	"context"

	"go.uber.org/zap"

	"pharma-pos/internal/dto"
	"pharma-pos/internal/entities"
	"pharma-pos/internal/repositories"
	apperrors "pharma-pos/pkg/errors"
)

type InventoryServiceInterface interface {
	StockByBranch(ctx context.Context, branchID uint64) ([]entities.StockRow, error)
	AdjustStock(ctx context.Context, branchID uint64, adjustment dto.AdjustStockDTO) error
}

type InventoryService struct {
	inventoryRepo repositories.InventoryRepositoryInterface
	logger        *zap.Logger
}

func NewInventoryService(inventoryRepo repositories.InventoryRepositoryInterface, logger *zap.Logger) InventoryServiceInterface {
	return &InventoryService{inventoryRepo: inventoryRepo, logger: logger}
}

func (s *InventoryService) StockByBranch(ctx context.Context, branchID uint64) ([]entities.StockRow, error) {
	return s.inventoryRepo.StockByBranch(ctx, branchID)
}

// AdjustStock — ручная корректировка остатка (приёмка, опнейм).
// Идёт через те же атомарные операции леджера, что и заказы:
// списание больше остатка невозможно и здесь.
func (s *InventoryService) AdjustStock(ctx context.Context, branchID uint64, adjustment dto.AdjustStockDTO) error {
	if adjustment.Delta == 0 {
		return apperrors.NewInvalidInputError("delta не может быть нулевой")
	}

	s.logger.Info("Ручная корректировка остатка",
		zap.Uint64("branch_id", branchID),
		zap.String("product_id", adjustment.ProductID),
		zap.Int64("delta", adjustment.Delta),
	)

	if adjustment.Delta > 0 {
		// Приход может быть первым движением товара в филиале.
		if err := s.inventoryRepo.UpsertEntry(ctx, branchID, adjustment.ProductID, 0); err != nil {
			return err
		}
		return s.inventoryRepo.IncreaseStock(ctx, nil, branchID, adjustment.ProductID, adjustment.Delta)
	}
	return s.inventoryRepo.DecreaseStock(ctx, nil, branchID, adjustment.ProductID, -adjustment.Delta)
}
