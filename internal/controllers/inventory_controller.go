package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pharma-pos/internal/dto"
	"pharma-pos/internal/services"
	apperrors "pharma-pos/pkg/errors"
	"pharma-pos/pkg/utils"
)

type InventoryController struct {
	inventoryService services.InventoryServiceInterface
	logger           *zap.Logger
}

func NewInventoryController(inventoryService services.InventoryServiceInterface, logger *zap.Logger) *InventoryController {
	return &InventoryController{inventoryService: inventoryService, logger: logger}
}

// GetStock — остатки филиала в атомарных единицах.
func (c *InventoryController) GetStock(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	branchID, err := strconv.ParseUint(ctx.Param("branchId"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Некорректный ID филиала"), c.logger)
	}

	rows, err := c.inventoryService.StockByBranch(reqCtx, branchID)
	if err != nil {
		c.logger.Error("Ошибка при получении остатков", zap.Error(err), zap.Uint64("branch_id", branchID))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, rows, "Остатки успешно получены", http.StatusOK, uint64(len(rows)))
}

// AdjustStock — ручная корректировка остатка (приёмка, опнейм).
func (c *InventoryController) AdjustStock(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	branchID, err := strconv.ParseUint(ctx.Param("branchId"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Некорректный ID филиала"), c.logger)
	}

	var payload dto.AdjustStockDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат данных"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError(err.Error()), c.logger)
	}

	if err := c.inventoryService.AdjustStock(reqCtx, branchID, payload); err != nil {
		c.logger.Error("Ошибка при корректировке остатка", zap.Error(err),
			zap.Uint64("branch_id", branchID), zap.String("product_id", payload.ProductID))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, struct{}{}, "Остаток скорректирован", http.StatusOK)
}
