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

type BranchController struct {
	branchService services.BranchServiceInterface
	logger        *zap.Logger
}

func NewBranchController(branchService services.BranchServiceInterface, logger *zap.Logger) *BranchController {
	return &BranchController{branchService: branchService, logger: logger}
}

func (c *BranchController) GetBranches(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	params := utils.ParseQuery(ctx.QueryParams())

	branches, total, err := c.branchService.GetBranches(reqCtx, params.Filters["kota"], params.Limit, params.Offset)
	if err != nil {
		c.logger.Error("Ошибка при получении списка филиалов", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, branches, "Список филиалов успешно получен", http.StatusOK, total)
}

func (c *BranchController) FindBranch(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Некорректный ID филиала"), c.logger)
	}

	branch, err := c.branchService.FindBranch(reqCtx, id)
	if err != nil {
		c.logger.Error("Ошибка при поиске филиала", zap.Error(err), zap.Uint64("id", id))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, branch, "Филиал успешно найден", http.StatusOK)
}

func (c *BranchController) CreateBranch(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var payload dto.CreateBranchDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат данных"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError(err.Error()), c.logger)
	}

	id, err := c.branchService.CreateBranch(reqCtx, payload)
	if err != nil {
		c.logger.Error("Ошибка при создании филиала", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, map[string]uint64{"id": id}, "Филиал успешно создан", http.StatusCreated)
}

func (c *BranchController) UpdateBranch(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Некорректный ID филиала"), c.logger)
	}

	var payload dto.UpdateBranchDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат данных"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError(err.Error()), c.logger)
	}

	if err := c.branchService.UpdateBranch(reqCtx, id, payload); err != nil {
		c.logger.Error("Ошибка при обновлении филиала", zap.Error(err), zap.Uint64("id", id))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, struct{}{}, "Филиал успешно обновлён", http.StatusOK)
}
