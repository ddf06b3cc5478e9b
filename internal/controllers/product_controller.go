package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pharma-pos/internal/dto"
	"pharma-pos/internal/services"
	apperrors "pharma-pos/pkg/errors"
	"pharma-pos/pkg/utils"
)

type ProductController struct {
	productService services.ProductServiceInterface
	logger         *zap.Logger
}

func NewProductController(productService services.ProductServiceInterface, logger *zap.Logger) *ProductController {
	return &ProductController{productService: productService, logger: logger}
}

func (c *ProductController) GetProducts(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	params := utils.ParseQuery(ctx.QueryParams())

	products, total, err := c.productService.GetProducts(reqCtx, params.Search, params.Limit, params.Offset)
	if err != nil {
		c.logger.Error("Ошибка при получении списка товаров", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, products, "Список товаров успешно получен", http.StatusOK, total)
}

func (c *ProductController) FindProduct(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	productID := ctx.Param("id")
	if productID == "" {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Некорректный ID товара"), c.logger)
	}

	product, err := c.productService.FindProduct(reqCtx, productID)
	if err != nil {
		c.logger.Error("Ошибка при поиске товара", zap.Error(err), zap.String("product_id", productID))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, product, "Товар успешно найден", http.StatusOK)
}

func (c *ProductController) CreateProduct(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var payload dto.CreateProductDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат данных"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError(err.Error()), c.logger)
	}

	if err := c.productService.CreateProduct(reqCtx, payload); err != nil {
		c.logger.Error("Ошибка при создании товара", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, struct{}{}, "Товар успешно создан", http.StatusCreated)
}

func (c *ProductController) UpdateProduct(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	productID := ctx.Param("id")
	if productID == "" {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Некорректный ID товара"), c.logger)
	}

	var payload dto.UpdateProductDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат данных"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError(err.Error()), c.logger)
	}

	if err := c.productService.UpdateProduct(reqCtx, productID, payload); err != nil {
		c.logger.Error("Ошибка при обновлении товара", zap.Error(err), zap.String("product_id", productID))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, struct{}{}, "Товар успешно обновлён", http.StatusOK)
}
