package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pharma-pos/internal/services"
	"pharma-pos/pkg/utils"
)

// MenuController отдаёт справочники каталога для Web POS.
type MenuController struct {
	menuService services.MenuServiceInterface
	logger      *zap.Logger
}

func NewMenuController(menuService services.MenuServiceInterface, logger *zap.Logger) *MenuController {
	return &MenuController{menuService: menuService, logger: logger}
}

// MartCategories — официальный справочник категорий GrabMart,
// чтобы карточки товаров заполнялись валидными category_id.
func (c *MenuController) MartCategories(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	categories, err := c.menuService.MartCategories(reqCtx)
	if err != nil {
		c.logger.Error("Ошибка получения справочника категорий Grab", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, categories, "Справочник категорий получен", http.StatusOK)
}
