package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pharma-pos/internal/dto"
	"pharma-pos/internal/repositories"
	"pharma-pos/internal/services"
	apperrors "pharma-pos/pkg/errors"
	"pharma-pos/pkg/utils"
)

type OrderController struct {
	orderService services.OrderServiceInterface
	branchRepo   repositories.BranchRepositoryInterface
	logger       *zap.Logger
}

func NewOrderController(
	orderService services.OrderServiceInterface,
	branchRepo repositories.BranchRepositoryInterface,
	logger *zap.Logger,
) *OrderController {
	return &OrderController{
		orderService: orderService,
		branchRepo:   branchRepo,
		logger:       logger,
	}
}

// GetOrders — список заказов, суженный ролью пользователя:
// superadmin видит всё, bisnis_manager — свой город, admin_cabang — свой филиал.
func (c *OrderController) GetOrders(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	params := utils.ParseQuery(ctx.QueryParams())

	branchIDs, err := services.BranchScope(reqCtx, c.branchRepo)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	filter := repositories.OrderFilter{
		BranchIDs: branchIDs,
		Status:    params.Filters["status"],
		Limit:     params.Limit,
		Offset:    params.Offset,
	}

	orders, total, err := c.orderService.GetOrders(reqCtx, filter)
	if err != nil {
		c.logger.Error("Ошибка при получении списка заказов", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, orders, "Список заказов успешно получен", http.StatusOK, total)
}

// Accept — принятие заказа кассиром: списание склада и переход в PREPARING.
func (c *OrderController) Accept(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	grabOrderID := ctx.Param("grabOrderId")
	if grabOrderID == "" {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Некорректный ID заказа"), c.logger)
	}

	order, err := c.orderService.Accept(reqCtx, grabOrderID)
	if err != nil {
		c.logger.Error("Ошибка при принятии заказа", zap.Error(err), zap.String("grab_order_id", grabOrderID))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, order, "Заказ успешно принят", http.StatusOK)
}

// Reject — отклонение входящего заказа. Склад не затрагивается.
func (c *OrderController) Reject(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	grabOrderID := ctx.Param("grabOrderId")
	if grabOrderID == "" {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Некорректный ID заказа"), c.logger)
	}

	if err := c.orderService.Reject(reqCtx, grabOrderID); err != nil {
		c.logger.Error("Ошибка при отклонении заказа", zap.Error(err), zap.String("grab_order_id", grabOrderID))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, struct{}{}, "Заказ отклонён", http.StatusOK)
}

// MarkReady — заказ собран и ждёт курьера.
func (c *OrderController) MarkReady(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	grabOrderID := ctx.Param("grabOrderId")
	if grabOrderID == "" {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Некорректный ID заказа"), c.logger)
	}

	if err := c.orderService.MarkReady(reqCtx, grabOrderID); err != nil {
		c.logger.Error("Ошибка при отметке готовности заказа", zap.Error(err), zap.String("grab_order_id", grabOrderID))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, struct{}{}, "Заказ отмечен готовым к выдаче", http.StatusOK)
}

// CheckCancellable — можно ли ещё отменить заказ и с какими причинами.
func (c *OrderController) CheckCancellable(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	grabOrderID := ctx.Param("grabOrderId")
	if grabOrderID == "" {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Некорректный ID заказа"), c.logger)
	}

	result, err := c.orderService.CheckCancellable(reqCtx, grabOrderID)
	if err != nil {
		c.logger.Error("Ошибка проверки возможности отмены", zap.Error(err), zap.String("grab_order_id", grabOrderID))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, result, "Проверка выполнена", http.StatusOK)
}

// Cancel — отмена принятого заказа с возвратом остатков.
func (c *OrderController) Cancel(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	grabOrderID := ctx.Param("grabOrderId")
	if grabOrderID == "" {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Некорректный ID заказа"), c.logger)
	}

	var payload dto.CancelOrderDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат данных"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError(err.Error()), c.logger)
	}

	if err := c.orderService.Cancel(reqCtx, grabOrderID, payload.CancelCode); err != nil {
		c.logger.Error("Ошибка при отмене заказа", zap.Error(err), zap.String("grab_order_id", grabOrderID))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, struct{}{}, "Заказ отменён, остатки возвращены", http.StatusOK)
}

// CreateOfflineOrder — продажа за кассой без Grab.
func (c *OrderController) CreateOfflineOrder(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var payload dto.CreateOfflineOrderDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат данных"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError(err.Error()), c.logger)
	}

	orderID, err := c.orderService.CreateOfflineOrder(reqCtx, payload)
	if err != nil {
		c.logger.Error("Ошибка при создании офлайн-заказа", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, map[string]uint64{"order_id": orderID}, "Офлайн-заказ создан", http.StatusCreated)
}
