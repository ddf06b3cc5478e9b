package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pharma-pos/internal/dto"
	"pharma-pos/internal/services"
	"pharma-pos/pkg/eventbus"
	apperrors "pharma-pos/pkg/errors"
	"pharma-pos/pkg/utils"
)

// WebhookController принимает вебхуки GrabMart. Grab ретраит медленные ответы,
// поэтому тело валидируется синхронно, а запись в БД уходит в шину событий.
type WebhookController struct {
	webhookService services.WebhookServiceInterface
	menuService    services.MenuServiceInterface
	bus            *eventbus.Bus
	logger         *zap.Logger
}

func NewWebhookController(
	webhookService services.WebhookServiceInterface,
	menuService services.MenuServiceInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) *WebhookController {
	return &WebhookController{
		webhookService: webhookService,
		menuService:    menuService,
		bus:            bus,
		logger:         logger,
	}
}

// SubmitOrder — новый заказ от Grab. Сырые байты тела сохраняются дословно:
// из них же потом считается конверсия при принятии заказа.
func (c *WebhookController) SubmitOrder(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	rawBody, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Не удалось прочитать тело запроса"), c.logger)
	}

	var payload dto.SubmitOrderDTO
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат данных"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError(err.Error()), c.logger)
	}

	// Филиал резолвится до ответа: о неизвестном мерчанте Grab должен
	// узнать сразу, по коду 404, а не из наших логов.
	branch, err := c.webhookService.ResolveBranch(reqCtx, payload.PartnerMerchantID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	c.bus.Publish(reqCtx, services.SubmitOrderEvent{
		BranchID:   branch.ID,
		Payload:    payload,
		RawPayload: rawBody,
	})

	return utils.SuccessResponse(ctx, struct{}{}, "Заказ принят в обработку", http.StatusOK)
}

// OrderState — смена статуса заказа на стороне Grab.
func (c *WebhookController) OrderState(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var payload dto.OrderStateDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат данных"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError(err.Error()), c.logger)
	}

	c.bus.Publish(reqCtx, services.OrderStateEvent{Payload: payload})

	return utils.SuccessResponse(ctx, struct{}{}, "Статус принят в обработку", http.StatusOK)
}

// IntegrationStatus — уведомление о состоянии интеграции магазина.
func (c *WebhookController) IntegrationStatus(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var payload dto.IntegrationStatusDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат данных"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError(err.Error()), c.logger)
	}

	if err := c.webhookService.RecordIntegrationStatus(reqCtx, payload); err != nil {
		c.logger.Error("Ошибка обработки integration-status", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, struct{}{}, "Статус интеграции принят", http.StatusOK)
}

// MenuSyncState — итог фоновой синхронизации меню на стороне Grab.
func (c *WebhookController) MenuSyncState(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var payload dto.MenuSyncStateDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат данных"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError(err.Error()), c.logger)
	}

	if err := c.webhookService.RecordMenuSyncState(reqCtx, payload); err != nil {
		c.logger.Error("Ошибка записи итога синхронизации меню", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, struct{}{}, "Итог синхронизации сохранён", http.StatusOK)
}

// GetMenu — Grab забирает каталог мерчанта. Ответ отдаётся в формате Grab
// как есть, без нашей обёртки HttpResponse.
func (c *WebhookController) GetMenu(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	merchantID := ctx.QueryParam("merchantID")
	if merchantID == "" {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("merchantID обязателен"), c.logger)
	}

	menu, err := c.menuService.BuildMenu(reqCtx, merchantID)
	if err != nil {
		c.logger.Error("Ошибка сборки меню", zap.Error(err), zap.String("merchant_id", merchantID))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return ctx.JSON(http.StatusOK, menu)
}
