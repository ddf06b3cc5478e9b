package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"pharma-pos/internal/dto"
	"pharma-pos/internal/entities"
	"pharma-pos/internal/repositories"
	"pharma-pos/pkg/eventbus"
	apperrors "pharma-pos/pkg/errors"
)

// Имена событий шины. Вебхук отвечает Grab сразу после валидации,
// а запись в БД выполняет слушатель.
const (
	EventSubmitOrder = "grab.webhook.submit_order"
	EventOrderState  = "grab.webhook.order_state"
)

// SubmitOrderEvent несёт уже провалидированный вебхук submit-order
// вместе с дословными байтами тела.
type SubmitOrderEvent struct {
	BranchID   uint64
	Payload    dto.SubmitOrderDTO
	RawPayload []byte
}

func (SubmitOrderEvent) Name() string { return EventSubmitOrder }

// OrderStateEvent — уведомление Grab о смене статуса заказа.
type OrderStateEvent struct {
	Payload dto.OrderStateDTO
}

func (OrderStateEvent) Name() string { return EventOrderState }

type WebhookServiceInterface interface {
	ResolveBranch(ctx context.Context, partnerMerchantID string) (*entities.Branch, error)
	ProcessSubmitOrder(ctx context.Context, branchID uint64, payload dto.SubmitOrderDTO, rawPayload []byte) error
	ProcessOrderState(ctx context.Context, payload dto.OrderStateDTO) error
	RecordIntegrationStatus(ctx context.Context, payload dto.IntegrationStatusDTO) error
	RecordMenuSyncState(ctx context.Context, payload dto.MenuSyncStateDTO) error
}

type WebhookService struct {
	txManager    repositories.TxManagerInterface
	orderRepo    repositories.OrderRepositoryInterface
	branchRepo   repositories.BranchRepositoryInterface
	menuSyncRepo repositories.MenuSyncLogRepositoryInterface
	logger       *zap.Logger
}

func NewWebhookService(
	txManager repositories.TxManagerInterface,
	orderRepo repositories.OrderRepositoryInterface,
	branchRepo repositories.BranchRepositoryInterface,
	menuSyncRepo repositories.MenuSyncLogRepositoryInterface,
	logger *zap.Logger,
) WebhookServiceInterface {
	return &WebhookService{
		txManager:    txManager,
		orderRepo:    orderRepo,
		branchRepo:   branchRepo,
		menuSyncRepo: menuSyncRepo,
		logger:       logger,
	}
}

// RegisterWebhookListeners подписывает сервис на события шины.
func RegisterWebhookListeners(bus *eventbus.Bus, service WebhookServiceInterface) {
	bus.Subscribe(EventSubmitOrder, func(ctx context.Context, event eventbus.Event) error {
		e, ok := event.(SubmitOrderEvent)
		if !ok {
			return fmt.Errorf("неожиданный тип события: %T", event)
		}
		return service.ProcessSubmitOrder(ctx, e.BranchID, e.Payload, e.RawPayload)
	})
	bus.Subscribe(EventOrderState, func(ctx context.Context, event eventbus.Event) error {
		e, ok := event.(OrderStateEvent)
		if !ok {
			return fmt.Errorf("неожиданный тип события: %T", event)
		}
		return service.ProcessOrderState(ctx, e.Payload)
	})
}

// ResolveBranch находит филиал по partnerMerchantID из вебхука.
// Неизвестный мерчант — это ошибка конфигурации на стороне Grab,
// контроллер отвечает на неё 404 синхронно, до постановки события в шину.
func (s *WebhookService) ResolveBranch(ctx context.Context, partnerMerchantID string) (*entities.Branch, error) {
	branch, err := s.branchRepo.FindByGrabMerchantID(ctx, nil, partnerMerchantID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn("Вебхук submit-order от неизвестного мерчанта",
				zap.String("partner_merchant_id", partnerMerchantID))
			return nil, apperrors.ErrUnknownMerchant
		}
		return nil, err
	}
	return branch, nil
}

// ProcessSubmitOrder записывает заказ из вебхука. Операция идемпотентна
// по grab_order_id: повторная доставка того же вебхука обновляет payload
// и позиции существующего заказа, не создавая дубликата.
func (s *WebhookService) ProcessSubmitOrder(ctx context.Context, branchID uint64, payload dto.SubmitOrderDTO, rawPayload []byte) error {
	items := make([]entities.OrderItem, 0, len(payload.Items))
	for _, item := range payload.Items {
		productID := item.ID
		if productID == "" {
			// Grab изредка присылает позиции без id. Заказ всё равно
			// сохраняем: кассир увидит его и разберётся вручную.
			productID = "UNKNOWN"
			s.logger.Warn("Позиция заказа без id товара",
				zap.String("grab_order_id", payload.OrderID))
		}
		items = append(items, entities.OrderItem{
			ProductID: productID,
			Quantity:  item.Quantity,
		})
	}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		_, err := s.orderRepo.UpsertFromGrab(ctx, tx, branchID, payload.OrderID, rawPayload, payload.ScheduledTime, items)
		return err
	})
	if err != nil {
		return err
	}

	s.logger.Info("Заказ из вебхука сохранён",
		zap.String("grab_order_id", payload.OrderID),
		zap.Uint64("branch_id", branchID),
		zap.Int("items", len(items)),
	)
	return nil
}

// normalizeGrabState приводит статусы Grab к нашей машине состояний.
// Пустая строка означает информационный статус: ничего менять не нужно.
func normalizeGrabState(state string) string {
	switch state {
	case "COMPLETED":
		return string(entities.StatusDelivered)
	case "FAILED":
		return string(entities.StatusCancelled)
	case "DRIVER_ARRIVED", "DRIVER_ALLOCATED", "COLLECTED":
		// Курьерские статусы не трогают ни склад, ни состояние заказа.
		return ""
	}
	return state
}

// ProcessOrderState обновляет статус заказа по уведомлению Grab.
// Неизвестные статусы и неизвестные заказы логируются и отбрасываются:
// Grab шлёт вебхуки и по заказам, заведённым до интеграции.
func (s *WebhookService) ProcessOrderState(ctx context.Context, payload dto.OrderStateDTO) error {
	normalized := normalizeGrabState(payload.State)
	if normalized == "" {
		s.logger.Info("Информационный статус Grab пропущен",
			zap.String("grab_order_id", payload.OrderID),
			zap.String("state", payload.State))
		return nil
	}

	status, err := entities.ParseOrderStatus(normalized)
	if err != nil {
		s.logger.Warn("Неизвестный статус в вебхуке order-status",
			zap.String("grab_order_id", payload.OrderID),
			zap.String("state", payload.State))
		return nil
	}

	if err := s.orderRepo.UpdateStatusByGrabID(ctx, payload.OrderID, status); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn("Вебхук order-status по неизвестному заказу",
				zap.String("grab_order_id", payload.OrderID))
			return nil
		}
		return err
	}

	s.logger.Info("Статус заказа обновлён из вебхука",
		zap.String("grab_order_id", payload.OrderID),
		zap.String("status", string(status)))
	return nil
}

// RecordIntegrationStatus фиксирует смену состояния интеграции магазина.
func (s *WebhookService) RecordIntegrationStatus(ctx context.Context, payload dto.IntegrationStatusDTO) error {
	s.logger.Info("Статус интеграции магазина",
		zap.String("partner_id", payload.PartnerID),
		zap.String("store_id", payload.StoreID),
		zap.String("status", payload.Status),
		zap.String("message", payload.Message),
	)
	return nil
}

// RecordMenuSyncState сохраняет итог синхронизации меню в журнал:
// без него ошибки фоновой выгрузки каталога теряются бесследно.
func (s *WebhookService) RecordMenuSyncState(ctx context.Context, payload dto.MenuSyncStateDTO) error {
	var errorsJSON []byte
	if len(payload.Errors) > 0 {
		raw, err := json.Marshal(payload.Errors)
		if err != nil {
			return fmt.Errorf("ошибка сериализации списка ошибок синхронизации: %w", err)
		}
		errorsJSON = raw
	}

	if err := s.menuSyncRepo.InsertLog(ctx, payload.JobID, payload.PartnerMerchantID, payload.Status, errorsJSON); err != nil {
		return err
	}

	if payload.Status == "FAILED" {
		s.logger.Error("Синхронизация меню завершилась с ошибкой",
			zap.String("job_id", payload.JobID),
			zap.String("partner_merchant_id", payload.PartnerMerchantID),
			zap.Strings("errors", payload.Errors),
		)
	}
	return nil
}
