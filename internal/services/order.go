package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"pharma-pos/internal/dto"
	"pharma-pos/internal/entities"
	"pharma-pos/internal/integrations/grab"
	"pharma-pos/internal/repositories"
	apperrors "pharma-pos/pkg/errors"
)

const cancelReasonsCachePrefix = "grab:cancelable:"

// OrderServiceInterface — жизненный цикл заказа GrabMart на стороне POS.
type OrderServiceInterface interface {
	Accept(ctx context.Context, grabOrderID string) (*entities.Order, error)
	Reject(ctx context.Context, grabOrderID string) error
	MarkReady(ctx context.Context, grabOrderID string) error
	CheckCancellable(ctx context.Context, grabOrderID string) (*dto.CancellableDTO, error)
	Cancel(ctx context.Context, grabOrderID string, cancelCode string) error
	CreateOfflineOrder(ctx context.Context, orderData dto.CreateOfflineOrderDTO) (uint64, error)
	GetOrders(ctx context.Context, filter repositories.OrderFilter) ([]entities.Order, uint64, error)
}

type OrderService struct {
	txManager     repositories.TxManagerInterface
	orderRepo     repositories.OrderRepositoryInterface
	inventoryRepo repositories.InventoryRepositoryInterface
	branchRepo    repositories.BranchRepositoryInterface
	grabProvider  grab.ProviderInterface
	cacheRepo     repositories.CacheRepositoryInterface
	cacheTTL      time.Duration
	logger        *zap.Logger
}

func NewOrderService(
	txManager repositories.TxManagerInterface,
	orderRepo repositories.OrderRepositoryInterface,
	inventoryRepo repositories.InventoryRepositoryInterface,
	branchRepo repositories.BranchRepositoryInterface,
	grabProvider grab.ProviderInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	cacheTTL time.Duration,
	logger *zap.Logger,
) OrderServiceInterface {
	return &OrderService{
		txManager:     txManager,
		orderRepo:     orderRepo,
		inventoryRepo: inventoryRepo,
		branchRepo:    branchRepo,
		grabProvider:  grabProvider,
		cacheRepo:     cacheRepo,
		cacheTTL:      cacheTTL,
		logger:        logger,
	}
}

// stockMutation — одна строка списания/возврата, посчитанная из сырого payload.
type stockMutation struct {
	productID string
	amount    int64
}

// mutationsFromPayload пересчитывает позиции сырого payload в атомарные единицы.
// Конверсия выполняется здесь, в момент accept/cancel, а не при приёме вебхука:
// так отмена всегда возвращает ровно столько, сколько списало принятие.
func mutationsFromPayload(raw json.RawMessage) ([]stockMutation, error) {
	if len(raw) == 0 {
		return nil, apperrors.NewInvalidInputError("у заказа нет сохранённого payload")
	}

	var payload dto.SubmitOrderDTO
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("ошибка разбора сохранённого payload: %w", err)
	}
	if len(payload.Items) == 0 {
		return nil, apperrors.NewInvalidInputError("в заказе нет ни одной позиции")
	}

	mutations := make([]stockMutation, 0, len(payload.Items))
	for _, item := range payload.Items {
		names := make([]string, 0, len(item.Modifiers))
		for _, m := range item.Modifiers {
			names = append(names, m.Name)
		}
		mutations = append(mutations, stockMutation{
			productID: item.ID,
			amount:    atomicQuantity(item.Quantity, names),
		})
	}
	return mutations, nil
}

// Accept принимает заказ: INCOMING -> PREPARING.
// Все списания склада и смена статуса выполняются в одной транзакции:
// нехватка остатка по любой позиции откатывает всё, частичных списаний не бывает.
func (s *OrderService) Accept(ctx context.Context, grabOrderID string) (*entities.Order, error) {
	from, to, err := entities.TransitionFor(entities.OpAccept)
	if err != nil {
		return nil, err
	}

	var order *entities.Order
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		// CAS по статусу идёт первым: проигравшая из двух гонок accept
		// упадёт здесь и не дойдёт до списаний.
		if err := s.orderRepo.UpdateStatusFrom(ctx, tx, grabOrderID, from, to); err != nil {
			return err
		}

		// Payload читается уже после CAS и тем же соединением: строка
		// захвачена UPDATE-ом, и повторная доставка вебхука не успеет
		// подменить позиции между проверкой статуса и списанием.
		var err error
		order, err = s.orderRepo.FindByGrabID(ctx, tx, grabOrderID)
		if err != nil {
			return err
		}

		mutations, err := mutationsFromPayload(order.GrabPayloadRaw)
		if err != nil {
			return err
		}
		for _, m := range mutations {
			s.logger.Info("Списание остатка по позиции заказа",
				zap.String("grab_order_id", grabOrderID),
				zap.Uint64("branch_id", order.BranchID),
				zap.String("product_id", m.productID),
				zap.Int64("amount", m.amount),
			)
			if err := s.inventoryRepo.DecreaseStock(ctx, tx, order.BranchID, m.productID, m.amount); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Заказ принят, остатки списаны", zap.String("grab_order_id", grabOrderID))
	return order, nil
}

// Reject отклоняет входящий заказ. Склад не трогаем: заказ не принимался,
// значит ничего не списывалось.
func (s *OrderService) Reject(ctx context.Context, grabOrderID string) error {
	from, to, err := entities.TransitionFor(entities.OpReject)
	if err != nil {
		return err
	}
	if err := s.orderRepo.UpdateStatusFrom(ctx, nil, grabOrderID, from, to); err != nil {
		return err
	}
	s.logger.Info("Заказ отклонён", zap.String("grab_order_id", grabOrderID))
	return nil
}

// MarkReady уведомляет Grab и переводит PREPARING -> READY_FOR_PICKUP.
// Если Grab недоступен — локальный статус не меняется вовсе.
func (s *OrderService) MarkReady(ctx context.Context, grabOrderID string) error {
	order, err := s.orderRepo.FindByGrabID(ctx, nil, grabOrderID)
	if err != nil {
		return err
	}

	from, to, err := entities.TransitionFor(entities.OpMarkReady)
	if err != nil {
		return err
	}

	// Уведомление "заказ готов" не идемпотентно, поэтому статус проверяется
	// до исходящего вызова. CAS ниже остаётся защитой от параллельной операции.
	allowed := false
	for _, st := range from {
		if order.Status == st {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("заказ %s в статусе %s, переход в %s невозможен: %w",
			grabOrderID, order.Status, to, apperrors.ErrInvalidStateTransition)
	}

	if err := s.grabProvider.MarkOrderReady(ctx, grabOrderID); err != nil {
		s.logger.Error("Не удалось отметить заказ готовым на стороне Grab",
			zap.String("grab_order_id", grabOrderID), zap.Error(err))
		return err
	}

	return s.orderRepo.UpdateStatusFrom(ctx, nil, grabOrderID, from, to)
}

// CheckCancellable делегирует проверку Grab. Недоступный или не знающий заказ
// шлюз трактуется как "отменить можно": UI отмены не должен блокироваться
// из-за сетевых проблем.
func (s *OrderService) CheckCancellable(ctx context.Context, grabOrderID string) (*dto.CancellableDTO, error) {
	cacheKey := cancelReasonsCachePrefix + grabOrderID
	if cached, err := s.cacheRepo.Get(ctx, cacheKey); err == nil && cached != "" {
		var result dto.CancellableDTO
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			return &result, nil
		}
	}

	resp, err := s.grabProvider.CheckCancellable(ctx, grabOrderID)
	if err != nil {
		s.logger.Warn("Проверка возможности отмены недоступна, разрешаем отмену",
			zap.String("grab_order_id", grabOrderID), zap.Error(err))
		return &dto.CancellableDTO{
			CancelAble: true,
			CancelReasons: []dto.CancelReasonDTO{
				{Code: "1001", Reason: "Items are unavailable"},
				{Code: "1002", Reason: "I have too many orders now"},
				{Code: "1003", Reason: "My shop is closed"},
			},
		}, nil
	}

	result := &dto.CancellableDTO{CancelAble: resp.CancelAble}
	for _, reason := range resp.CancelReasons {
		result.CancelReasons = append(result.CancelReasons, dto.CancelReasonDTO(reason))
	}

	if raw, err := json.Marshal(result); err == nil {
		_ = s.cacheRepo.Set(ctx, cacheKey, string(raw), s.cacheTTL)
	}
	return result, nil
}

// Cancel отменяет принятый заказ и возвращает остатки — точная инверсия Accept.
// Ошибка вызова Grab логируется, но не блокирует компенсацию: заказ, от которого
// аптека отказывается, не должен оставлять склад в неверном состоянии из-за
// упавшего удалённого вызова.
func (s *OrderService) Cancel(ctx context.Context, grabOrderID string, cancelCode string) error {
	if cancelCode == "" {
		return apperrors.NewInvalidInputError("cancelCode обязателен")
	}

	order, err := s.orderRepo.FindByGrabID(ctx, nil, grabOrderID)
	if err != nil {
		return err
	}

	mutations, err := mutationsFromPayload(order.GrabPayloadRaw)
	if err != nil {
		return err
	}

	branch, err := s.branchRepo.FindBranch(ctx, order.BranchID)
	if err != nil {
		return err
	}

	if err := s.grabProvider.CancelOrder(ctx, grabOrderID, branch.GrabMerchantID, cancelCode); err != nil {
		s.logger.Error("Вызов отмены в Grab не удался, продолжаем локальную компенсацию",
			zap.String("grab_order_id", grabOrderID), zap.Error(err))
	}

	from, to, err := entities.TransitionFor(entities.OpCancel)
	if err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.orderRepo.UpdateStatusFrom(ctx, tx, grabOrderID, from, to); err != nil {
			return err
		}
		for _, m := range mutations {
			s.logger.Info("Возврат остатка по позиции заказа",
				zap.String("grab_order_id", grabOrderID),
				zap.Uint64("branch_id", order.BranchID),
				zap.String("product_id", m.productID),
				zap.Int64("amount", m.amount),
			)
			if err := s.inventoryRepo.IncreaseStock(ctx, tx, order.BranchID, m.productID, m.amount); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Заказ отменён, остатки возвращены", zap.String("grab_order_id", grabOrderID))
	return nil
}

// CreateOfflineOrder — продажа за кассой. Проверка и списание остатков идут
// через тот же леджер и в одной транзакции с созданием заказа.
func (s *OrderService) CreateOfflineOrder(ctx context.Context, orderData dto.CreateOfflineOrderDTO) (uint64, error) {
	items := make([]entities.OrderItem, 0, len(orderData.Items))
	for _, item := range orderData.Items {
		items = append(items, entities.OrderItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	var orderID uint64
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		orderID, err = s.orderRepo.CreateOffline(ctx, tx, orderData.BranchID, items)
		if err != nil {
			return err
		}
		for _, item := range orderData.Items {
			if err := s.inventoryRepo.DecreaseStock(ctx, tx, orderData.BranchID, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return orderID, nil
}

func (s *OrderService) GetOrders(ctx context.Context, filter repositories.OrderFilter) ([]entities.Order, uint64, error) {
	return s.orderRepo.GetOrders(ctx, filter)
}
